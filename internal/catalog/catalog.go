package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// DimensionKeys is the fixed order in which dimension matches are assigned.
var DimensionKeys = []string{"width", "depth", "height"}

// Measurement is a single dimension value with its unit.
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Asset is one normalized image extracted from a page.
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Product is the record inferred from a single catalogue page.
type Product struct {
	ProductCode  *string                // First line that looks like a code
	Name         *string                // Line after the code
	Subtitle     *string                // Second line after the code
	Category     *string                // First line of the page (unless it is the code)
	PackQuantity *int                   // "<n> PACK(S|ING)"
	Price        decimal.NullDecimal    // Never set by extraction
	Currency     *string                // Caller-supplied default
	SpecFeatures []string               // Uppercase spec bullet lines
	Dimensions   map[string]Measurement // width/depth/height in cm
	RawText      string                 // Full page text, kept for auditing
	PageNumber   int                    // 1-based
	Assets       []Asset

	// SkippedAssets counts embedded images that could not be normalized.
	SkippedAssets int
}

// Identifier is the storage prefix for this product's assets.
func (p *Product) Identifier() string {
	if p.ProductCode != nil {
		return *p.ProductCode
	}
	return "page-" + strconv.Itoa(p.PageNumber)
}

// Row is the table shape written by the sync client.
type Row struct {
	ProductCode     string                 `json:"product_code"`
	Name            *string                `json:"name"`
	Subtitle        *string                `json:"subtitle"`
	Category        *string                `json:"category"`
	PackQuantity    *int                   `json:"pack_quantity"`
	Price           decimal.NullDecimal    `json:"price"`
	Currency        *string                `json:"currency"`
	SpecFeatures    []string               `json:"spec_features"`
	Dimensions      map[string]Measurement `json:"dimensions"`
	PrimaryImageURL *string                `json:"primary_image_url"`
	ImageURLs       []string               `json:"image_urls"`
	PageNumber      int                    `json:"page_number"`
	RawText         string                 `json:"raw_text"`
}

// NewRow builds the table row for a product with a code. The caller must
// check ProductCode before calling.
func NewRow(p *Product, imageURLs []string) Row {
	row := Row{
		ProductCode:  *p.ProductCode,
		Name:         p.Name,
		Subtitle:     p.Subtitle,
		Category:     p.Category,
		PackQuantity: p.PackQuantity,
		Price:        p.Price,
		Currency:     p.Currency,
		SpecFeatures: p.SpecFeatures,
		Dimensions:   p.Dimensions,
		ImageURLs:    imageURLs,
		PageNumber:   p.PageNumber,
		RawText:      p.RawText,
	}
	if row.SpecFeatures == nil {
		row.SpecFeatures = []string{}
	}
	if row.Dimensions == nil {
		row.Dimensions = map[string]Measurement{}
	}
	if row.ImageURLs == nil {
		row.ImageURLs = []string{}
	}
	if len(imageURLs) > 0 {
		primary := imageURLs[0]
		row.PrimaryImageURL = &primary
	}
	return row
}
