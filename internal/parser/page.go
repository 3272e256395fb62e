package parser

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/catalogsync/internal/catalog"
	"github.com/dgallion1/catalogsync/internal/document"
	"github.com/dgallion1/catalogsync/internal/imaging"
)

// Source is the part of an open document the page parser reads.
type Source interface {
	PageText(index int) (string, error)
	PageImages(index int) ([]document.Image, error)
}

// PageParser turns one document page into one catalogue product.
type PageParser struct {
	src      Source
	currency *string
	log      *slog.Logger
}

// NewPageParser creates a parser over src. An empty defaultCurrency leaves
// Currency null on every product.
func NewPageParser(src Source, defaultCurrency string, log *slog.Logger) *PageParser {
	p := &PageParser{src: src, log: log}
	if defaultCurrency != "" {
		p.currency = &defaultCurrency
	}
	return p
}

// ParsePage returns the product for the 0-based page index. It always yields
// exactly one product; only document read failures are returned as errors.
// Images that fail to normalize are logged and skipped.
func (p *PageParser) ParsePage(index int) (*catalog.Product, error) {
	text, err := p.src.PageText(index)
	if err != nil {
		return nil, err
	}
	product := BuildProduct(text, index+1, p.currency)

	images, err := p.src.PageImages(index)
	if err != nil {
		return nil, err
	}
	p.attachAssets(product, images)

	return product, nil
}

func (p *PageParser) attachAssets(product *catalog.Product, images []document.Image) {
	prefix := "page"
	if product.ProductCode != nil {
		prefix = *product.ProductCode
	}

	for _, img := range images {
		data, err := imaging.Normalize(img.Data)
		if err != nil {
			p.log.Warn("skipping image that failed to normalize",
				"page", product.PageNumber,
				"image", img.Index+1,
				"mime", img.MIME,
				"error", err,
			)
			product.SkippedAssets++
			continue
		}
		product.Assets = append(product.Assets, catalog.Asset{
			Filename:    fmt.Sprintf("%s_%d.%s", prefix, img.Index+1, imaging.Ext),
			ContentType: imaging.ContentType,
			Data:        data,
		})
	}
}

// BuildProduct applies the text heuristics to one page of text.
func BuildProduct(text string, pageNumber int, currency *string) *catalog.Product {
	lines := SplitLines(text)

	product := &catalog.Product{
		Currency:   currency,
		RawText:    text,
		PageNumber: pageNumber,
	}

	for i, line := range lines {
		if !LooksLikeProductCode(line) {
			continue
		}
		product.ProductCode = strPtr(line)
		if i+1 < len(lines) {
			product.Name = strPtr(lines[i+1])
		}
		if i+2 < len(lines) {
			product.Subtitle = strPtr(lines[i+2])
		}
		break
	}

	if len(lines) > 0 {
		if product.ProductCode == nil || lines[0] != *product.ProductCode {
			product.Category = strPtr(lines[0])
		} else if len(lines) > 1 {
			product.Category = strPtr(lines[1])
		}
	}

	product.PackQuantity = ExtractPackQuantity(text)
	product.Dimensions = ExtractDimensions(text)
	product.SpecFeatures = ExtractFeatureLines(lines,
		deref(product.ProductCode),
		deref(product.Name),
		deref(product.Subtitle),
		deref(product.Category),
	)

	return product
}

func strPtr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
