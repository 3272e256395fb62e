// Package pgstore writes catalogue rows straight into Postgres.
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dgallion1/catalogsync/internal/catalog"
)

// Store upserts products into one table keyed by product_code.
type Store struct {
	pool  *pgxpool.Pool
	table string // sanitized identifier
}

// New connects to databaseURL and checks the connection.
func New(ctx context.Context, databaseURL, table string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool, table: pgx.Identifier{table}.Sanitize()}, nil
}

// EnsureSchema creates the products table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			id                bigserial PRIMARY KEY,
			product_code      text NOT NULL UNIQUE,
			name              text,
			subtitle          text,
			category          text,
			pack_quantity     integer,
			price             numeric(12,2),
			currency          text,
			spec_features     text[] NOT NULL DEFAULT '{}',
			dimensions        jsonb NOT NULL DEFAULT '{}',
			primary_image_url text,
			image_urls        text[] NOT NULL DEFAULT '{}',
			page_number       integer NOT NULL,
			raw_text          text NOT NULL DEFAULT '',
			updated_at        timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// UpsertProduct inserts row, or overwrites the existing row with the same
// product_code.
func (s *Store) UpsertProduct(ctx context.Context, row catalog.Row) error {
	dims, err := json.Marshal(row.Dimensions)
	if err != nil {
		return fmt.Errorf("marshal dimensions: %w", err)
	}
	var price *string
	if row.Price.Valid {
		v := row.Price.Decimal.String()
		price = &v
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO `+s.table+`
		(product_code, name, subtitle, category, pack_quantity, price, currency,
		 spec_features, dimensions, primary_image_url, image_urls, page_number, raw_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (product_code) DO UPDATE SET
			name              = EXCLUDED.name,
			subtitle          = EXCLUDED.subtitle,
			category          = EXCLUDED.category,
			pack_quantity     = EXCLUDED.pack_quantity,
			price             = EXCLUDED.price,
			currency          = EXCLUDED.currency,
			spec_features     = EXCLUDED.spec_features,
			dimensions        = EXCLUDED.dimensions,
			primary_image_url = EXCLUDED.primary_image_url,
			image_urls        = EXCLUDED.image_urls,
			page_number       = EXCLUDED.page_number,
			raw_text          = EXCLUDED.raw_text,
			updated_at        = now()
	`,
		row.ProductCode, row.Name, row.Subtitle, row.Category, row.PackQuantity, price, row.Currency,
		row.SpecFeatures, dims, row.PrimaryImageURL, row.ImageURLs, row.PageNumber, cleanText(row.RawText),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", row.ProductCode, err)
	}
	return nil
}

// cleanText drops what Postgres text columns reject: invalid UTF-8 and NUL.
func cleanText(s string) string {
	return strings.ReplaceAll(strings.ToValidUTF8(s, ""), "\x00", "")
}

func (s *Store) Close() {
	s.pool.Close()
}
