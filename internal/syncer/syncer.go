// Package syncer pushes parsed products to object storage and a table store.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/catalogsync/internal/catalog"
)

// ErrMissingProductCode is returned for a product that has no key to upsert on.
var ErrMissingProductCode = errors.New("product has no product code")

// ObjectStore is path-addressed blob storage with public URLs.
type ObjectStore interface {
	BucketExists(ctx context.Context, name string) (bool, error)
	CreateBucket(ctx context.Context, name string, public bool) error
	Upload(ctx context.Context, bucket, objectPath, contentType string, data []byte) error
	PublicURL(bucket, objectPath string) string
}

// TableStore upserts product rows keyed by product_code.
type TableStore interface {
	UpsertProduct(ctx context.Context, row catalog.Row) error
}

// Syncer uploads assets into one bucket and writes rows into one table.
type Syncer struct {
	objects ObjectStore
	table   TableStore
	bucket  string
	log     *slog.Logger
}

// New returns a Syncer after making sure bucket exists, creating it as a
// public bucket when missing.
func New(ctx context.Context, objects ObjectStore, table TableStore, bucket string, log *slog.Logger) (*Syncer, error) {
	s := &Syncer{objects: objects, table: table, bucket: bucket, log: log}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Syncer) ensureBucket(ctx context.Context) error {
	exists, err := s.objects.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	s.log.Info("creating storage bucket", "bucket", s.bucket)
	if err := s.objects.CreateBucket(ctx, s.bucket, true); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// UploadAssets stores each asset at "<identifier>/<filename>" and returns
// their public URLs in input order. The first failure stops the upload.
func (s *Syncer) UploadAssets(ctx context.Context, identifier string, assets []catalog.Asset) ([]string, error) {
	urls := make([]string, 0, len(assets))
	for _, a := range assets {
		objectPath := identifier + "/" + a.Filename
		if err := s.objects.Upload(ctx, s.bucket, objectPath, a.ContentType, a.Data); err != nil {
			return urls, fmt.Errorf("upload asset %s: %w", objectPath, err)
		}
		urls = append(urls, s.objects.PublicURL(s.bucket, objectPath))
	}
	return urls, nil
}

// UpsertProduct writes p with its image URLs. The first URL becomes the
// primary image.
func (s *Syncer) UpsertProduct(ctx context.Context, p *catalog.Product, imageURLs []string) error {
	if p.ProductCode == nil {
		return ErrMissingProductCode
	}
	if err := s.table.UpsertProduct(ctx, catalog.NewRow(p, imageURLs)); err != nil {
		return fmt.Errorf("upsert product %s: %w", *p.ProductCode, err)
	}
	return nil
}
