package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Bucket is one storage bucket as listed by the API.
type Bucket struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

// ListBuckets returns every bucket in the project.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/storage/v1/bucket", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "list buckets", http.StatusOK); err != nil {
		return nil, err
	}

	var buckets []Bucket
	if err := json.NewDecoder(resp.Body).Decode(&buckets); err != nil {
		return nil, fmt.Errorf("decode buckets: %w", err)
	}
	return buckets, nil
}

// BucketExists reports whether a bucket with the given name or id exists.
func (c *Client) BucketExists(ctx context.Context, name string) (bool, error) {
	buckets, err := c.ListBuckets(ctx)
	if err != nil {
		return false, err
	}
	for _, b := range buckets {
		if b.Name == name || b.ID == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateBucket creates a bucket whose id and name are both name.
func (c *Client) CreateBucket(ctx context.Context, name string, public bool) error {
	body, err := json.Marshal(Bucket{ID: name, Name: name, Public: public})
	if err != nil {
		return fmt.Errorf("marshal bucket: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/storage/v1/bucket", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	defer resp.Body.Close()
	return checkStatus(resp, "create bucket "+name, http.StatusOK, http.StatusCreated)
}

// Upload stores data at objectPath inside bucket, overwriting any object
// already there.
func (c *Client) Upload(ctx context.Context, bucket, objectPath, contentType string, data []byte) error {
	u := c.baseURL + "/storage/v1/object/" + escapePath(bucket) + "/" + escapePath(objectPath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("x-upsert", "true")
	if c.cacheControl != "" {
		httpReq.Header.Set("cache-control", c.cacheControl)
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectPath, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp, "upload "+objectPath, http.StatusOK, http.StatusCreated)
}

// PublicURL is the unauthenticated download URL of an object in a public
// bucket. No request is made.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return c.baseURL + "/storage/v1/object/public/" + escapePath(bucket) + "/" + escapePath(objectPath)
}
