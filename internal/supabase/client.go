// Package supabase talks to the Supabase Storage and PostgREST HTTP APIs.
package supabase

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 1024

// Config holds the connection settings for a project.
type Config struct {
	URL                 string
	ServiceKey          string
	Timeout             time.Duration // 0 means no timeout
	CacheControlSeconds int
}

// Client communicates with one Supabase project.
type Client struct {
	baseURL      string
	apiKey       string
	cacheControl string
	httpClient   *http.Client
}

func NewClient(cfg Config) *Client {
	cacheControl := ""
	if cfg.CacheControlSeconds > 0 {
		cacheControl = fmt.Sprintf("max-age=%d", cfg.CacheControlSeconds)
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		apiKey:       cfg.ServiceKey,
		cacheControl: cacheControl,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// APIError is a non-success response from Supabase.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
}

// checkStatus turns any status outside ok into an *APIError. The body is
// read only on failure.
func checkStatus(resp *http.Response, op string, ok ...int) error {
	for _, code := range ok {
		if resp.StatusCode == code {
			return nil
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
}

// escapePath escapes each segment of an object path, keeping the slashes.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
