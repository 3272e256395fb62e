package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dgallion1/catalogsync/internal/catalog"
)

// Upsert inserts rows into table, merging into existing rows that collide
// on the onConflict column.
func (c *Client) Upsert(ctx context.Context, table, onConflict string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}

	u := c.baseURL + "/rest/v1/" + url.PathEscape(table)
	if onConflict != "" {
		u += "?on_conflict=" + url.QueryEscape(onConflict)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp, "upsert "+table, http.StatusOK, http.StatusCreated, http.StatusNoContent)
}

// ProductTable writes catalogue rows through PostgREST.
type ProductTable struct {
	client *Client
	name   string
}

func (c *Client) ProductTable(name string) *ProductTable {
	return &ProductTable{client: c, name: name}
}

// UpsertProduct writes row keyed by product_code.
func (t *ProductTable) UpsertProduct(ctx context.Context, row catalog.Row) error {
	return t.client.Upsert(ctx, t.name, "product_code", []catalog.Row{row})
}
