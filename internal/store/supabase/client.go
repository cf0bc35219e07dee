// Package supabase is a minimal PostgREST client for the hosted store,
// plus repository implementations for the tenant, audit and calllog
// contracts. It exists so the service can run against a Supabase project
// with no direct Postgres connectivity.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config controls the REST client. BaseURL is the project URL
// (https://<project>.supabase.co); ServiceKey is the service-role key and
// must never be logged.
type Config struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
}

type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("supabase: base url is required")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("supabase: service key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		// The webhook path must stay well under the provider's response
		// budget even when the store is slow.
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		key:     cfg.ServiceKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Select runs a filtered GET against a table and decodes the JSON array
// response into dest (a pointer to a slice).
func (c *Client) Select(ctx context.Context, table string, filters url.Values, dest any) error {
	req, err := c.newRequest(ctx, http.MethodGet, table, filters, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: select %s: %w", table, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("supabase: select %s: %w", table, err)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// Insert POSTs one row. The response body is not needed; return=minimal
// keeps the round trip small.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	req, err := c.newRequest(ctx, http.MethodPost, table, nil, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: insert %s: %w", table, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("supabase: insert %s: %w", table, err)
	}
	return nil
}

// Upsert POSTs one row with merge-duplicates resolution on the given
// conflict column. PostgREST turns this into an atomic
// INSERT ... ON CONFLICT DO UPDATE on the unique key.
func (c *Client) Upsert(ctx context.Context, table, onConflict string, row any) error {
	filters := url.Values{}
	filters.Set("on_conflict", onConflict)

	req, err := c.newRequest(ctx, http.MethodPost, table, filters, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: upsert %s: %w", table, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("supabase: upsert %s: %w", table, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, table string, filters url.Values, body any) (*http.Request, error) {
	u := c.baseURL + "/rest/v1/" + table
	if len(filters) > 0 {
		u += "?" + filters.Encode()
	}

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// Truncate the error body; PostgREST errors are short but untrusted.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
