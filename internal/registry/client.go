// Package registry is the typed HTTP client for the authoritative provenance
// record store. It owns no state: every method is a single request/response
// against the remote service, which enforces product_key uniqueness and
// assigns record/checkpoint ids.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the record store over HTTP+JSON.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient returns a record store client.
// baseURL — base URL of the record store (e.g. https://records.internal:8443).
// timeout — per-request timeout; a timed-out call is reported as a StoreError.
// apiKey — bearer token for the store; empty disables the Authorization header.
func NewClient(baseURL string, timeout time.Duration, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.With(slog.String("component", "registry_client")),
	}
}

// CreateProduct registers a new product record.
// Returns ErrDuplicate when the store rejects the product_key as taken.
func (c *Client) CreateProduct(ctx context.Context, np NewProduct) (*Product, error) {
	var p Product
	err := c.do(ctx, http.MethodPost, "/api/v1/products", np, &p, "create product")
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct fetches a product by its store-assigned record id.
func (c *Client) GetProduct(ctx context.Context, recordID string) (*Product, error) {
	var p Product
	path := "/api/v1/products/" + url.PathEscape(recordID)
	if err := c.do(ctx, http.MethodGet, path, nil, &p, "get product"); err != nil {
		return nil, err
	}
	return &p, nil
}

// VerifyByIdentifier resolves an identifier (product_key or record_id) to a
// product. Returns ErrNotFound for unknown identifiers.
func (c *Client) VerifyByIdentifier(ctx context.Context, identifier string) (*Product, error) {
	var p Product
	path := "/api/v1/products/verify?identifier=" + url.QueryEscape(identifier)
	if err := c.do(ctx, http.MethodGet, path, nil, &p, "verify identifier"); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateAnchorReference links a confirmed on-chain anchor to the record.
func (c *Client) UpdateAnchorReference(ctx context.Context, recordID, ref string) error {
	path := "/api/v1/products/" + url.PathEscape(recordID) + "/anchor"
	body := map[string]string{"anchor_reference": ref}
	return c.do(ctx, http.MethodPatch, path, body, nil, "update anchor reference")
}

// CreateCheckpoint records a custody event for a product.
func (c *Client) CreateCheckpoint(ctx context.Context, nc NewCheckpoint) (*Checkpoint, error) {
	var cp Checkpoint
	path := "/api/v1/products/" + url.PathEscape(nc.ProductRecordID) + "/checkpoints"
	if err := c.do(ctx, http.MethodPost, path, nc, &cp, "create checkpoint"); err != nil {
		return nil, err
	}
	return &cp, nil
}

// GetCheckpoints fetches all custody events for a product. The store returns
// them in insertion order; ordering by timestamp is the timeline builder's job.
func (c *Client) GetCheckpoints(ctx context.Context, recordID string) ([]Checkpoint, error) {
	var cps []Checkpoint
	path := "/api/v1/products/" + url.PathEscape(recordID) + "/checkpoints"
	if err := c.do(ctx, http.MethodGet, path, nil, &cps, "get checkpoints"); err != nil {
		return nil, err
	}
	return cps, nil
}

// do performs one JSON request/response cycle and maps the HTTP status to the
// error taxonomy: 404 -> ErrNotFound, 409 -> ErrDuplicate, other non-2xx or
// transport failures -> StoreError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, op string) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &StoreError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &StoreError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrDuplicate
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// Drain a little of the body for the log only; it never reaches callers' users.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("record store rejected request",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
		)
		return &StoreError{Op: op, Status: resp.StatusCode, Err: errors.New(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &StoreError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
