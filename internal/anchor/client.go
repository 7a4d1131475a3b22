// Package anchor submits a product's canonical fields to the blockchain
// gateway and returns the resulting transaction id. The gateway owns wallet
// and signing mechanics; this client is a single best-effort operation from
// the orchestrator's point of view.
package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SubmitError indicates the gateway rejected or failed the anchor submission.
// Non-fatal to registration; the product stays valid and unanchored.
type SubmitError struct {
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("anchor submission: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("anchor submission: %v", e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Client talks to the blockchain gateway over HTTP+JSON.
type Client struct {
	httpClient *http.Client
	gatewayURL string
	logger     *slog.Logger
}

// NewClient returns an anchor client bound to the gateway base URL.
func NewClient(gatewayURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		logger:     logger.With(slog.String("component", "anchor_client")),
	}
}

type anchorRequest struct {
	ProductKey string `json:"product_key"`
	Name       string `json:"name"`
	Signer     string `json:"signer"`
}

type anchorResponse struct {
	TxID string `json:"tx_id"`
}

// Anchor submits the product's canonical fields for on-chain anchoring and
// returns the transaction id. Single attempt, no retry; the orchestrator
// classifies any error here as best-effort failure.
func (c *Client) Anchor(ctx context.Context, productKey, name, signer string) (string, error) {
	payload, err := json.Marshal(anchorRequest{ProductKey: productKey, Name: name, Signer: signer})
	if err != nil {
		return "", &SubmitError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/api/v1/anchors", bytes.NewReader(payload))
	if err != nil {
		return "", &SubmitError{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SubmitError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("anchor gateway rejected submission",
			slog.String("product_key", productKey),
			slog.Int("status", resp.StatusCode),
		)
		return "", &SubmitError{Status: resp.StatusCode, Err: fmt.Errorf("%s", snippet)}
	}

	var out anchorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &SubmitError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.TxID == "" {
		return "", &SubmitError{Status: resp.StatusCode, Err: fmt.Errorf("gateway returned empty tx id")}
	}
	return out.TxID, nil
}
