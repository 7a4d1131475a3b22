// Package qrlabel builds the scannable identifier for a registered product:
// a deterministic JSON payload of product_key + record_id, rendered as a QR
// PNG for physical attachment. Rendering is cosmetic; the payload is the
// authority.
package qrlabel

import (
	"encoding/json"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Payload is the minimal data encoded into the label. Field order is fixed by
// the struct so Encode output is byte-stable for a given product.
type Payload struct {
	ProductKey string `json:"product_key"`
	RecordID   string `json:"record_id"`
}

// RenderError indicates QR image generation failed. Non-fatal to
// registration; the product is returned without a label.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render label: %v", e.Err) }

func (e *RenderError) Unwrap() error { return e.Err }

// Encode serialises the payload to its canonical string form.
func Encode(p Payload) string {
	// Struct marshalling preserves field order; errors are impossible for
	// this shape.
	b, _ := json.Marshal(p)
	return string(b)
}

// Decode parses a scanned string back into a payload. ok is false when the
// input is not a label payload (e.g. a bare product key typed by hand).
func Decode(raw string) (Payload, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, false
	}
	if p.ProductKey == "" && p.RecordID == "" {
		return Payload{}, false
	}
	return p, true
}

// Renderer produces QR PNGs at a fixed pixel size.
type Renderer struct {
	size int
}

// NewRenderer returns a renderer. size is the PNG edge length in pixels;
// values < 64 are raised to 256.
func NewRenderer(size int) *Renderer {
	if size < 64 {
		size = 256
	}
	return &Renderer{size: size}
}

// Render encodes the payload into a QR PNG.
func (r *Renderer) Render(p Payload) ([]byte, error) {
	png, err := qrcode.Encode(Encode(p), qrcode.Medium, r.size)
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	return png, nil
}
