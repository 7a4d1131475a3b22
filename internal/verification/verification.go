// Package verification resolves untrusted user input (a typed product key, a
// record id, or a decoded label payload) to a product record. Every lookup
// failure collapses to NotVerified: callers can never distinguish a missing
// record from an erroring store, so the endpoint cannot be used to probe
// system internals.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/provtrace/go-product-provenance/internal/qrlabel"
	"github.com/provtrace/go-product-provenance/internal/registry"
)

// ErrInvalidInput rejects empty/whitespace-only input before any network
// call. This is the only error Verify returns.
var ErrInvalidInput = errors.New("verification input is empty")

// Lookup is the record store operation the service consumes.
type Lookup interface {
	VerifyByIdentifier(ctx context.Context, identifier string) (*registry.Product, error)
}

// Outcome is exactly one of Verified(product) or NotVerified.
type Outcome struct {
	Verified bool
	Product  *registry.Product // nil unless Verified
}

// Service performs verification lookups.
type Service struct {
	lookup Lookup
	logger *slog.Logger
}

// New returns a verification service.
func New(lookup Lookup, logger *slog.Logger) *Service {
	return &Service{
		lookup: lookup,
		logger: logger.With(slog.String("component", "verification")),
	}
}

// Verify resolves raw input to a product or a definitive NotVerified outcome.
// The only error it returns is ErrInvalidInput.
func (s *Service) Verify(ctx context.Context, raw string) (Outcome, error) {
	identifier := strings.TrimSpace(raw)
	if identifier == "" {
		return Outcome{}, ErrInvalidInput
	}

	// Scanned labels arrive as the encoded payload; normalise to the product
	// key before the lookup. Bare keys and record ids pass through unchanged.
	if payload, ok := qrlabel.Decode(identifier); ok {
		if payload.ProductKey != "" {
			identifier = payload.ProductKey
		} else {
			identifier = payload.RecordID
		}
	}

	product, err := s.lookup.VerifyByIdentifier(ctx, identifier)
	if err != nil {
		// Not-found and transport failures are indistinguishable to the
		// caller; log the cause for operators only.
		if !errors.Is(err, registry.ErrNotFound) {
			s.logger.Warn("verification lookup failed", slog.String("error", err.Error()))
		}
		return Outcome{Verified: false}, nil
	}

	return Outcome{Verified: true, Product: product}, nil
}
