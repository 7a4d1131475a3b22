// Package registration drives the multi-step product registration sequence:
// a mandatory durable record create, a best-effort on-chain anchor, and a
// best-effort QR label render. Only the record create can fail the operation;
// the other steps report typed outcomes on the result instead of aborting.
package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/provtrace/go-product-provenance/internal/qrlabel"
	"github.com/provtrace/go-product-provenance/internal/registry"
	"github.com/provtrace/go-product-provenance/internal/validation"
)

// AnchorStatus classifies the outcome of the best-effort anchoring step.
type AnchorStatus string

const (
	// AnchorSkipped — no authenticated signer was available.
	AnchorSkipped AnchorStatus = "SKIPPED"
	// AnchorConfirmed — anchored on-chain and linked in the record store.
	AnchorConfirmed AnchorStatus = "CONFIRMED"
	// AnchorFailed — the gateway rejected or failed the submission.
	AnchorFailed AnchorStatus = "FAILED"
	// AnchorUnlinked — anchored on-chain but the record store link write
	// failed. Accepted eventual-consistency gap, not a registration failure.
	AnchorUnlinked AnchorStatus = "UNLINKED"
)

// RecordStore is the subset of the record client the orchestrator needs.
type RecordStore interface {
	CreateProduct(ctx context.Context, np registry.NewProduct) (*registry.Product, error)
	UpdateAnchorReference(ctx context.Context, recordID, ref string) error
}

// Anchorer submits a product for on-chain anchoring.
type Anchorer interface {
	Anchor(ctx context.Context, productKey, name, signer string) (string, error)
}

// LabelRenderer renders the scannable identifier image.
type LabelRenderer interface {
	Render(p qrlabel.Payload) ([]byte, error)
}

// Signer is an authenticated identity able to sign anchor submissions.
type Signer struct {
	Subject string
	Role    string
}

// Result is the registered-product view returned to presentation.
type Result struct {
	Product      *registry.Product
	AnchorStatus AnchorStatus
	AnchorNote   string // short failure note for FAILED/UNLINKED, never raw transport bodies
	Label        []byte // QR PNG; nil when rendering failed
	RenderFailed bool
}

// Orchestrator owns the registration consistency policy.
type Orchestrator struct {
	store    RecordStore
	anchorer Anchorer
	renderer LabelRenderer
	validate *validatorv10.Validate
	logger   *slog.Logger
}

// New returns a registration orchestrator.
func New(store RecordStore, anchorer Anchorer, renderer LabelRenderer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		anchorer: anchorer,
		renderer: renderer,
		validate: validation.New(),
		logger:   logger.With(slog.String("component", "registration")),
	}
}

// Register validates the request and runs the registration sequence.
//
// Error classes:
//   - validation.FieldErrors — invalid input, no network call was made
//   - registry.ErrDuplicate — product_key already registered
//   - *registry.StoreError — record store failed; nothing was registered
//
// Anchoring and label rendering never fail the operation; their outcomes are
// reported on the Result.
func (o *Orchestrator) Register(ctx context.Context, req validation.RegisterProductRequest, signer *Signer) (*Result, error) {
	if err := o.validate.Struct(req); err != nil {
		return nil, validation.ToFieldErrors(err)
	}

	np, err := toNewProduct(req)
	if err != nil {
		// dates already passed tag validation; reaching this means a layout
		// drift between tag and parser
		return nil, validation.FieldErrors{"manufacturing_date": "invalid date"}
	}

	// Step 1: mandatory durable record. Any failure aborts registration.
	product, err := o.store.CreateProduct(ctx, np)
	if err != nil {
		return nil, err
	}

	res := &Result{Product: product, AnchorStatus: AnchorSkipped}

	// Step 2: best-effort on-chain anchor, only with a signing identity.
	if signer != nil {
		o.anchorProduct(ctx, res, signer)
	}

	// Step 3: best-effort label render. Cosmetic; absence does not fail registration.
	label, err := o.renderer.Render(qrlabel.Payload{
		ProductKey: product.ProductKey,
		RecordID:   product.RecordID,
	})
	if err != nil {
		o.logger.Warn("label render failed",
			slog.String("record_id", product.RecordID),
			slog.String("error", err.Error()),
		)
		res.RenderFailed = true
	} else {
		res.Label = label
	}

	return res, nil
}

// anchorProduct runs the anchor submission and link write. Failures are
// recorded on the result, never returned.
func (o *Orchestrator) anchorProduct(ctx context.Context, res *Result, signer *Signer) {
	product := res.Product

	ref, err := o.anchorer.Anchor(ctx, product.ProductKey, product.Name, signer.Subject)
	if err != nil {
		o.logger.Warn("anchor submission failed",
			slog.String("record_id", product.RecordID),
			slog.String("signer", signer.Subject),
			slog.String("error", err.Error()),
		)
		res.AnchorStatus = AnchorFailed
		res.AnchorNote = "anchor submission failed"
		return
	}

	res.Product.AnchorReference = ref

	if err := o.store.UpdateAnchorReference(ctx, product.RecordID, ref); err != nil {
		// The anchor exists on-chain but is not linked off-chain yet.
		// Registration still succeeds; reconciliation can link it later.
		o.logger.Warn("anchor reference link failed",
			slog.String("record_id", product.RecordID),
			slog.String("anchor_ref", ref),
			slog.String("error", err.Error()),
		)
		res.AnchorStatus = AnchorUnlinked
		res.AnchorNote = "anchor confirmed on-chain but not yet linked"
		return
	}

	res.AnchorStatus = AnchorConfirmed
}

func toNewProduct(req validation.RegisterProductRequest) (registry.NewProduct, error) {
	mfg, err := time.Parse(validation.DateLayout, req.ManufacturingDate)
	if err != nil {
		return registry.NewProduct{}, err
	}

	np := registry.NewProduct{
		ProductKey:        req.ProductKey,
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		ManufacturingDate: mfg,
		OriginLocation:    req.OriginLocation,
		TempMin:           req.TempMin,
		TempMax:           req.TempMax,
	}

	if req.ExpiryDate != "" {
		exp, err := time.Parse(validation.DateLayout, req.ExpiryDate)
		if err != nil {
			return registry.NewProduct{}, err
		}
		np.ExpiryDate = &exp
	}
	return np, nil
}

// IsDuplicate reports whether err is the record store's uniqueness rejection.
func IsDuplicate(err error) bool {
	return errors.Is(err, registry.ErrDuplicate)
}
