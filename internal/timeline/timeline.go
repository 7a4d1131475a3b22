// Package timeline assembles the provenance read model for a product: its
// checkpoint sequence ordered by timestamp plus derived statistics. Derived
// values (current location, folded status, days in transit) are computed from
// the checkpoint history on every fetch, never stored, so they cannot drift
// from the events that justify them.
package timeline

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/provtrace/go-product-provenance/internal/registry"
)

// RecordStore is the subset of the record client the builder needs.
type RecordStore interface {
	GetProduct(ctx context.Context, recordID string) (*registry.Product, error)
	GetCheckpoints(ctx context.Context, recordID string) ([]registry.Checkpoint, error)
}

// StatusPolicy folds one checkpoint into the current product status. The
// rule for what marks "delivered" or "flagged" is deployment-specific, so the
// policy is pluggable.
type StatusPolicy func(current string, cp registry.Checkpoint) string

// DefaultStatusPolicy: any checkpoint moves CREATED to IN_TRANSIT; a
// checkpoint tagged DELIVERED or FLAGGED moves the product there. DELIVERED
// and FLAGGED are terminal.
func DefaultStatusPolicy(current string, cp registry.Checkpoint) string {
	if current == registry.StatusDelivered || current == registry.StatusFlagged {
		return current
	}
	switch cp.Status {
	case registry.StatusDelivered:
		return registry.StatusDelivered
	case registry.StatusFlagged:
		return registry.StatusFlagged
	default:
		return registry.StatusInTransit
	}
}

// Timeline is the read-only composite returned to presentation.
type Timeline struct {
	Product         registry.Product      `json:"product"`
	Checkpoints     []registry.Checkpoint `json:"checkpoints"`
	CheckpointCount int                   `json:"checkpoint_count"`
	DaysInTransit   int                   `json:"days_in_transit"`
	CurrentLocation string                `json:"current_location"`
	Status          string                `json:"status"`
}

// Builder fetches and derives provenance timelines.
type Builder struct {
	store   RecordStore
	policy  StatusPolicy
	nowFunc func() time.Time
	logger  *slog.Logger
}

// New returns a timeline builder using DefaultStatusPolicy.
func New(store RecordStore, logger *slog.Logger) *Builder {
	return &Builder{
		store:   store,
		policy:  DefaultStatusPolicy,
		nowFunc: time.Now,
		logger:  logger.With(slog.String("component", "timeline")),
	}
}

// WithPolicy replaces the status folding policy.
func (b *Builder) WithPolicy(p StatusPolicy) *Builder {
	b.policy = p
	return b
}

// Get fetches the product and its checkpoints and derives the timeline.
// Returns registry.ErrNotFound when the product does not exist; an empty
// checkpoint sequence is a valid non-error result.
func (b *Builder) Get(ctx context.Context, recordID string) (*Timeline, error) {
	product, err := b.store.GetProduct(ctx, recordID)
	if err != nil {
		return nil, err
	}

	checkpoints, err := b.store.GetCheckpoints(ctx, recordID)
	if err != nil {
		return nil, err
	}

	// Stable sort: ties keep the store's insertion order.
	sort.SliceStable(checkpoints, func(i, j int) bool {
		return checkpoints[i].Timestamp.Before(checkpoints[j].Timestamp)
	})

	tl := &Timeline{
		Product:         *product,
		Checkpoints:     checkpoints,
		CheckpointCount: len(checkpoints),
		DaysInTransit:   daysBetweenUTC(product.CreatedAt, b.nowFunc()),
		CurrentLocation: product.OriginLocation,
		Status:          product.Status,
	}
	if tl.Status == "" {
		tl.Status = registry.StatusCreated
	}

	for _, cp := range checkpoints {
		tl.Status = b.policy(tl.Status, cp)
	}
	if len(checkpoints) > 0 {
		tl.CurrentLocation = checkpoints[len(checkpoints)-1].Location
	}

	return tl, nil
}

// daysBetweenUTC counts whole days between from and now on UTC day
// boundaries, clamped at 0. Zero when from is unset.
func daysBetweenUTC(from, now time.Time) int {
	if from.IsZero() {
		return 0
	}
	fromDay := dayNumberUTC(from)
	nowDay := dayNumberUTC(now)
	if nowDay <= fromDay {
		return 0
	}
	return nowDay - fromDay
}

func dayNumberUTC(t time.Time) int {
	u := t.UTC()
	y, m, d := u.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
