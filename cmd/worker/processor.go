package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/provtrace/go-product-provenance/internal/aws"
	"github.com/provtrace/go-product-provenance/internal/idempotency"
	"github.com/provtrace/go-product-provenance/internal/registry"
)

// RecordStore is the subset of the record client the worker needs.
type RecordStore interface {
	CreateCheckpoint(ctx context.Context, nc registry.NewCheckpoint) (*registry.Checkpoint, error)
}

// Processor handles SQS checkpoint events and writes them to the record store
// exactly once per event key.
type Processor struct {
	records    RecordStore
	idempStore *idempotency.Store
	metrics    *aws.Emitter
	logger     *slog.Logger
}

// NewProcessor creates a worker processor.
func NewProcessor(records RecordStore, idempStore *idempotency.Store, metrics *aws.Emitter, logger *slog.Logger) *Processor {
	return &Processor{
		records:    records,
		idempStore: idempStore,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "checkpoint_worker")),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Error("worker error", slog.String("error", err.Error()))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var event CheckpointEvent
	if err := json.Unmarshal([]byte(rec.Body), &event); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if event.EventKey == "" || event.ProductRecordID == "" {
		return fmt.Errorf("event missing key or product record id: %s", rec.Body)
	}

	p.logger.Info("received checkpoint event",
		slog.String("event_key", event.EventKey),
		slog.String("record_id", event.ProductRecordID),
		slog.String("correlation_id", event.CorrelationID),
	)

	// Step 1: claim the event key. A duplicate delivery resolves against the
	// existing record instead of creating a second checkpoint.
	created, err := p.idempStore.CreateIfNotExists(ctx, event.EventKey, event.ProductRecordID)
	if err != nil {
		return fmt.Errorf("claim event key: %w", err)
	}
	if !created {
		existing, err := p.idempStore.Get(ctx, event.EventKey)
		if err != nil {
			return fmt.Errorf("inspect event key: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("event key %s claimed but record missing", event.EventKey)
		}
		switch existing.Status {
		case idempotency.StatusDone:
			p.logger.Info("duplicate event already applied",
				slog.String("event_key", event.EventKey),
				slog.String("checkpoint_id", existing.CheckpointID),
			)
			return nil
		case idempotency.StatusInProgress:
			// competing worker holds the claim; swallow the duplicate
			p.logger.Info("duplicate event in progress", slog.String("event_key", event.EventKey))
			return nil
		case idempotency.StatusFailed:
			// previous attempt failed before the checkpoint was written; retry
		default:
			return fmt.Errorf("unexpected idempotency status %s for event %s", existing.Status, event.EventKey)
		}
	}

	// Step 2: write the checkpoint through the record client.
	cp, err := p.records.CreateCheckpoint(ctx, toNewCheckpoint(event))
	if err != nil {
		note := "create checkpoint failed"
		if markErr := p.idempStore.MarkFailed(ctx, event.EventKey, note); markErr != nil {
			p.logger.Warn("mark failed did not stick", slog.String("error", markErr.Error()))
		}
		return fmt.Errorf("create checkpoint: %w", err)
	}

	// Step 3: mark the event applied.
	if err := p.idempStore.MarkDone(ctx, event.EventKey, cp.CheckpointID); err != nil {
		return fmt.Errorf("mark event done: %w", err)
	}

	p.metrics.Count(ctx, aws.MetricCheckpointsIngested, 1)
	p.logger.Info("checkpoint applied",
		slog.String("event_key", event.EventKey),
		slog.String("checkpoint_id", cp.CheckpointID),
	)
	return nil
}

func toNewCheckpoint(event CheckpointEvent) registry.NewCheckpoint {
	ts, err := time.Parse(time.RFC3339, event.Timestamp)
	if err != nil {
		// enqueue path always sets a valid timestamp; tolerate hand-crafted
		// events by falling back to receive time
		ts = time.Now().UTC()
	}

	status := event.Status
	if status == "" {
		status = registry.StatusInTransit
	}

	return registry.NewCheckpoint{
		ProductRecordID: event.ProductRecordID,
		Timestamp:       ts,
		Location:        event.Location,
		Latitude:        event.Latitude,
		Longitude:       event.Longitude,
		Status:          status,
		Temperature:     event.Temperature,
		Notes:           event.Notes,
		HandledBy:       event.HandledBy,
	}
}
