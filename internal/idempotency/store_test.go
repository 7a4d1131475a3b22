package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestCreateIfNotExists_Get_MarkDone_MarkFailed(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "idempotency-table", 48*time.Hour)

	ctx := context.Background()
	key := "event-key-1"
	recordID := "rec-123"

	created, err := s.CreateIfNotExists(ctx, key, recordID)
	if err != nil {
		t.Fatalf("CreateIfNotExists error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}

	// second create should return created=false (exists)
	created2, err := s.CreateIfNotExists(ctx, key, recordID)
	if err != nil {
		t.Fatalf("second CreateIfNotExists error: %v", err)
	}
	if created2 {
		t.Fatalf("expected created=false on duplicate create")
	}

	// Get the record
	rec, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected record, got nil")
	}
	if rec.Status != StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", rec.Status)
	}
	if rec.ProductRecordID != recordID {
		t.Fatalf("product record id mismatch")
	}

	// Mark done
	err = s.MarkDone(ctx, key, "cp-456")
	if err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}

	// Read raw item from mock to assert updated fields
	item := mock.table[key]
	if item == nil {
		t.Fatalf("mock item missing")
	}
	// verify status
	if st, ok := item["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusDone {
		t.Fatalf("status not updated to DONE, got %+v", item["status"])
	}
	// verify checkpoint id
	if cp, ok := item["checkpoint_id"].(*types.AttributeValueMemberS); !ok || cp.Value != "cp-456" {
		t.Fatalf("checkpoint_id not set correctly: %+v", item["checkpoint_id"])
	}

	// MarkFailed (should overwrite status)
	err = s.MarkFailed(ctx, key, "failed-reason")
	if err != nil {
		t.Fatalf("MarkFailed error: %v", err)
	}
	item2 := mock.table[key]
	if item2 == nil {
		t.Fatalf("mock item missing after mark failed")
	}
	if st, ok := item2["status"].(*types.AttributeValueMemberS); !ok || st.Value != StatusFailed {
		t.Fatalf("status not updated to FAILED, got %+v", item2["status"])
	}
	if n, ok := item2["note"].(*types.AttributeValueMemberS); !ok || n.Value != "failed-reason" {
		t.Fatalf("note not set, got %+v", item2["note"])
	}
}

func TestGet_Missing(t *testing.T) {
	s := NewStore(newSimpleMock(), "idempotency-table", time.Hour)

	rec, err := s.Get(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil for missing key, got %+v", rec)
	}
}
