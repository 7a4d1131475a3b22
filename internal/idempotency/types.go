package idempotency

import "time"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Record is the shape persisted in the checkpoint-ingestion idempotency
// DynamoDB table. One entry per event key; duplicate SQS deliveries of the
// same custody event resolve against it instead of creating a second
// checkpoint.
type Record struct {
	EventKey        string    `dynamodbav:"event_key"` // PK
	Status          string    `dynamodbav:"status"`
	ProductRecordID string    `dynamodbav:"product_record_id,omitempty"`
	CheckpointID    string    `dynamodbav:"checkpoint_id,omitempty"` // set once the checkpoint is created
	CreatedAt       time.Time `dynamodbav:"created_at"`
	UpdatedAt       time.Time `dynamodbav:"updated_at"`
	ExpiresAt       int64     `dynamodbav:"expires_at"` // TTL epoch seconds
	Note            string    `dynamodbav:"note,omitempty"`
}
