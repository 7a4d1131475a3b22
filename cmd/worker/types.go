package worker

// CheckpointEvent is the payload sent from API -> SQS -> Worker for one
// custody event. EventKey is the client's idempotency key; redeliveries of
// the same key must not create a second checkpoint.
type CheckpointEvent struct {
	EventKey        string   `json:"event_key"`
	ProductRecordID string   `json:"product_record_id"`
	Location        string   `json:"location"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Status          string   `json:"status,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	Timestamp       string   `json:"timestamp"` // RFC3339
	Notes           string   `json:"notes,omitempty"`
	HandledBy       string   `json:"handled_by,omitempty"`
	CorrelationID   string   `json:"correlation_id,omitempty"`
}
