package worker

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/provtrace/go-product-provenance/internal/aws"
	"github.com/provtrace/go-product-provenance/internal/idempotency"
	"github.com/provtrace/go-product-provenance/internal/registry"
)

func envDuration(name string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(name); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	recordStoreURL := os.Getenv("RECORD_STORE_URL")
	if recordStoreURL == "" {
		log.Fatal("RECORD_STORE_URL is required")
	}
	recordClient := registry.NewClient(
		recordStoreURL,
		envDuration("RECORD_STORE_TIMEOUT", 10*time.Second),
		os.Getenv("RECORD_STORE_API_KEY"),
		logger,
	)

	idempStore := idempotency.NewStore(clients.DynamoDB, os.Getenv("IDEMPOTENCY_TABLE"), 48*time.Hour)

	var metrics *aws.Emitter
	if ns := os.Getenv("METRICS_NAMESPACE"); ns != "" {
		metrics = aws.NewEmitter(clients.CloudWatch, ns, logger)
	}

	p := NewProcessor(recordClient, idempStore, metrics, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"event_key":"local-evt-1","product_record_id":"rec-local-1","location":"Local Depot","timestamp":"2024-01-01T00:00:00Z"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{
					Body: testBody,
				},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
