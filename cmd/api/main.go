package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/provtrace/go-product-provenance/internal/anchor"
	"github.com/provtrace/go-product-provenance/internal/aws"
	"github.com/provtrace/go-product-provenance/internal/handlers"
	"github.com/provtrace/go-product-provenance/internal/identity"
	"github.com/provtrace/go-product-provenance/internal/qrlabel"
	"github.com/provtrace/go-product-provenance/internal/registration"
	"github.com/provtrace/go-product-provenance/internal/registry"
	"github.com/provtrace/go-product-provenance/internal/timeline"
	"github.com/provtrace/go-product-provenance/internal/verification"
)

func setupRouter(cfg handlers.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), identity.Middleware())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterProvenanceRoutes(r, cfg)

	return r
}

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
	anchorClient := anchor.NewClient(
		os.Getenv("ANCHOR_GATEWAY_URL"),
		envDuration("ANCHOR_GATEWAY_TIMEOUT", 15*time.Second),
		logger,
	)

	var metrics *aws.Emitter
	if ns := os.Getenv("METRICS_NAMESPACE"); ns != "" {
		metrics = aws.NewEmitter(clients.CloudWatch, ns, logger)
	}

	cfg := handlers.Config{
		Registration: registration.New(recordClient, anchorClient, qrlabel.NewRenderer(256), logger),
		Verifier:     verification.New(recordClient, logger),
		Timeline:     timeline.New(recordClient, logger),
		Publisher:    aws.NewPublisher(clients.SQS, os.Getenv("CHECKPOINT_QUEUE_URL")),
		Metrics:      metrics,
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
