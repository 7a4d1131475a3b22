package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/provtrace/go-product-provenance/internal/aws"
	"github.com/provtrace/go-product-provenance/internal/identity"
	"github.com/provtrace/go-product-provenance/internal/registration"
	"github.com/provtrace/go-product-provenance/internal/registry"
	"github.com/provtrace/go-product-provenance/internal/timeline"
	"github.com/provtrace/go-product-provenance/internal/validation"
	"github.com/provtrace/go-product-provenance/internal/verification"
)

// Config groups dependencies for the provenance API routes.
type Config struct {
	Registration *registration.Orchestrator
	Verifier     *verification.Service
	Timeline     *timeline.Builder
	Publisher    *aws.Publisher // checkpoint event queue; nil disables ingestion
	Metrics      *aws.Emitter   // optional; nil is a no-op
}

// RegisterProvenanceRoutes registers the provenance API.
// Presentation only ever talks to these routes; the record store, anchor
// gateway and renderer are reached exclusively through the services wired in
// via Config.
func RegisterProvenanceRoutes(r *gin.Engine, cfg Config) {
	v := validation.New()

	r.POST("/products", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.RegisterProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
			return
		}

		var signer *registration.Signer
		if id, ok := identity.FromContext(c); ok {
			signer = &registration.Signer{Subject: id.Subject, Role: id.Role}
		}

		res, err := cfg.Registration.Register(ctx, req, signer)
		if err != nil {
			writeRegistrationError(c, err)
			return
		}

		cfg.Metrics.Count(ctx, aws.MetricRegistrations, 1)
		if res.AnchorStatus == registration.AnchorFailed {
			cfg.Metrics.Count(ctx, aws.MetricAnchorFailures, 1)
		}
		if res.RenderFailed {
			cfg.Metrics.Count(ctx, aws.MetricRenderFailures, 1)
		}

		body := gin.H{
			"product":       res.Product,
			"anchor_status": res.AnchorStatus,
		}
		if res.AnchorNote != "" {
			body["anchor_note"] = res.AnchorNote
		}
		if len(res.Label) > 0 {
			body["qr_png_base64"] = base64.StdEncoding.EncodeToString(res.Label)
		}

		c.Header("Location", fmt.Sprintf("/products/%s/timeline", res.Product.RecordID))
		c.JSON(http.StatusCreated, body)
	})

	r.GET("/verify", func(c *gin.Context) {
		out, err := cfg.Verifier.Verify(c.Request.Context(), c.Query("code"))
		if err != nil {
			// only ErrInvalidInput reaches here; lookups never error out
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input"})
			return
		}
		if !out.Verified {
			c.JSON(http.StatusOK, gin.H{"verified": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"verified": true, "product": out.Product})
	})

	r.GET("/products/:recordId/timeline", func(c *gin.Context) {
		tl, err := cfg.Timeline.Get(c.Request.Context(), c.Param("recordId"))
		if err != nil {
			if errors.Is(err, registry.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "record_store_unavailable"})
			return
		}
		c.JSON(http.StatusOK, tl)
	})

	r.POST("/products/:recordId/checkpoints", func(c *gin.Context) {
		if cfg.Publisher == nil {
			c.JSON(http.StatusNotImplemented, gin.H{"error": "checkpoint_ingestion_disabled"})
			return
		}

		var req validation.CheckpointEventRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		// Require idempotency key header so redeliveries collapse to one checkpoint
		eventKey := c.GetHeader("Idempotency-Key")
		if eventKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
			return
		}

		ts := time.Now().UTC()
		if req.Timestamp != "" {
			parsed, err := time.Parse(time.RFC3339, req.Timestamp)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_timestamp", "msg": "timestamp must be RFC3339"})
				return
			}
			ts = parsed.UTC()
		}

		recordID := c.Param("recordId")
		msgPayload := map[string]interface{}{
			"event_key":         eventKey,
			"product_record_id": recordID,
			"location":          req.Location,
			"latitude":          req.Latitude,
			"longitude":         req.Longitude,
			"status":            req.Status,
			"temperature":       req.Temperature,
			"timestamp":         ts.Format(time.RFC3339),
			"notes":             req.Notes,
			"handled_by":        req.HandledBy,
		}
		payloadBytes, _ := json.Marshal(msgPayload)

		correlationID := c.GetHeader("X-Request-Id")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		attrs := map[string]string{
			"event_key":         eventKey,
			"product_record_id": recordID,
			"correlation_id":    correlationID,
		}

		if err := cfg.Publisher.SendCheckpointEvent(c.Request.Context(), string(payloadBytes), attrs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_failed"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":            "queued",
			"product_record_id": recordID,
			"correlation_id":    correlationID,
		})
	})
}

// writeRegistrationError maps orchestrator failures to responses with enough
// detail to correct input but without collaborator internals.
func writeRegistrationError(c *gin.Context, err error) {
	var fe validation.FieldErrors
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": fe})
	case errors.Is(err, registry.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate_product_key"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "record_store_unavailable"})
	}
}
