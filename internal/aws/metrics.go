package aws

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the API and worker.
const (
	MetricRegistrations       = "ProductsRegistered"
	MetricAnchorFailures      = "AnchorFailures"
	MetricRenderFailures      = "LabelRenderFailures"
	MetricCheckpointsIngested = "CheckpointsIngested"
)

// Emitter pushes custom metrics to CloudWatch. Emission is best-effort:
// failures are logged and never propagate to the request path.
type Emitter struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	Logger     *slog.Logger
}

// NewEmitter returns an Emitter for the given namespace.
func NewEmitter(cw CloudWatchAPI, namespace string, logger *slog.Logger) *Emitter {
	return &Emitter{
		CloudWatch: cw,
		Namespace:  namespace,
		Logger:     logger.With(slog.String("component", "metrics")),
	}
}

// Count publishes a single count datapoint. A nil Emitter is a no-op so
// wiring metrics stays optional in local runs.
func (e *Emitter) Count(ctx context.Context, name string, value float64) {
	if e == nil || e.CloudWatch == nil {
		return
	}
	_, err := e.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &e.Namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Value:      &value,
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	})
	if err != nil {
		e.Logger.Warn("metric emission failed",
			slog.String("metric", name),
			slog.String("error", err.Error()),
		)
	}
}
