package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome classifies how a user operation ended.
type Outcome string

// Outcomes recorded for user operations.
const (
	OutcomeSuccess  Outcome = "success"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeNotFound Outcome = "not_found"
	OutcomeConflict Outcome = "conflict"
	OutcomeError    Outcome = "error"
)

// operationBuckets covers a single storage round trip, in seconds.
var operationBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// BusinessMetrics records the outcome and latency of user operations such as
// "user_create" or "user_delete".
type BusinessMetrics interface {
	ObserveUserOperation(ctx context.Context, operation string, outcome Outcome, elapsed time.Duration)
}

type businessMetrics struct {
	operations metric.Int64Counter
	latency    metric.Float64Histogram
}

// NewBusinessMetrics registers the user operation instruments under namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_user_operations_total", namespace),
		metric.WithDescription("User operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user operations counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		fmt.Sprintf("%s_user_operation_duration_seconds", namespace),
		metric.WithDescription("User operation latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(operationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user operation histogram: %w", err)
	}

	return &businessMetrics{operations: operations, latency: latency}, nil
}

func (b *businessMetrics) ObserveUserOperation(
	ctx context.Context,
	operation string,
	outcome Outcome,
	elapsed time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", string(outcome)),
	)
	b.operations.Add(ctx, 1, attrs)
	b.latency.Record(ctx, elapsed.Seconds(), attrs)
}

// NoOpBusinessMetrics discards every observation. Used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return NoOpBusinessMetrics{}
}

// ObserveUserOperation does nothing.
func (NoOpBusinessMetrics) ObserveUserOperation(context.Context, string, Outcome, time.Duration) {}
