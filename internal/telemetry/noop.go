package telemetry

import (
	"context"
	"time"
)

// NoOpProvider is a telemetry provider that does nothing.
// It is the default when telemetry is not enabled.
type NoOpProvider struct{}

// NewNoOp creates a new no-op telemetry provider
func NewNoOp() *NoOpProvider {
	return &NoOpProvider{}
}

// StartSpan creates a no-op span
func (n *NoOpProvider) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	return ctx, &NoOpSpan{}
}

// RecordEvaluation does nothing
func (n *NoOpProvider) RecordEvaluation(ctx context.Context, featureName string, enabled bool, variantName string) {
}

// RecordUnknownFeature does nothing
func (n *NoOpProvider) RecordUnknownFeature(ctx context.Context, featureName string) {}

// RecordRefresh does nothing
func (n *NoOpProvider) RecordRefresh(ctx context.Context, success bool, duration time.Duration, featureCount int) {
}

// Shutdown does nothing
func (n *NoOpProvider) Shutdown(ctx context.Context) error {
	return nil
}

// NoOpSpan is a span that does nothing
type NoOpSpan struct{}

// End does nothing
func (n *NoOpSpan) End() {}

// SetAttributes does nothing
func (n *NoOpSpan) SetAttributes(attrs ...Attribute) {}

// RecordError does nothing
func (n *NoOpSpan) RecordError(err error) {}
