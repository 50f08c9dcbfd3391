package telemetry

import (
	"context"
	"time"
)

// Provider defines the interface for telemetry providers. Recording is
// best-effort: evaluation correctness never depends on a provider call
// succeeding.
type Provider interface {
	// Tracer operations
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)

	// Metrics operations
	RecordEvaluation(ctx context.Context, featureName string, enabled bool, variantName string)
	RecordUnknownFeature(ctx context.Context, featureName string)
	RecordRefresh(ctx context.Context, success bool, duration time.Duration, featureCount int)

	// Lifecycle
	Shutdown(ctx context.Context) error
}

// Span represents a trace span
type Span interface {
	// End completes the span
	End()

	// SetAttributes sets attributes on the span
	SetAttributes(attrs ...Attribute)

	// RecordError records an error
	RecordError(err error)
}

// SpanOption configures span creation
type SpanOption func(*SpanConfig)

// SpanConfig holds span configuration
type SpanConfig struct {
	Attributes []Attribute
}

// Attribute represents a key-value attribute
type Attribute struct {
	Key   string
	Value interface{}
}

// WithAttributes adds attributes to a span
func WithAttributes(attrs ...Attribute) SpanOption {
	return func(c *SpanConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// String creates a string attribute
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a bool attribute
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}
