package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	meterName  = "banderole"
	tracerName = "banderole"
)

// OTelProvider implements Provider using OpenTelemetry
type OTelProvider struct {
	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	evaluations     metric.Int64Counter
	unknownFeatures metric.Int64Counter
	refreshDuration metric.Float64Histogram
	refreshSuccess  metric.Int64Counter
	refreshFailure  metric.Int64Counter
}

// NewOTel creates a new OpenTelemetry provider
func NewOTel() (*OTelProvider, error) {
	provider := &OTelProvider{
		tracer: otel.Tracer(tracerName),
		meter:  otel.Meter(meterName),
	}

	if err := provider.initMetrics(); err != nil {
		return nil, err
	}

	return provider, nil
}

// initMetrics initializes all metrics
func (o *OTelProvider) initMetrics() error {
	var err error

	o.evaluations, err = o.meter.Int64Counter(
		"banderole.evaluations",
		metric.WithDescription("Number of toggle evaluations"),
	)
	if err != nil {
		return err
	}

	o.unknownFeatures, err = o.meter.Int64Counter(
		"banderole.evaluations.unknown",
		metric.WithDescription("Number of evaluations of unknown toggles"),
	)
	if err != nil {
		return err
	}

	o.refreshDuration, err = o.meter.Float64Histogram(
		"banderole.refresh.duration",
		metric.WithDescription("Duration of toggle refresh operations"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	o.refreshSuccess, err = o.meter.Int64Counter(
		"banderole.refresh.success",
		metric.WithDescription("Number of successful refreshes"),
	)
	if err != nil {
		return err
	}

	o.refreshFailure, err = o.meter.Int64Counter(
		"banderole.refresh.failure",
		metric.WithDescription("Number of failed refreshes"),
	)
	if err != nil {
		return err
	}

	return nil
}

// StartSpan creates a new trace span
func (o *OTelProvider) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	config := &SpanConfig{}
	for _, opt := range opts {
		opt(config)
	}

	otelAttrs := make([]attribute.KeyValue, len(config.Attributes))
	for i, attr := range config.Attributes {
		otelAttrs[i] = convertAttribute(attr)
	}

	ctx, otelSpan := o.tracer.Start(ctx, name,
		trace.WithAttributes(otelAttrs...))

	return ctx, &OTelSpan{span: otelSpan}
}

// convertAttribute converts our Attribute to OTel attribute
func convertAttribute(attr Attribute) attribute.KeyValue {
	switch v := attr.Value.(type) {
	case string:
		return attribute.String(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int64:
		return attribute.Int64(attr.Key, v)
	case bool:
		return attribute.Bool(attr.Key, v)
	case float64:
		return attribute.Float64(attr.Key, v)
	default:
		return attribute.String(attr.Key, "")
	}
}

// RecordEvaluation records a toggle evaluation
func (o *OTelProvider) RecordEvaluation(ctx context.Context, featureName string, enabled bool, variantName string) {
	o.evaluations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("feature.name", featureName),
		attribute.Bool("feature.enabled", enabled),
		attribute.String("feature.variant", variantName),
	))
}

// RecordUnknownFeature records an evaluation of a toggle that is not
// in the current snapshot
func (o *OTelProvider) RecordUnknownFeature(ctx context.Context, featureName string) {
	o.unknownFeatures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("feature.name", featureName),
	))
}

// RecordRefresh records a toggle refresh operation
func (o *OTelProvider) RecordRefresh(ctx context.Context, success bool, duration time.Duration, featureCount int) {
	o.refreshDuration.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(
			attribute.Bool("success", success),
		))

	if success {
		o.refreshSuccess.Add(ctx, 1, metric.WithAttributes(
			attribute.Int("feature.count", featureCount),
		))
	} else {
		o.refreshFailure.Add(ctx, 1)
	}
}

// Shutdown shuts down the provider
func (o *OTelProvider) Shutdown(ctx context.Context) error {
	// OTel SDK shutdown is handled globally
	return nil
}

// OTelSpan wraps an OpenTelemetry span
type OTelSpan struct {
	span trace.Span
}

// End completes the span
func (s *OTelSpan) End() {
	s.span.End()
}

// SetAttributes sets attributes on the span
func (s *OTelSpan) SetAttributes(attrs ...Attribute) {
	otelAttrs := make([]attribute.KeyValue, len(attrs))
	for i, attr := range attrs {
		otelAttrs[i] = convertAttribute(attr)
	}
	s.span.SetAttributes(otelAttrs...)
}

// RecordError records an error on the span
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}
