package observability

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the OpenTelemetry meter and tracer for one service.
// A nil *Observability is usable and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	extractions    otelmetric.Int64Counter
	duration       otelmetric.Float64Histogram
}

// New registers OpenTelemetry meter and tracer providers globally. Metrics
// are exported through the default Prometheus registry.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	obs, err := NewWithReader(serviceName, exporter)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(obs.meterProvider)
	otel.SetTracerProvider(obs.tracerProvider)
	return obs, nil
}

// NewWithReader builds providers around reader without touching the
// globals. Span processors, if any, receive every finished span.
func NewWithReader(serviceName string, reader metric.Reader, processors ...sdktrace.SpanProcessor) (*Observability, error) {
	meterProvider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := meterProvider.Meter(serviceName)

	extractions, err := meter.Int64Counter(
		"extractions.processed",
		otelmetric.WithDescription("Number of transcripts processed"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"extractions.duration",
		otelmetric.WithDescription("Transcript extraction duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	traceOpts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		traceOpts = append(traceOpts, sdktrace.WithSpanProcessor(p))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)

	return &Observability{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		tracer:         tracerProvider.Tracer(serviceName),
		extractions:    extractions,
		duration:       duration,
	}, nil
}

// StartSpan starts a span, on the global tracer provider when o is nil.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracerOrGlobal().Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) tracerOrGlobal() trace.Tracer {
	if o == nil || o.tracer == nil {
		return otel.Tracer("transcript-extractor")
	}
	return o.tracer
}

func (o *Observability) RecordExtraction(ctx context.Context, strategy, outcome string, elapsed time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("strategy", strategy),
		attribute.String("outcome", outcome),
	)
	if o.extractions != nil {
		o.extractions.Add(ctx, 1, attrs)
	}
	if o.duration != nil {
		o.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}

// Shutdown flushes both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
