package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the OpenTelemetry meter and tracer used by the
// report pipeline. The meter is exported through the default Prometheus
// registry so it shows up on /metrics next to the promauto collectors.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	stageDuration  otelmetric.Float64Histogram
	runCounter     otelmetric.Int64Counter
}

// New wires a Prometheus-backed meter provider and an SDK tracer provider,
// and installs both globally. On exporter failure it degrades to a no-op
// meter instead of failing startup.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return NewNoop(serviceName), err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())))
	otel.SetTracerProvider(tp)

	o := build(provider.Meter(serviceName), tp.Tracer(serviceName))
	o.meterProvider = provider
	o.tracerProvider = tp
	return o, nil
}

// NewNoop returns an Observability that records nothing. Spans still come
// from the global tracer provider.
func NewNoop(serviceName string) *Observability {
	return build(noop.NewMeterProvider().Meter(serviceName), otel.Tracer(serviceName))
}

// NewWithTracerProvider records spans through tp and drops metrics.
func NewWithTracerProvider(serviceName string, tp trace.TracerProvider) *Observability {
	return build(noop.NewMeterProvider().Meter(serviceName), tp.Tracer(serviceName))
}

func build(meter otelmetric.Meter, tracer trace.Tracer) *Observability {
	stageDuration, _ := meter.Float64Histogram(
		"report.stage.duration",
		otelmetric.WithDescription("Report pipeline stage duration"),
		otelmetric.WithUnit("ms"),
	)
	runCounter, _ := meter.Int64Counter(
		"report.runs",
		otelmetric.WithDescription("Number of report pipeline runs"),
	)

	return &Observability{
		tracer:        tracer,
		stageDuration: stageDuration,
		runCounter:    runCounter,
	}
}

// StartSpan opens a span for one pipeline stage.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *Observability) RecordStageDuration(ctx context.Context, stage string, duration time.Duration, status string) {
	if o.stageDuration != nil {
		o.stageDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("stage", stage),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordRun(ctx context.Context, renderer, status string) {
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("renderer", renderer),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}

// TraceID returns the hex trace ID carried by ctx, or "" when there is none.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
