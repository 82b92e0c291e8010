package telemetry

import (
	"context"
	"errors"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	systemName     = "mineescape"
	exportInterval = 60 * time.Second
)

// CollectorURL is the OTLP/HTTP endpoint solves are exported to. Empty disables export.
var CollectorURL = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

type discardErrors struct{}

func (discardErrors) Handle(error) {}

// New exports solve spans and metrics to collectorURL and returns a func that flushes and
// stops both providers. With an empty collectorURL nothing is installed, spans and
// instruments stay no-ops and the returned func does nothing.
func New(service, version, collectorURL string) (func(), error) {
	if collectorURL == "" {
		return func() {}, nil
	}
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceName(service),
			semconv.ServiceVersion(version),
			attribute.String("system.name", systemName)))
	if err != nil {
		return nil, err
	}

	tp, err := newTracerProvider(ctx, res, collectorURL)
	if err != nil {
		return nil, err
	}
	mp, err := newMeterProvider(ctx, res, collectorURL)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetMeterProvider(mp)
	// an unreachable collector must not spam the CLI
	otel.SetErrorHandler(discardErrors{})

	return func() {
		_ = errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newTracerProvider(ctx context.Context, res *resource.Resource, collectorURL string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(collectorURL), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(res)), nil
}

// newMeterProvider also starts the Go runtime instruments, read at the export interval.
func newMeterProvider(ctx context.Context, res *resource.Resource, collectorURL string) (*metric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(collectorURL), otlpmetrichttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithProducer(runtime.NewProducer()),
			metric.WithInterval(exportInterval))))

	if err := runtime.Start(runtime.WithMeterProvider(mp), runtime.WithMinimumReadMemStatsInterval(exportInterval)); err != nil {
		return nil, errors.Join(err, mp.Shutdown(ctx))
	}
	return mp, nil
}

// StartSpan starts a span on the mineescape tracer tagged with the system name.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append(opts, trace.WithAttributes(attribute.String("system.name", systemName)))
	return otel.GetTracerProvider().Tracer(systemName).Start(ctx, name, opts...)
}

// Meter returns the mineescape meter of the current global provider.
func Meter() otelmetric.Meter {
	return otel.GetMeterProvider().Meter(systemName)
}
