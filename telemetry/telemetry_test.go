package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestNew_WithoutCollector(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := New("mineescape-test", "0.0.0", "")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	shutdown()

	require.Equal(t, before, otel.GetTracerProvider())
}

func TestStartSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(previous)

	_, span := StartSpan(context.Background(), "escape.Solve",
		trace.WithAttributes(attribute.String("map.name", "corridor.map")))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "escape.Solve", spans[0].Name())
	require.Equal(t, systemName, spans[0].InstrumentationScope().Name)
	require.Contains(t, spans[0].Attributes(), attribute.String("system.name", systemName))
	require.Contains(t, spans[0].Attributes(), attribute.String("map.name", "corridor.map"))
}
