package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_RecordsWhileEnabled(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter(exporter))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	ctx, span := StartSpan(context.Background(), "unit")
	traceID, spanID, ok := GetTraceFields(ctx)
	span.End()

	assert.True(t, Enabled())
	assert.True(t, ok)
	assert.NotEmpty(t, traceID)
	assert.NotEmpty(t, spanID)

	require.NoError(t, ForceFlush(context.Background()))
	require.Len(t, exporter.GetSpans(), 1)
	assert.Equal(t, "unit", exporter.GetSpans()[0].Name)
}

func TestShutdown_ResetsState(t *testing.T) {
	require.NoError(t, InitWithExporter(tracetest.NewInMemoryExporter()))
	require.NoError(t, Shutdown(context.Background()))

	assert.False(t, Enabled())

	ctx, span := StartSpan(context.Background(), "after-shutdown")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())

	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)

	_, global := otel.Tracer("x").Start(context.Background(), "global")
	defer global.End()
	assert.False(t, global.SpanContext().IsValid())

	// a second shutdown is a no-op
	assert.NoError(t, Shutdown(context.Background()))
}
