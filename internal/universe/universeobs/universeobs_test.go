package universeobs

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"crypto-universe/internal/logger"
	"crypto-universe/internal/metrics"
	"crypto-universe/internal/trace"
	"crypto-universe/internal/types"
	"crypto-universe/internal/universe"
)

func TestWrap_ObservesWithoutChangingResult(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.SetLogger(zap.New(core))

	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, trace.InitWithExporter(exporter))
	t.Cleanup(func() { _ = trace.Shutdown(context.Background()) })

	reg := metrics.NewRegistry()
	sel := Wrap(universe.New(), reg)

	records := []types.FundamentalRecord{
		{Symbol: "A", Volume: 200, VolumeInUSD: 50000},
		{Symbol: "B", Volume: 50, VolumeInUSD: 60000},
		{Symbol: "C", Volume: 300, VolumeInUSD: 20000},
	}

	got := sel.Select(context.Background(), records)
	assert.Equal(t, []string{"A", "C"}, got)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.SelectTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.RecordsIn))
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.SymbolsSelected))

	entries := logs.FilterMessage("Universe selection completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 3, fields["records"])
	assert.EqualValues(t, 2, fields["selected"])
	assert.Contains(t, fields, "trace_id")

	require.NoError(t, trace.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "universe.Select", spans[0].Name)
}

func TestWrap_NilMetrics(t *testing.T) {
	sel := Wrap(universe.New(), nil)

	assert.Empty(t, sel.Select(context.Background(), nil))
}
