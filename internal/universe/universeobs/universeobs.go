package universeobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/logger"
	"crypto-universe/internal/metrics"
	"crypto-universe/internal/trace"
	"crypto-universe/internal/types"
)

type observableSelector struct {
	selector interfaces.Selector
	metrics  *metrics.Registry
}

var _ interfaces.Selector = (*observableSelector)(nil)

// Wrap adds tracing, logging and metrics around a selector. m may be nil.
func Wrap(sel interfaces.Selector, m *metrics.Registry) interfaces.Selector {
	return &observableSelector{
		selector: sel,
		metrics:  m,
	}
}

func (o *observableSelector) Select(ctx context.Context, records []types.FundamentalRecord) []string {
	ctx, span := trace.StartSpan(ctx, "universe.Select")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Starting universe selection",
		"records", len(records),
	)

	symbols := o.selector.Select(ctx, records)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.Int("records", len(records)),
		attribute.Int("selected", len(symbols)),
	)
	if o.metrics != nil {
		o.metrics.ObserveSelection(len(records), len(symbols), elapsed)
	}

	logger.InfoSkip(ctx, 1, "Universe selection completed",
		"records", len(records),
		"selected", len(symbols),
		"symbols", symbols,
		"duration_ms", elapsed.Milliseconds(),
	)

	return symbols
}
