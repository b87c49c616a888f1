package interfaces

import (
	"context"
	"time"

	"crypto-universe/internal/types"
)

// FundamentalSource provides per-day coarse fundamental snapshots.
type FundamentalSource interface {
	// Snapshot returns every record available for the given day.
	Snapshot(ctx context.Context, date time.Time) (types.Snapshot, error)

	// History returns the snapshots for each day in [end-lookback, end) that
	// has data, oldest first.
	History(ctx context.Context, end time.Time, lookback int) ([]types.Snapshot, error)
}
