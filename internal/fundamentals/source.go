package fundamentals

import (
	"context"
	"errors"
	"time"

	"crypto-universe/internal/types"
)

// ErrSnapshotNotFound is returned when no universe data exists for a day.
var ErrSnapshotNotFound = errors.New("universe snapshot not found")

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type snapshotFunc func(ctx context.Context, date time.Time) (types.Snapshot, error)

// history collects the snapshots for [end-lookback, end), skipping days
// without data.
func history(ctx context.Context, snapshot snapshotFunc, end time.Time, lookback int) ([]types.Snapshot, error) {
	end = Day(end)
	out := make([]types.Snapshot, 0, lookback)
	for i := lookback; i >= 1; i-- {
		snap, err := snapshot(ctx, end.AddDate(0, 0, -i))
		if errors.Is(err, ErrSnapshotNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}
