package algorithm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crypto-universe/internal/fundamentals"
	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/logger"
	"crypto-universe/internal/store"
	"crypto-universe/internal/trace"
	"crypto-universe/internal/types"
	"crypto-universe/internal/universe"
)

// ErrUnexpectedHistory aborts a run whose warm-up history has the wrong shape.
var ErrUnexpectedHistory = errors.New("unexpected historical universe data")

// Algorithm walks the configured date range one daily refresh at a time,
// selecting a universe from each snapshot and reporting membership changes.
type Algorithm struct {
	cfg      *store.Config
	source   interfaces.FundamentalSource
	selector interfaces.Selector
	handler  interfaces.ChangeHandler
	runID    string

	current []string
}

func New(cfg *store.Config, src interfaces.FundamentalSource, sel interfaces.Selector, h interfaces.ChangeHandler, runID string) *Algorithm {
	return &Algorithm{cfg: cfg, source: src, selector: sel, handler: h, runID: runID}
}

// Initialize checks that the source returns the expected warm-up history
// before the first refresh.
func (a *Algorithm) Initialize(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "algorithm.Initialize")
	defer span.End()

	logger.Info(ctx, "Initializing universe selection",
		"run_id", a.runID,
		"start", a.cfg.StartDate,
		"end", a.cfg.EndDate,
		"cash", a.cfg.Cash,
		"brokerage", a.cfg.Brokerage,
		"account_type", a.cfg.AccountType,
		"resolution", a.cfg.Resolution,
		"data_source", a.cfg.DataSource,
	)

	if a.cfg.History.Skip {
		logger.Warn(ctx, "History check skipped by configuration")
		return nil
	}

	history, err := a.source.History(ctx, a.cfg.Start(), a.cfg.History.Days)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load universe history", err)
		return fmt.Errorf("load universe history: %w", err)
	}
	if len(history) != a.cfg.History.Days {
		err := fmt.Errorf("%w: history count %d, expected %d", ErrUnexpectedHistory, len(history), a.cfg.History.Days)
		logger.ErrorWithErr(ctx, "History check failed", err)
		return err
	}
	for _, snap := range history {
		if len(snap.Records) < a.cfg.History.MinRecords {
			err := fmt.Errorf("%w: %s has %d records, expected at least %d",
				ErrUnexpectedHistory, snap.Date.Format("2006-01-02"), len(snap.Records), a.cfg.History.MinRecords)
			logger.ErrorWithErr(ctx, "History check failed", err)
			return err
		}
		logger.Debug(ctx, "History snapshot ok", "date", snap.Date.Format("2006-01-02"), "records", len(snap.Records))
	}
	return nil
}

// Run refreshes the universe once per day from start to end inclusive. Days
// without data are skipped. On cancellation it returns what was selected so
// far together with the context error.
func (a *Algorithm) Run(ctx context.Context) (*types.RunResult, error) {
	result := &types.RunResult{RunID: a.runID, Start: a.cfg.Start(), End: a.cfg.End()}

	for d := a.cfg.Start(); !d.After(a.cfg.End()); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		day, err := a.Step(ctx, d)
		if errors.Is(err, fundamentals.ErrSnapshotNotFound) {
			logger.Warn(ctx, "No universe data for day, skipping", "date", d.Format("2006-01-02"))
			continue
		}
		if err != nil {
			return result, err
		}
		result.Days = append(result.Days, *day)
	}

	logger.Info(ctx, "Universe selection run completed",
		"run_id", a.runID,
		"days", len(result.Days),
		"final_universe", a.current,
	)
	return result, nil
}

// Step performs one refresh for date.
func (a *Algorithm) Step(ctx context.Context, date time.Time) (*types.DaySelection, error) {
	ctx, span := trace.StartSpan(ctx, "algorithm.Step")
	defer span.End()

	snap, err := a.source.Snapshot(ctx, date)
	if err != nil {
		return nil, err
	}

	symbols := a.selector.Select(ctx, snap.Records)
	changes := universe.Diff(a.current, symbols)
	changes.Time = snap.Date
	a.current = symbols

	if !changes.IsEmpty() && a.handler != nil {
		if err := a.handler.OnSecuritiesChanged(ctx, changes); err != nil {
			// A failing sink must not stop the walk.
			logger.Warn(ctx, "Change handler failed", "date", snap.Date.Format("2006-01-02"), "error", err)
		}
	}

	return &types.DaySelection{
		Date:    snap.Date,
		Records: len(snap.Records),
		Symbols: symbols,
		Changes: changes,
	}, nil
}

// Universe returns the symbols selected by the latest refresh.
func (a *Algorithm) Universe() []string {
	return append([]string{}, a.current...)
}
