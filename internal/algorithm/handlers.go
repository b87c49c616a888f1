package algorithm

import (
	"context"
	"errors"

	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/logger"
	"crypto-universe/internal/metrics"
	"crypto-universe/internal/types"
)

// LogHandler forwards change-sets to the structured log.
type LogHandler struct{}

func (LogHandler) OnSecuritiesChanged(ctx context.Context, changes types.SecurityChanges) error {
	logger.Info(ctx, changes.String(),
		"date", changes.Time.Format("2006-01-02"),
		"added", changes.Added,
		"removed", changes.Removed,
		"universe_size", len(changes.Universe),
	)
	return nil
}

// MetricsHandler counts additions and removals.
type MetricsHandler struct {
	Registry *metrics.Registry
}

func (h MetricsHandler) OnSecuritiesChanged(_ context.Context, changes types.SecurityChanges) error {
	h.Registry.ObserveChanges(changes)
	return nil
}

// MultiHandler fans a change-set out to every handler and joins their errors.
type MultiHandler []interfaces.ChangeHandler

func (m MultiHandler) OnSecuritiesChanged(ctx context.Context, changes types.SecurityChanges) error {
	var errs []error
	for _, h := range m {
		if err := h.OnSecuritiesChanged(ctx, changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ interfaces.ChangeHandler = LogHandler{}
	_ interfaces.ChangeHandler = MetricsHandler{}
	_ interfaces.ChangeHandler = MultiHandler{}
)
