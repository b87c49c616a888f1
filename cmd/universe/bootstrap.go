package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"crypto-universe/internal/algorithm"
	"crypto-universe/internal/fundamentals"
	"crypto-universe/internal/interfaces"
	"crypto-universe/internal/logger"
	"crypto-universe/internal/metrics"
	"crypto-universe/internal/selectionlog"
	"crypto-universe/internal/store"
	"crypto-universe/internal/trace"
	"crypto-universe/internal/universe"
	"crypto-universe/internal/universe/universeobs"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func shutdownSystem(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(ctx)
	_ = logger.Sync()
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn(ctx, "Config file not found, using defaults", "path", path)
		return store.Default(), nil
	}
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old selection logs if retention is configured
func compressOldLogs(ctx context.Context, cfg *store.Config) {
	if err := selectionlog.CompressOlder(cfg.LogDir, cfg.LogRetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

// startMetricsServer exposes the registry on metrics.listen when configured.
// The returned func stops the listener.
func startMetricsServer(ctx context.Context, cfg *store.Config) (*metrics.Registry, func()) {
	reg := metrics.NewRegistry()
	if cfg.Metrics.Listen == "" {
		return reg, func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Metrics server stopped", err, "listen", cfg.Metrics.Listen)
		}
	}()
	logger.Info(ctx, "Serving metrics", "listen", cfg.Metrics.Listen)

	return reg, func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// initializeSource picks the fundamentals source named by data_source
func initializeSource(cfg *store.Config) interfaces.FundamentalSource {
	if cfg.DataSource == "CSV" {
		return fundamentals.NewCSVSource(cfg.DataDir)
	}
	return fundamentals.NewStaticSource(cfg.Static.RecordsPerDay)
}

// initializeSelector returns the coarse selector wrapped with observability
func initializeSelector(reg *metrics.Registry) interfaces.Selector {
	return universeobs.Wrap(universe.New(), reg)
}

// initializeHandler fans change-sets out to the log, the selection log and metrics
func initializeHandler(cfg *store.Config, reg *metrics.Registry, runID string) interfaces.ChangeHandler {
	return algorithm.MultiHandler{
		algorithm.LogHandler{},
		selectionlog.NewHandler(cfg.LogDir, runID),
		algorithm.MetricsHandler{Registry: reg},
	}
}

func initializeAlgorithm(cfg *store.Config, reg *metrics.Registry, runID string) *algorithm.Algorithm {
	return algorithm.New(cfg, initializeSource(cfg), initializeSelector(reg), initializeHandler(cfg, reg, runID), runID)
}
