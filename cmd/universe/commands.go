package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"crypto-universe/internal/fundamentals"
	"crypto-universe/internal/logger"
	"crypto-universe/internal/report"
	"crypto-universe/internal/universe"
)

// execute runs the CLI and flushes traces and logs afterwards. Cobra skips
// post-run hooks when RunE fails, so the shutdown lives here.
func execute(ctx context.Context, args []string) error {
	defer shutdownSystem(ctx)

	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var configPath string
	long := fmt.Sprintf("Selects at most %d Bitfinex symbols per day with volume >= %.0f and volume_in_usd > %.0f, ranked by volume_in_usd.",
		universe.MaxSymbols, universe.MinVolume, universe.MinVolumeInUSD)

	root := &cobra.Command{
		Use:           "universe",
		Short:         "Daily crypto universe selection by coarse volume fundamentals",
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeSystem()
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config")

	root.AddCommand(runCmd(&configPath), selectCmd(), reportCmd(&configPath))
	return root
}

func runCmd(configPath *string) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Walk the configured date range and log universe changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}
			compressOldLogs(ctx, cfg)

			reg, stopMetrics := startMetricsServer(ctx, cfg)
			defer stopMetrics()

			runID := uuid.NewString()
			alg := initializeAlgorithm(cfg, reg, runID)
			if err := alg.Initialize(ctx); err != nil {
				return err
			}
			result, err := alg.Run(ctx)
			if err != nil {
				logger.ErrorWithErr(ctx, "Universe selection run failed", err, "run_id", runID)
				return err
			}

			if outPath != "" {
				b, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal run result: %w", err)
				}
				if err := os.WriteFile(outPath, b, 0o644); err != nil {
					return fmt.Errorf("failed to write run result: %w", err)
				}
				logger.Info(ctx, "Run result saved", "file", outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the per-day selections as JSON to this file")
	return cmd
}

func selectCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select the universe from a single snapshot CSV and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := fundamentals.ParseCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			symbols := initializeSelector(nil).Select(cmd.Context(), records)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(symbols)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "snapshot CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func reportCmd(configPath *string) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize one run's selection logs into a CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}
			p, err := report.Summarize(cfg.LogDir, runID)
			if err != nil {
				return err
			}
			if p == "" {
				logger.Info(ctx, "No selection logs to summarize", "log_dir", cfg.LogDir)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "run id to summarize (default: the latest run)")
	return cmd
}
