package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"slosweep/internal/config"
	"slosweep/internal/logging"
	"slosweep/internal/sweep"
)

var (
	sweepConfigPath  string
	sweepSchemaPath  string
	sweepPrintOnly   bool
	sweepUseTUI      bool
	sweepLogFile     string
	sweepHistoryPath string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the adaptive concurrency search",
	Long:  "sweep drives k6 at increasing concurrency per fault level until the SLO breaks, recording every round.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(sweepConfigPath, sweepSchemaPath)
		if err != nil {
			return err
		}

		log := newLogger()
		ctx := logging.NewContext(cmd.Context(), log)
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		runner := &sweep.K6Runner{
			Binary:    cfg.K6Binary,
			TargetURL: cfg.TargetURL,
			Script:    cfg.Script,
			Duration:  cfg.Duration,
			OutDir:    cfg.ResultsDir,
		}
		controller := sweep.NewController(runner, nil, nil,
			cfg.P95SLOMS, cfg.ErrorSLO, cfg.MaxConcurrency, cfg.Step, cfg.PauseInterval())

		writer, outcomeWriter, cleanup, err := newSweepWriters(cfg, controller.SweepID(), sweepPrintOnly, sweepUseTUI, sweepLogFile)
		if err != nil {
			return err
		}
		defer cleanup()
		controller.SetWriters(writer, outcomeWriter)

		history, _, sweepErr := controller.Sweep(ctx, cfg.FaultLevelsMS)

		// Rounds recorded before a failure are still flushed, so a broken
		// sweep stays inspectable.
		if len(history) > 0 {
			if err := sweep.WriteHistoryFile(sweepHistoryPath, history); err != nil {
				log.Error("history flush failed", "path", sweepHistoryPath, "err", err)
			} else {
				log.Info("history written", "path", sweepHistoryPath, "rounds", len(history))
			}
		}
		if sweepErr != nil {
			return sweepErr
		}
		return sweep.RenderSummary(os.Stdout, sweep.Summarize(history))
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "config/sweep.yaml", "Path to sweep configuration YAML")
	sweepCmd.Flags().StringVar(&sweepSchemaPath, "schema", "schemas/sweep.cue", "Path to CUE schema file")
	sweepCmd.Flags().BoolVar(&sweepPrintOnly, "print-only", false, "Print rounds to STDOUT instead of writing to DB")
	sweepCmd.Flags().BoolVar(&sweepUseTUI, "tui", false, "Render the sweep in a live terminal view")
	sweepCmd.Flags().StringVar(&sweepLogFile, "log-file", "", "Path to export round/outcome logs (JSONL)")
	sweepCmd.Flags().StringVar(&sweepHistoryPath, "history", "results/processed/adaptive_history.csv", "Path for the aggregated history CSV")
}
