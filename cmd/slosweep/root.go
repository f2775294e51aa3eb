package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"slosweep/internal/logging"
)

var rootVerbose bool

var rootCmd = &cobra.Command{
	Use:   "slosweep",
	Short: "Adaptive SLO-bounded load sweep toolkit",
	Long:  "slosweep discovers the highest concurrency a chaos-injected endpoint sustains within latency and error-rate SLOs, and analyzes the recorded runs.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if rootVerbose {
		return logging.NewWithLevel(slog.LevelDebug)
	}
	return logging.New()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
}
