package main

import (
	"github.com/spf13/cobra"

	"slosweep/internal/analyze"
	"slosweep/internal/logging"
)

var (
	analyzeRawDir  string
	analyzeOutPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize raw run tables into one cross-mode report",
	Long:  "analyze globs raw k6 CSVs, extracts latency and error metrics from each, and writes the summary CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		ctx := logging.NewContext(cmd.Context(), log)

		rows, err := analyze.AnalyzeDir(ctx, analyzeRawDir)
		if err != nil {
			return err
		}
		if err := analyze.WriteSummaryFile(analyzeOutPath, rows); err != nil {
			return err
		}
		log.Info("summary written", "path", analyzeOutPath, "rows", len(rows))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRawDir, "raw-dir", "results/raw", "Directory containing raw run CSVs")
	analyzeCmd.Flags().StringVar(&analyzeOutPath, "out", "results/processed/summary_all.csv", "Path for the summary CSV")
}
