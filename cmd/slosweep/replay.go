package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"slosweep/internal/sweep"
)

var (
	replayInput    string
	replayInterval time.Duration
	replayJSON     bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded sweep history",
	Long:  "replay re-emits the rounds of a persisted history CSV through the stdout writers and prints the per-level summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		history, err := sweep.ReadHistoryFile(replayInput)
		if err != nil {
			return err
		}

		var writer sweep.RoundWriter
		if replayJSON {
			writer = sweep.NewJSONStdoutWriter()
		} else {
			writer = sweep.NewColorStdoutWriter(0, 0, 0)
		}
		if err := sweep.Replay(history, writer, replayInterval); err != nil {
			return err
		}
		return sweep.RenderSummary(os.Stdout, sweep.Summarize(history))
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to a history CSV")
	replayCmd.Flags().DurationVar(&replayInterval, "interval", 200*time.Millisecond, "Delay between replayed rounds (0 for none)")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "Emit rounds as JSON lines instead of colorized text")
	replayCmd.MarkFlagRequired("input")
}
