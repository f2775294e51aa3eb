// Writer implementation printing rounds to STDOUT as JSON lines
package sweep

import (
	"encoding/json"
	"io"
	"os"
)

// JSONStdoutWriter prints rounds and outcomes as one JSON object per line.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteRound outputs a single round.
func (w *JSONStdoutWriter) WriteRound(r Round) error {
	return json.NewEncoder(w.out).Encode(r)
}

// WriteRounds outputs multiple rounds.
func (w *JSONStdoutWriter) WriteRounds(rounds []Round) error {
	for _, r := range rounds {
		if err := w.WriteRound(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteOutcome outputs a per-level outcome.
func (w *JSONStdoutWriter) WriteOutcome(o Outcome) error {
	return json.NewEncoder(w.out).Encode(o)
}
