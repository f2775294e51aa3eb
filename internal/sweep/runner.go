package sweep

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"slosweep/internal/logging"
	"slosweep/internal/runtable"
)

// RoundSpec identifies one requested load round.
type RoundSpec struct {
	FaultLatencyMS int
	Concurrency    int
	Mode           string
}

// RunError reports a failed round with enough context to locate it in
// the sweep. Unwrap exposes the underlying cause (process failure,
// unreadable table, extraction error).
type RunError struct {
	FaultLatencyMS int
	Concurrency    int
	Err            error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("round failed at fault=%dms concurrency=%d: %v", e.FaultLatencyMS, e.Concurrency, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Runner executes one load round and returns its raw sample table.
// Exactly one round is ever in flight.
type Runner interface {
	Run(ctx context.Context, spec RoundSpec) (*runtable.Table, error)
}

// K6Runner invokes the k6 binary with CSV output and returns the parsed
// run table. There are no retries: a nonzero exit or an unreadable table
// fails the round.
type K6Runner struct {
	Binary    string
	TargetURL string
	Script    string
	Duration  string
	OutDir    string
}

// ArtifactPath returns the raw CSV path for a round, encoding mode,
// fault level, and concurrency in the name.
func (r *K6Runner) ArtifactPath(spec RoundSpec) string {
	name := fmt.Sprintf("%s_lat%d_%du_%dms.csv", spec.Mode, spec.FaultLatencyMS, spec.Concurrency, spec.FaultLatencyMS)
	return filepath.Join(r.OutDir, name)
}

// Run executes k6 for the given round and parses the resulting table.
func (r *K6Runner) Run(ctx context.Context, spec RoundSpec) (*runtable.Table, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return nil, &RunError{FaultLatencyMS: spec.FaultLatencyMS, Concurrency: spec.Concurrency, Err: err}
	}
	csvPath := r.ArtifactPath(spec)

	cmd := exec.CommandContext(ctx, r.Binary, "run",
		"--out", "csv="+csvPath,
		"-e", "URL="+r.TargetURL,
		"-e", fmt.Sprintf("USERS=%d", spec.Concurrency),
		"-e", "DUR="+r.Duration,
		"-e", fmt.Sprintf("LAT=%d", spec.FaultLatencyMS),
		r.Script,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logging.FromContext(ctx).Info("running load round",
		"fault_ms", spec.FaultLatencyMS, "vus", spec.Concurrency, "out", csvPath)

	if err := cmd.Run(); err != nil {
		return nil, &RunError{FaultLatencyMS: spec.FaultLatencyMS, Concurrency: spec.Concurrency, Err: err}
	}

	tbl, err := runtable.ReadCSVFile(csvPath)
	if err != nil {
		return nil, &RunError{FaultLatencyMS: spec.FaultLatencyMS, Concurrency: spec.Concurrency, Err: err}
	}
	return tbl, nil
}
