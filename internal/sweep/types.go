// Package sweep implements the adaptive concurrency search: it drives the
// external load generator at increasing virtual-user counts per fault
// level, evaluates each round against the SLO, and records the trajectory.
package sweep

// Round is one executed run at a fixed (fault level, concurrency) pair,
// reduced to its SLO verdict. Rounds are immutable once recorded.
type Round struct {
	FaultLatencyMS int     `json:"fault_latency_ms"`
	Concurrency    int     `json:"concurrency"`
	P95LatencyMS   float64 `json:"p95_latency_ms"`
	ErrorRate      float64 `json:"error_rate"`
	OK             bool    `json:"ok"`
}

// Metrics are the extracted scalar metrics of one run.
type Metrics struct {
	P95LatencyMS float64 `json:"p95_latency_ms"`
	ErrorRate    float64 `json:"error_rate"`
}

// Outcome is the result of one fault level's adaptive search.
// BestMetrics is nil when even the floor concurrency violated the SLO;
// BestConcurrency still reports the floor in that case, so callers must
// check BestMetrics to tell "floor passed" from "floor failed".
type Outcome struct {
	FaultLatencyMS  int      `json:"fault_latency_ms"`
	BestConcurrency int      `json:"best_concurrency"`
	BestMetrics     *Metrics `json:"best_metrics,omitempty"`
	Rounds          []Round  `json:"rounds"`
}

// History is the flattened sequence of all rounds across all fault
// levels of one sweep, in execution order.
type History []Round

// RoundWriter is an interface to support different round output writers.
type RoundWriter interface {
	WriteRound(Round) error
}

// OutcomeWriter receives the per-level outcome after a level's search ends.
type OutcomeWriter interface {
	WriteOutcome(Outcome) error
}

// Optional: round writers may support batch mode.
type batchRoundWriter interface {
	WriteRounds([]Round) error
}
