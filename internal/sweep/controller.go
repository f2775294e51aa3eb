package sweep

import (
	"context"
	"time"

	"github.com/google/uuid"

	"slosweep/internal/logging"
	"slosweep/internal/runtable"
	"slosweep/internal/slo"
)

// Controller performs the adaptive search. It is strictly sequential:
// one round at a time, extraction and evaluation complete before the
// next round launches.
type Controller struct {
	runner        Runner
	writer        RoundWriter
	outcomeWriter OutcomeWriter
	p95SLOMS      float64
	errorSLO      float64
	ceiling       int
	step          int
	pause         time.Duration
	sweepID       string
	sleep         func(time.Duration)
}

// NewController wires a controller. writer and outcomeWriter may be nil.
func NewController(runner Runner, writer RoundWriter, outcomeWriter OutcomeWriter, p95SLOMS, errorSLO float64, ceiling, step int, pause time.Duration) *Controller {
	return &Controller{
		runner:        runner,
		writer:        writer,
		outcomeWriter: outcomeWriter,
		p95SLOMS:      p95SLOMS,
		errorSLO:      errorSLO,
		ceiling:       ceiling,
		step:          step,
		pause:         pause,
		sweepID:       uuid.New().String(),
		sleep:         time.Sleep,
	}
}

// SweepID identifies this controller invocation in logs and sinks.
func (c *Controller) SweepID() string { return c.sweepID }

// SetWriters replaces the round and outcome writers. Useful when a sink
// needs the sweep ID, which only exists after construction.
func (c *Controller) SetWriters(writer RoundWriter, outcomeWriter OutcomeWriter) {
	c.writer = writer
	c.outcomeWriter = outcomeWriter
}

// SearchLevel runs the adaptive search for one fault level: concurrency
// starts at 1 and increases by the configured step while the SLO holds,
// stopping at the first violation or past the ceiling. The search never
// decreases concurrency or retries. On error the returned outcome still
// carries every round recorded before the failure.
func (c *Controller) SearchLevel(ctx context.Context, faultMS int) (Outcome, error) {
	log := logging.FromContext(ctx)
	log.Info("adaptive search starting", "sweep_id", c.sweepID, "fault_ms", faultMS)

	out := Outcome{FaultLatencyMS: faultMS, BestConcurrency: 1}
	vus := 1
	for vus <= c.ceiling {
		tbl, err := c.runner.Run(ctx, RoundSpec{FaultLatencyMS: faultMS, Concurrency: vus, Mode: "adaptive"})
		if err != nil {
			return out, err
		}
		verdict, err := evaluateTable(tbl, c.p95SLOMS, c.errorSLO)
		if err != nil {
			return out, &RunError{FaultLatencyMS: faultMS, Concurrency: vus, Err: err}
		}

		round := Round{
			FaultLatencyMS: faultMS,
			Concurrency:    vus,
			P95LatencyMS:   verdict.P95LatencyMS,
			ErrorRate:      verdict.ErrorRate,
			OK:             verdict.OK,
		}
		out.Rounds = append(out.Rounds, round)
		c.emitRound(ctx, round)
		log.Info("round complete",
			"fault_ms", faultMS, "vus", vus,
			"p95_ms", round.P95LatencyMS, "error_rate", round.ErrorRate, "ok", round.OK)

		if !round.OK {
			// First violation ends this level's search.
			break
		}
		out.BestConcurrency = vus
		out.BestMetrics = &Metrics{P95LatencyMS: round.P95LatencyMS, ErrorRate: round.ErrorRate}
		vus += c.step
		if vus <= c.ceiling {
			c.sleep(c.pause)
		}
	}

	log.Info("adaptive search finished",
		"fault_ms", faultMS, "best_vus", out.BestConcurrency, "floor_failed", out.BestMetrics == nil)
	return out, nil
}

// Sweep runs independent searches for each fault level in order and
// returns the flattened history. On error the history accumulated so
// far, including the failed level's completed rounds, is still returned.
func (c *Controller) Sweep(ctx context.Context, faultLevelsMS []int) (History, []Outcome, error) {
	var history History
	var outcomes []Outcome
	for _, faultMS := range faultLevelsMS {
		out, err := c.SearchLevel(ctx, faultMS)
		history = append(history, out.Rounds...)
		if err != nil {
			return history, outcomes, err
		}
		outcomes = append(outcomes, out)
		c.emitOutcome(ctx, out)
	}
	return history, outcomes, nil
}

func (c *Controller) emitRound(ctx context.Context, r Round) {
	if c.writer == nil {
		return
	}
	if err := c.writer.WriteRound(r); err != nil {
		logging.FromContext(ctx).Error("round write failed", "err", err)
	}
}

func (c *Controller) emitOutcome(ctx context.Context, o Outcome) {
	if c.outcomeWriter == nil {
		return
	}
	if err := c.outcomeWriter.WriteOutcome(o); err != nil {
		logging.FromContext(ctx).Error("outcome write failed", "err", err)
	}
}

func evaluateTable(tbl *runtable.Table, p95SLOMS, errorSLO float64) (slo.Verdict, error) {
	latencies, failures, err := runtable.Extract(tbl)
	if err != nil {
		return slo.Verdict{}, err
	}
	return slo.Evaluate(latencies, failures, p95SLOMS, errorSLO), nil
}
