// Package slo reduces latency and failure observations to scalar metrics
// and applies the two-predicate service-level objective check.
package slo

import "sort"

// Verdict is the SLO decision for one round's observations.
type Verdict struct {
	P95LatencyMS float64 `json:"p95_latency_ms"`
	ErrorRate    float64 `json:"error_rate"`
	P95SLOMS     float64 `json:"p95_slo_ms"`
	ErrorSLO     float64 `json:"error_slo"`
	OK           bool    `json:"ok"`
}

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between order statistics. An empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Mean returns the arithmetic mean of values, or 0 for an empty input.
// The zero default encodes the policy that absent failure observations
// mean "no errors recorded", not missing data.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Evaluate reduces the observation sequences to a verdict. Failure values
// are expected to be 0/1 indicators but are not normalized here. Both
// thresholds are inclusive: a round exactly at the SLO passes.
func Evaluate(latencies, failures []float64, p95SLOMS, errorSLO float64) Verdict {
	p95 := Percentile(latencies, 95)
	errRate := Mean(failures)
	return Verdict{
		P95LatencyMS: p95,
		ErrorRate:    errRate,
		P95SLOMS:     p95SLOMS,
		ErrorSLO:     errorSLO,
		OK:           p95 <= p95SLOMS && errRate <= errorSLO,
	}
}
