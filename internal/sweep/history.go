package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"
)

var historyColumns = []string{"fault_latency_ms", "concurrency", "p95_latency_ms", "error_rate", "ok"}

// Aggregate flattens per-level outcomes into one history, in the order
// the rounds were executed.
func Aggregate(outcomes []Outcome) History {
	var h History
	for _, o := range outcomes {
		h = append(h, o.Rounds...)
	}
	return h
}

// WriteHistoryCSV writes the history table: one row per round, in
// execution order.
func WriteHistoryCSV(w io.Writer, h History) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyColumns); err != nil {
		return err
	}
	for _, r := range h {
		rec := []string{
			strconv.Itoa(r.FaultLatencyMS),
			strconv.Itoa(r.Concurrency),
			strconv.FormatFloat(r.P95LatencyMS, 'g', -1, 64),
			strconv.FormatFloat(r.ErrorRate, 'g', -1, 64),
			strconv.FormatBool(r.OK),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHistoryFile writes the history CSV to path, creating parent
// directories as needed.
func WriteHistoryFile(path string, h History) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHistoryCSV(f, h); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadHistoryCSV reads a persisted history table back, preserving row order.
func ReadHistoryCSV(r io.Reader) (History, error) {
	cr := csv.NewReader(r)
	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse history: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("history has no header")
	}
	idx := make(map[string]int, len(all[0]))
	for i, col := range all[0] {
		idx[col] = i
	}
	for _, col := range historyColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("history missing column %q", col)
		}
	}
	var h History
	for i, rec := range all[1:] {
		fault, err := strconv.Atoi(rec[idx["fault_latency_ms"]])
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i, err)
		}
		vus, err := strconv.Atoi(rec[idx["concurrency"]])
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i, err)
		}
		p95, err := strconv.ParseFloat(rec[idx["p95_latency_ms"]], 64)
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i, err)
		}
		errRate, err := strconv.ParseFloat(rec[idx["error_rate"]], 64)
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i, err)
		}
		ok, err := strconv.ParseBool(rec[idx["ok"]])
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i, err)
		}
		h = append(h, Round{FaultLatencyMS: fault, Concurrency: vus, P95LatencyMS: p95, ErrorRate: errRate, OK: ok})
	}
	return h, nil
}

// ReadHistoryFile reads a history CSV from disk.
func ReadHistoryFile(path string) (History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHistoryCSV(f)
}

// LevelSummary reports one fault level's rounds in ascending concurrency
// order. BestConcurrency is 0 and FloorViolated true when no round held
// the SLO.
type LevelSummary struct {
	FaultLatencyMS  int
	Rounds          []Round
	BestConcurrency int
	FloorViolated   bool
}

// Summarize folds a history into per-fault-level summaries, levels in
// first-appearance order.
func Summarize(h History) []LevelSummary {
	var order []int
	byLevel := make(map[int][]Round)
	for _, r := range h {
		if _, seen := byLevel[r.FaultLatencyMS]; !seen {
			order = append(order, r.FaultLatencyMS)
		}
		byLevel[r.FaultLatencyMS] = append(byLevel[r.FaultLatencyMS], r)
	}

	var summaries []LevelSummary
	for _, fault := range order {
		rounds := byLevel[fault]
		sort.SliceStable(rounds, func(i, j int) bool {
			return rounds[i].Concurrency < rounds[j].Concurrency
		})
		s := LevelSummary{FaultLatencyMS: fault, Rounds: rounds, FloorViolated: true}
		for _, r := range rounds {
			if r.OK && r.Concurrency > s.BestConcurrency {
				s.BestConcurrency = r.Concurrency
				s.FloorViolated = false
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// RenderSummary prints a readable per-level report. An empty history
// reports "nothing to summarize" rather than failing.
func RenderSummary(w io.Writer, summaries []LevelSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "nothing to summarize")
		return err
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "fault latency %dms:\n", s.FaultLatencyMS)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  vus\tp95 (ms)\terror rate\tslo\n")
		for _, r := range s.Rounds {
			status := "ok"
			if !r.OK {
				status = "violated"
			}
			fmt.Fprintf(tw, "  %d\t%.1f\t%.3f\t%s\n", r.Concurrency, r.P95LatencyMS, r.ErrorRate, status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if s.FloorViolated {
			fmt.Fprintln(w, "  SLO violated even at minimum concurrency")
		} else {
			fmt.Fprintf(w, "  best stable concurrency: %d\n", s.BestConcurrency)
		}
	}
	return nil
}
