// Package analyze batch-processes raw run tables from disk into one
// cross-mode summary, recovering run metadata from file names.
package analyze

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"slosweep/internal/logging"
	"slosweep/internal/runtable"
	"slosweep/internal/slo"
)

// Summary is the per-file analysis row. Throughput is nil when the table
// carries no usable timestamp column.
type Summary struct {
	SourceFile     string
	Mode           string
	Concurrency    int
	FaultLatencyMS int
	AvgLatencyMS   float64
	P95LatencyMS   float64
	ErrorRate      float64
	Availability   float64
	ThroughputRPS  *float64
}

var (
	vusPattern   = regexp.MustCompile(`(\d+)u`)
	faultPattern = regexp.MustCompile(`(\d+)ms`)
)

// ParseFilename recovers (mode, concurrency, fault latency) from names
// like "static_5u_300ms.csv" or "adaptive_lat300_7u_300ms.csv". Missing
// fields come back as zero; an unrecognized prefix yields mode "unknown".
func ParseFilename(path string) (mode string, vus, faultMS int) {
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	switch {
	case strings.HasPrefix(name, "static_"):
		mode = "static"
	case strings.HasPrefix(name, "adaptive_"):
		mode = "adaptive"
	default:
		mode = "unknown"
	}
	if m := vusPattern.FindStringSubmatch(name); m != nil {
		vus, _ = strconv.Atoi(m[1])
	}
	if m := faultPattern.FindStringSubmatch(name); m != nil {
		faultMS, _ = strconv.Atoi(m[1])
	}
	return mode, vus, faultMS
}

// AnalyzeFile extracts metrics from one raw run table.
func AnalyzeFile(path string) (Summary, error) {
	tbl, err := runtable.ReadCSVFile(path)
	if err != nil {
		return Summary{}, err
	}
	return AnalyzeTable(path, tbl)
}

// AnalyzeTable computes the summary row for an already-parsed table.
func AnalyzeTable(path string, tbl *runtable.Table) (Summary, error) {
	mode, vus, faultMS := ParseFilename(path)
	latencies, failures, err := runtable.Extract(tbl)
	if err != nil {
		return Summary{}, err
	}

	errRate := slo.Mean(failures)
	s := Summary{
		SourceFile:     filepath.Base(path),
		Mode:           mode,
		Concurrency:    vus,
		FaultLatencyMS: faultMS,
		AvgLatencyMS:   slo.Mean(latencies),
		P95LatencyMS:   slo.Percentile(latencies, 95),
		ErrorRate:      errRate,
		Availability:   1 - errRate,
	}
	s.ThroughputRPS = estimateThroughput(tbl, len(latencies))
	return s, nil
}

// estimateThroughput derives requests/sec from a "time" or "timestamp"
// column when one exists: request count over the observed span. Returns
// nil when no timestamp column is usable or the span is zero.
func estimateThroughput(tbl *runtable.Table, requestCount int) *float64 {
	var cells []string
	for _, cand := range []string{"time", "timestamp"} {
		if tbl.HasColumn(cand) {
			cells = tbl.Column(cand)
			break
		}
	}
	if len(cells) == 0 {
		return nil
	}

	var minT, maxT time.Time
	for _, c := range cells {
		t, ok := parseTimestamp(c)
		if !ok {
			return nil
		}
		if minT.IsZero() || t.Before(minT) {
			minT = t
		}
		if maxT.IsZero() || t.After(maxT) {
			maxT = t
		}
	}
	span := maxT.Sub(minT).Seconds()
	if span <= 0 {
		return nil
	}
	rps := float64(requestCount) / span
	return &rps
}

// parseTimestamp accepts unix seconds (k6's CSV output) or RFC3339.
func parseTimestamp(s string) (time.Time, bool) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Unix(0, int64(secs*float64(time.Second))), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// AnalyzeDir analyzes every *.csv under rawDir. Files that fail to parse
// are logged and skipped; an error is returned only when the directory is
// missing or nothing at all was analyzable. Rows are sorted by (mode,
// fault latency, concurrency).
func AnalyzeDir(ctx context.Context, rawDir string) ([]Summary, error) {
	log := logging.FromContext(ctx)
	paths, err := filepath.Glob(filepath.Join(rawDir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(rawDir); err != nil {
		return nil, fmt.Errorf("raw results directory: %w", err)
	}

	var rows []Summary
	for _, path := range paths {
		log.Info("analyzing", "file", path)
		s, err := AnalyzeFile(path)
		if err != nil {
			log.Warn("skipping file", "file", path, "err", err)
			continue
		}
		rows = append(rows, s)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid run tables found in %s", rawDir)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Mode != rows[j].Mode {
			return rows[i].Mode < rows[j].Mode
		}
		if rows[i].FaultLatencyMS != rows[j].FaultLatencyMS {
			return rows[i].FaultLatencyMS < rows[j].FaultLatencyMS
		}
		return rows[i].Concurrency < rows[j].Concurrency
	})
	return rows, nil
}

var summaryColumns = []string{
	"source_file", "mode", "concurrency", "fault_latency_ms",
	"avg_latency_ms", "p95_latency_ms", "error_rate", "availability",
	"throughput_req_s",
}

// WriteSummaryCSV writes the summary table. A missing throughput renders
// as an empty cell.
func WriteSummaryCSV(w io.Writer, rows []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryColumns); err != nil {
		return err
	}
	for _, s := range rows {
		throughput := ""
		if s.ThroughputRPS != nil {
			throughput = strconv.FormatFloat(*s.ThroughputRPS, 'g', -1, 64)
		}
		rec := []string{
			s.SourceFile,
			s.Mode,
			strconv.Itoa(s.Concurrency),
			strconv.Itoa(s.FaultLatencyMS),
			strconv.FormatFloat(s.AvgLatencyMS, 'g', -1, 64),
			strconv.FormatFloat(s.P95LatencyMS, 'g', -1, 64),
			strconv.FormatFloat(s.ErrorRate, 'g', -1, 64),
			strconv.FormatFloat(s.Availability, 'g', -1, 64),
			throughput,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryFile writes the summary CSV to path, creating parent
// directories as needed.
func WriteSummaryFile(path string, rows []Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSummaryCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
