package analyze

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseFilename(t *testing.T) {
	cases := []struct {
		path      string
		wantMode  string
		wantVUs   int
		wantFault int
	}{
		{"static_5u_300ms.csv", "static", 5, 300},
		{"adaptive_lat300_7u_300ms.csv", "adaptive", 7, 300},
		{"results/raw/static_10u_1200ms.csv", "static", 10, 1200},
		{"weird.csv", "unknown", 0, 0},
		{"static_nonsense.csv", "static", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			mode, vus, fault := ParseFilename(tc.path)
			if mode != tc.wantMode || vus != tc.wantVUs || fault != tc.wantFault {
				t.Fatalf("ParseFilename(%q) = (%q, %d, %d), want (%q, %d, %d)",
					tc.path, mode, vus, fault, tc.wantMode, tc.wantVUs, tc.wantFault)
			}
		})
	}
}

func TestAnalyzeFileDirect(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "static_2u_300ms.csv",
		"http_req_duration,http_req_failed\n100,0\n100,0\n100,1\n100,0\n300,0\n")

	s, err := AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if s.Mode != "static" || s.Concurrency != 2 || s.FaultLatencyMS != 300 {
		t.Fatalf("metadata mismatch: %+v", s)
	}
	if s.SourceFile != "static_2u_300ms.csv" {
		t.Fatalf("source file = %q", s.SourceFile)
	}
	if s.AvgLatencyMS != 140 {
		t.Fatalf("avg = %v, want 140", s.AvgLatencyMS)
	}
	if s.ErrorRate != 0.2 || s.Availability != 0.8 {
		t.Fatalf("error/availability = %v/%v", s.ErrorRate, s.Availability)
	}
	if s.ThroughputRPS != nil {
		t.Fatalf("expected nil throughput without time column, got %v", *s.ThroughputRPS)
	}
}

func TestAnalyzeFileThroughput(t *testing.T) {
	dir := t.TempDir()
	// Four latency samples over a 2s unix-seconds span: 2 req/s.
	path := writeFile(t, dir, "adaptive_4u_300ms.csv",
		"time,metric,value\n"+
			"1700000000,http_req_duration,100\n"+
			"1700000001,http_req_duration,110\n"+
			"1700000001,http_req_duration,120\n"+
			"1700000002,http_req_duration,130\n")

	s, err := AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if s.ThroughputRPS == nil {
		t.Fatalf("expected throughput estimate")
	}
	if math.Abs(*s.ThroughputRPS-2) > 1e-9 {
		t.Fatalf("throughput = %v, want 2", *s.ThroughputRPS)
	}
}

func TestAnalyzeFileThroughputRFC3339(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "static_1u_300ms.csv",
		"timestamp,http_req_duration,http_req_failed\n"+
			"2026-08-28T10:00:00Z,100,0\n"+
			"2026-08-28T10:00:01Z,120,0\n")

	s, err := AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if s.ThroughputRPS == nil || math.Abs(*s.ThroughputRPS-2) > 1e-9 {
		t.Fatalf("unexpected throughput: %+v", s.ThroughputRPS)
	}
}

func TestAnalyzeFileThroughputUnusable(t *testing.T) {
	dir := t.TempDir()
	// Garbage in the time column drops the estimate, not the row.
	path := writeFile(t, dir, "static_1u_300ms.csv",
		"time,http_req_duration,http_req_failed\nabc,100,0\ndef,120,0\n")

	s, err := AnalyzeFile(path)
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if s.ThroughputRPS != nil {
		t.Fatalf("expected nil throughput, got %v", *s.ThroughputRPS)
	}
}

func TestAnalyzeDirSkipsAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "static_2u_300ms.csv", "http_req_duration,http_req_failed\n100,0\n")
	writeFile(t, dir, "static_1u_300ms.csv", "http_req_duration,http_req_failed\n100,0\n")
	writeFile(t, dir, "adaptive_1u_1200ms.csv", "http_req_duration,http_req_failed\n100,0\n")
	writeFile(t, dir, "broken.csv", "no,metrics\nhere,either\n")

	rows, err := AnalyzeDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows after skipping broken file, got %d", len(rows))
	}
	// Sorted by mode, then fault, then concurrency.
	if rows[0].Mode != "adaptive" {
		t.Fatalf("first row mode = %q", rows[0].Mode)
	}
	if rows[1].Concurrency != 1 || rows[2].Concurrency != 2 {
		t.Fatalf("static rows out of order: %+v", rows[1:])
	}
}

func TestAnalyzeDirErrors(t *testing.T) {
	if _, err := AnalyzeDir(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}

	empty := t.TempDir()
	writeFile(t, empty, "broken.csv", "no,metrics\nhere,either\n")
	if _, err := AnalyzeDir(context.Background(), empty); err == nil {
		t.Fatalf("expected error when nothing is analyzable")
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	rps := 12.5
	rows := []Summary{
		{
			SourceFile: "adaptive_2u_300ms.csv", Mode: "adaptive", Concurrency: 2, FaultLatencyMS: 300,
			AvgLatencyMS: 140, P95LatencyMS: 260, ErrorRate: 0.2, Availability: 0.8, ThroughputRPS: &rps,
		},
		{
			SourceFile: "static_1u_300ms.csv", Mode: "static", Concurrency: 1, FaultLatencyMS: 300,
			AvgLatencyMS: 100, P95LatencyMS: 100, Availability: 1,
		},
	}
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, rows); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "source_file,mode,concurrency,fault_latency_ms,avg_latency_ms,p95_latency_ms,error_rate,availability,throughput_req_s" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "adaptive_2u_300ms.csv,adaptive,2,300,140,260,0.2,0.8,12.5" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	// Missing throughput renders as an empty trailing cell.
	if !strings.HasSuffix(lines[2], ",1,") {
		t.Fatalf("expected empty throughput cell: %q", lines[2])
	}
}

func TestWriteSummaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "summary.csv")
	if err := WriteSummaryFile(path, []Summary{{SourceFile: "a.csv", Mode: "static", Availability: 1}}); err != nil {
		t.Fatalf("WriteSummaryFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(data), "a.csv") {
		t.Fatalf("summary content missing row: %s", data)
	}
}
