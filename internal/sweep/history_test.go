package sweep

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleHistory() History {
	return History{
		{FaultLatencyMS: 300, Concurrency: 1, P95LatencyMS: 120.5, ErrorRate: 0, OK: true},
		{FaultLatencyMS: 300, Concurrency: 2, P95LatencyMS: 980.25, ErrorRate: 0.01, OK: true},
		{FaultLatencyMS: 300, Concurrency: 3, P95LatencyMS: 1400, ErrorRate: 0.12, OK: false},
		{FaultLatencyMS: 1200, Concurrency: 1, P95LatencyMS: 1800, ErrorRate: 0.3, OK: false},
	}
}

func TestAggregate(t *testing.T) {
	outcomes := []Outcome{
		{FaultLatencyMS: 300, Rounds: sampleHistory()[:3]},
		{FaultLatencyMS: 1200, Rounds: sampleHistory()[3:]},
	}
	h := Aggregate(outcomes)
	if !reflect.DeepEqual(h, sampleHistory()) {
		t.Fatalf("aggregate mismatch: %+v", h)
	}
}

func TestHistoryCSVRoundTrip(t *testing.T) {
	h := sampleHistory()
	var buf bytes.Buffer
	if err := WriteHistoryCSV(&buf, h); err != nil {
		t.Fatalf("WriteHistoryCSV: %v", err)
	}
	header, _, _ := strings.Cut(buf.String(), "\n")
	if header != "fault_latency_ms,concurrency,p95_latency_ms,error_rate,ok" {
		t.Fatalf("unexpected header: %q", header)
	}

	got, err := ReadHistoryCSV(&buf)
	if err != nil {
		t.Fatalf("ReadHistoryCSV: %v", err)
	}
	if !reflect.DeepEqual(got, h) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, h)
	}
}

func TestHistoryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "adaptive_history.csv")
	h := sampleHistory()
	if err := WriteHistoryFile(path, h); err != nil {
		t.Fatalf("WriteHistoryFile: %v", err)
	}
	got, err := ReadHistoryFile(path)
	if err != nil {
		t.Fatalf("ReadHistoryFile: %v", err)
	}
	if !reflect.DeepEqual(got, h) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestReadHistoryCSVMissingColumn(t *testing.T) {
	in := "fault_latency_ms,concurrency\n300,1\n"
	if _, err := ReadHistoryCSV(strings.NewReader(in)); err == nil {
		t.Fatalf("expected error for missing columns")
	}
}

func TestReadHistoryFileMissing(t *testing.T) {
	_, err := ReadHistoryFile(filepath.Join(t.TempDir(), "nope.csv"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(sampleHistory())
	if len(summaries) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(summaries))
	}
	if summaries[0].FaultLatencyMS != 300 || summaries[1].FaultLatencyMS != 1200 {
		t.Fatalf("levels out of order: %+v", summaries)
	}
	if summaries[0].BestConcurrency != 2 || summaries[0].FloorViolated {
		t.Fatalf("level 300 summary wrong: %+v", summaries[0])
	}
	if summaries[1].BestConcurrency != 0 || !summaries[1].FloorViolated {
		t.Fatalf("level 1200 summary wrong: %+v", summaries[1])
	}
}

func TestSummarizeOrdersRoundsByConcurrency(t *testing.T) {
	h := History{
		{FaultLatencyMS: 300, Concurrency: 3, OK: false},
		{FaultLatencyMS: 300, Concurrency: 1, OK: true},
		{FaultLatencyMS: 300, Concurrency: 2, OK: true},
	}
	summaries := Summarize(h)
	rounds := summaries[0].Rounds
	for i := range rounds {
		if rounds[i].Concurrency != i+1 {
			t.Fatalf("rounds not sorted by concurrency: %+v", rounds)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Summarize(sampleHistory())); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"fault latency 300ms:",
		"best stable concurrency: 2",
		"fault latency 1200ms:",
		"SLO violated even at minimum concurrency",
		"violated",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if !strings.Contains(buf.String(), "nothing to summarize") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
