package sweep

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
)

type mockGreptimeClient struct {
	table *table.Table
	calls int
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	m.calls++
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterRounds(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{
		client:  m,
		sweepID: "sweep-1",
		table:   RoundTableName,
		now:     func() time.Time { return time.Unix(0, 0) },
	}

	rounds := []Round{
		{FaultLatencyMS: 300, Concurrency: 2, P95LatencyMS: 450.5, ErrorRate: 0.02, OK: true},
		{FaultLatencyMS: 300, Concurrency: 3, P95LatencyMS: 1500, ErrorRate: 0.3, OK: false},
	}
	if err := w.WriteRounds(rounds); err != nil {
		t.Fatalf("WriteRounds: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) != 7 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	if schema[0].ColumnName != "sweep_id" || schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("first column = %v, want sweep_id tag", schema[0])
	}
	if schema[5].Datatype != gpb.ColumnDataType_BOOLEAN {
		t.Fatalf("slo_ok column type = %v, want %v", schema[5].Datatype, gpb.ColumnDataType_BOOLEAN)
	}

	dataRows := m.table.GetRows().Rows
	if len(dataRows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(dataRows))
	}
	if got := dataRows[0].Values[0].GetStringValue(); got != "sweep-1" {
		t.Fatalf("sweep_id = %s, want sweep-1", got)
	}
	if got := dataRows[0].Values[2].GetI64Value(); got != 2 {
		t.Fatalf("concurrency = %d, want 2", got)
	}
	if got := dataRows[0].Values[3].GetF64Value(); got != 450.5 {
		t.Fatalf("p95 = %v, want 450.5", got)
	}
	if got := dataRows[1].Values[5].GetBoolValue(); got {
		t.Fatalf("slo_ok of violated round = %v, want false", got)
	}
}

func TestGreptimeWriterSingleRound(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{
		client:  m,
		sweepID: "sweep-2",
		table:   RoundTableName,
		now:     time.Now,
	}
	if err := w.WriteRound(Round{FaultLatencyMS: 1200, Concurrency: 1, OK: true}); err != nil {
		t.Fatalf("WriteRound: %v", err)
	}
	if len(m.table.GetRows().Rows) != 1 {
		t.Fatalf("expected 1 row")
	}
}

func TestGreptimeWriterSkipsEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sweepID: "s", table: RoundTableName, now: time.Now}
	if err := w.WriteRounds(nil); err != nil {
		t.Fatalf("WriteRounds: %v", err)
	}
	if m.calls != 0 {
		t.Fatalf("expected no writes for empty batch, got %d", m.calls)
	}
}
