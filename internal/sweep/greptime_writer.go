package sweep

import (
	"context"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

const defaultGreptimePort = 4001

// RoundTableName is the GreptimeDB table receiving round rows.
const RoundTableName = "slo_rounds"

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter streams rounds to GreptimeDB so a sweep's trajectory
// can be charted next to other service metrics. Rows are tagged with the
// sweep ID, keeping separate invocations distinguishable.
type GreptimeDBWriter struct {
	client  greptimeClient
	sweepID string
	table   string
	now     func() time.Time
}

// NewGreptimeDBWriter connects to a GreptimeDB endpoint ("host" or
// "host:port") and returns a writer for the given sweep ID.
func NewGreptimeDBWriter(endpoint, database, sweepID string) (*GreptimeDBWriter, error) {
	host := endpoint
	port := defaultGreptimePort
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:  client,
		sweepID: sweepID,
		table:   RoundTableName,
		now:     time.Now,
	}, nil
}

// WriteRound inserts a single round row.
func (w *GreptimeDBWriter) WriteRound(r Round) error {
	return w.WriteRounds([]Round{r})
}

// WriteRounds inserts multiple round rows in one request.
func (w *GreptimeDBWriter) WriteRounds(rounds []Round) error {
	if len(rounds) == 0 {
		return nil
	}
	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("sweep_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("fault_latency_ms", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("concurrency", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("p95_latency_ms", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("error_rate", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("slo_ok", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	ts := w.now().UTC()
	for _, r := range rounds {
		if err := tbl.AddRow(w.sweepID,
			int64(r.FaultLatencyMS), int64(r.Concurrency),
			r.P95LatencyMS, r.ErrorRate, r.OK, ts); err != nil {
			return err
		}
	}

	_, err = w.client.Write(context.Background(), tbl)
	return err
}
