package runtable

import (
	"errors"
	"fmt"
	"strings"
)

// Column names of the direct (wide) table shape.
const (
	LatencyColumn = "http_req_duration"
	FailureColumn = "http_req_failed"
)

// Metric names used to filter rows in the tagged (long) table shape.
const (
	LatencyMetric = "http_req_duration"
	FailureMetric = "http_req_failed"
)

// Accepted aliases for the tagged shape's metric-name and value columns.
var (
	metricColumnAliases = []string{"metric", "metric_name"}
	valueColumnAliases  = []string{"value", "metric_value"}
)

// Shape identifies which of the two supported table layouts a run produced.
type Shape int

const (
	// ShapeDirect has dedicated latency and failure columns.
	ShapeDirect Shape = iota
	// ShapeTagged has a metric-name column and a shared value column.
	ShapeTagged
)

func (s Shape) String() string {
	switch s {
	case ShapeDirect:
		return "direct"
	case ShapeTagged:
		return "tagged"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// ExtractionError reports a malformed, ambiguous, or empty run table.
// It is fatal for the round that produced the table.
type ExtractionError struct {
	Reason  string
	Columns []string
}

func (e *ExtractionError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("extraction failed: %s (columns: %s)", e.Reason, strings.Join(e.Columns, ", "))
	}
	return "extraction failed: " + e.Reason
}

// IsExtractionError reports whether err wraps an ExtractionError.
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

// DetectShape determines the table layout. Direct shape wins when both of
// its columns are present, even if the table also carries a metric column.
func DetectShape(t *Table) (Shape, error) {
	if t.HasColumn(LatencyColumn) && t.HasColumn(FailureColumn) {
		return ShapeDirect, nil
	}
	for _, cand := range metricColumnAliases {
		if t.HasColumn(cand) {
			return ShapeTagged, nil
		}
	}
	return 0, &ExtractionError{
		Reason:  fmt.Sprintf("no %q/%q columns and no metric-name column under %v", LatencyColumn, FailureColumn, metricColumnAliases),
		Columns: t.Columns,
	}
}

// Extract returns the latency observations and failure indicators of one
// run table, auto-detecting the shape. A table with zero latency
// observations is malformed and fails extraction; a table with zero
// failure observations yields an empty failure slice, which downstream
// evaluation treats as "no errors recorded".
func Extract(t *Table) (latencies, failures []float64, err error) {
	shape, err := DetectShape(t)
	if err != nil {
		return nil, nil, err
	}
	switch shape {
	case ShapeDirect:
		return extractDirect(t)
	default:
		return extractTagged(t)
	}
}

func extractDirect(t *Table) ([]float64, []float64, error) {
	lat, err := t.FloatColumn(LatencyColumn)
	if err != nil {
		return nil, nil, err
	}
	if len(lat) == 0 {
		return nil, nil, &ExtractionError{Reason: "no latency observations", Columns: t.Columns}
	}
	failed, err := t.FloatColumn(FailureColumn)
	if err != nil {
		return nil, nil, err
	}
	return lat, failed, nil
}

func extractTagged(t *Table) ([]float64, []float64, error) {
	metricCol := ""
	for _, cand := range metricColumnAliases {
		if t.HasColumn(cand) {
			metricCol = cand
			break
		}
	}
	valueCol, err := taggedValueColumn(t, metricCol)
	if err != nil {
		return nil, nil, err
	}

	metrics := t.Column(metricCol)
	values, err := t.FloatColumn(valueCol)
	if err != nil {
		return nil, nil, err
	}

	var lat, failed []float64
	for i, name := range metrics {
		switch name {
		case LatencyMetric:
			lat = append(lat, values[i])
		case FailureMetric:
			failed = append(failed, values[i])
		}
	}
	if len(lat) == 0 {
		return nil, nil, &ExtractionError{
			Reason:  fmt.Sprintf("no %q rows in tagged table", LatencyMetric),
			Columns: t.Columns,
		}
	}
	return lat, failed, nil
}

// taggedValueColumn resolves the value column of a tagged table: a known
// alias if present, otherwise the first all-numeric column other than the
// metric-name column.
func taggedValueColumn(t *Table, metricCol string) (string, error) {
	for _, cand := range valueColumnAliases {
		if t.HasColumn(cand) {
			return cand, nil
		}
	}
	for _, col := range t.Columns {
		if col == metricCol {
			continue
		}
		if t.IsNumericColumn(col) {
			return col, nil
		}
	}
	return "", &ExtractionError{Reason: "no usable numeric value column", Columns: t.Columns}
}
