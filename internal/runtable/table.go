// Package runtable models raw load-generator result tables and extracts
// latency and failure signal from them without foreknowledge of the table
// shape a given run produced.
package runtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Table is one run's raw sample table: an ordered header plus string cells
// as read from CSV. Cells are kept unparsed; numeric interpretation happens
// per column on demand.
type Table struct {
	Columns []string
	Records [][]string
}

// ReadCSV parses a run table from r. The first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse run table: %w", err)
	}
	if len(all) == 0 {
		return nil, &ExtractionError{Reason: "run table is empty"}
	}
	t := &Table{Columns: all[0]}
	for _, rec := range all[1:] {
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

// ReadCSVFile reads a run table from the file at path.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open run table: %w", err)
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteCSV writes the table to w, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, rec := range t.Records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns the raw cells of the named column. Rows too short to
// reach the column contribute an empty cell.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Records))
	for _, rec := range t.Records {
		if idx < len(rec) {
			out = append(out, rec[idx])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// FloatColumn parses the named column as float64 values.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	cells := t.Column(name)
	if cells == nil {
		return nil, &ExtractionError{Reason: fmt.Sprintf("column %q not found", name)}
	}
	out := make([]float64, 0, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, &ExtractionError{
				Reason: fmt.Sprintf("column %q row %d: value %q is not numeric", name, i, c),
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// IsNumericColumn reports whether every cell of the named column parses
// as a float. An empty table counts as non-numeric.
func (t *Table) IsNumericColumn(name string) bool {
	cells := t.Column(name)
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			return false
		}
	}
	return true
}
