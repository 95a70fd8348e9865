package plfmip

import (
	"encoding/csv"
	"fmt"
	"io"
)

// TimingTable accumulates one ordered sequence of values per named column,
// one entry per instance, insertion order = instance order. The driver
// keeps one table for per-method elapsed times and one for the baseline
// operation-time ratios.
type TimingTable struct {
	columns []string
	values  map[string][]float64
}

func NewTimingTable(columns ...string) *TimingTable {
	t := &TimingTable{
		columns: append([]string(nil), columns...),
		values:  make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		t.values[c] = nil
	}
	return t
}

// Append adds the next value of a column.
func (t *TimingTable) Append(column string, v float64) error {
	if _, ok := t.values[column]; !ok {
		return fmt.Errorf("timing table has no column %q", column)
	}
	t.values[column] = append(t.values[column], v)
	return nil
}

// Rows returns the number of complete rows.
func (t *TimingTable) Rows() int {
	if len(t.columns) == 0 {
		return 0
	}
	n := len(t.values[t.columns[0]])
	for _, c := range t.columns[1:] {
		if len(t.values[c]) < n {
			n = len(t.values[c])
		}
	}
	return n
}

// Column returns the accumulated sequence of a column.
func (t *TimingTable) Column(column string) []float64 {
	return t.values[column]
}

// WriteCSV writes the header row followed by the position-matched value
// rows. Ragged columns indicate a driver bug and fail the write.
func (t *TimingTable) WriteCSV(w io.Writer) error {
	rows := t.Rows()
	for _, c := range t.columns {
		if len(t.values[c]) != rows {
			return fmt.Errorf("timing table column %q has %d entries, want %d", c, len(t.values[c]), rows)
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return err
	}
	rec := make([]string, len(t.columns))
	for i := 0; i < rows; i++ {
		for j, c := range t.columns {
			rec[j] = FormatFloat(t.values[c][i])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
