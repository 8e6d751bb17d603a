// Package table provides the tabular record set returned by group access:
// one row per detected spike, an explicit integer row index, and named
// float64 columns (cluster assignment, timing, features, waveform samples).
// Tables round-trip through the CSV codec in csv.go with the row index
// preserved as the first column.
package table

import (
	"fmt"
	"slices"
)

// Table is an ordered collection of named float64 columns with an explicit
// integer row index. Rows are appended in order; the index values are
// arbitrary but survive a CSV round trip.
type Table struct {
	columns []string
	index   []int
	rows    [][]float64
}

// New creates an empty table with the given column names.
func New(columns []string) *Table {
	return &Table{columns: slices.Clone(columns)}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Append adds a row with the given index value. The number of values must
// match the number of columns.
func (t *Table) Append(index int, values []float64) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	t.index = append(t.index, index)
	t.rows = append(t.rows, slices.Clone(values))
	return nil
}

// Row returns the index value and column values of row i.
// The returned slice is owned by the table and must not be modified.
func (t *Table) Row(i int) (int, []float64) {
	return t.index[i], t.rows[i]
}

// Index returns the row index values in order.
func (t *Table) Index() []int {
	return slices.Clone(t.index)
}

// Column returns the values of the named column, or false when the column
// does not exist.
func (t *Table) Column(name string) ([]float64, bool) {
	pos := slices.Index(t.columns, name)
	if pos < 0 {
		return nil, false
	}
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[pos]
	}
	return out, true
}

// Equal reports whether two tables have identical columns, index values
// and cell values.
func (t *Table) Equal(o *Table) bool {
	if o == nil {
		return false
	}
	if !slices.Equal(t.columns, o.columns) || !slices.Equal(t.index, o.index) {
		return false
	}
	for i := range t.rows {
		if !slices.Equal(t.rows[i], o.rows[i]) {
			return false
		}
	}
	return true
}
