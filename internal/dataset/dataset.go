// Package dataset provides the in-memory tabular model shared by the
// transformation engine, the store and the exporters: an ordered set of
// named, equal-length columns of dynamically-typed cells.
package dataset

import (
	"errors"
	"fmt"
)

// ErrColumnExists is returned when adding a column whose name is taken.
var ErrColumnExists = errors.New("column already exists")

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Dataset is an ordered collection of named columns. All columns have the
// same length and unique names. Construct with New and mutate through the
// methods so the invariants hold.
type Dataset struct {
	columns []Column
	index   map[string]int
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// AddColumn appends a column. The first column fixes the row count; later
// columns must match it.
func (d *Dataset) AddColumn(name string, values []Value) error {
	if _, ok := d.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrColumnExists, name)
	}
	if len(d.columns) > 0 && len(values) != d.NumRows() {
		return fmt.Errorf("column %s has %d values, want %d", name, len(values), d.NumRows())
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, Column{Name: name, Values: values})
	return nil
}

// Column returns the values of the named column.
func (d *Dataset) Column(name string) ([]Value, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i].Values, true
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// SetColumn replaces the values of an existing column, preserving its
// position. The replacement must keep the row count.
func (d *Dataset) SetColumn(name string, values []Value) error {
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	if len(values) != len(d.columns[i].Values) {
		return fmt.Errorf("column %s: replacing %d values with %d", name, len(d.columns[i].Values), len(values))
	}
	d.columns[i].Values = values
	return nil
}

// Columns returns the column names in order.
func (d *Dataset) Columns() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the row count (zero for an empty dataset).
func (d *Dataset) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Row returns the i-th row as a slice of values in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for c := range d.columns {
		row[c] = d.columns[c].Values[i]
	}
	return row
}

// Clone returns a deep copy. Values are immutable so only the column
// slices are duplicated.
func (d *Dataset) Clone() *Dataset {
	out := New()
	for _, c := range d.columns {
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		// AddColumn cannot fail here: names and lengths come from a valid dataset.
		out.AddColumn(c.Name, vals) //nolint:errcheck
	}
	return out
}

// Equal reports whether two datasets have identical columns, order and
// cell values (by kind and rendered form).
func (d *Dataset) Equal(other *Dataset) bool {
	if d.NumColumns() != other.NumColumns() || d.NumRows() != other.NumRows() {
		return false
	}
	for i, c := range d.columns {
		oc := other.columns[i]
		if c.Name != oc.Name {
			return false
		}
		for j := range c.Values {
			a, b := c.Values[j], oc.Values[j]
			if a.Kind() != b.Kind() || a.Render() != b.Render() {
				return false
			}
		}
	}
	return true
}

// FromRows builds a dataset from a header and string rows, as produced by
// the store or a delimited file. Empty cells become the missing marker;
// everything else stays a string (typing is the transformation engine's
// job, not ingestion's). Rows shorter than the header pad with missing
// cells; rows wider than the header are an error.
func FromRows(header []string, rows [][]string) (*Dataset, error) {
	// Short rows pad with missing cells, but a row wider than the header
	// would silently lose its extra cells. Reject it instead.
	for r, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells but the header has %d columns", r+1, len(row), len(header))
		}
	}

	d := New()
	for c, name := range header {
		vals := make([]Value, len(rows))
		for r, row := range rows {
			if c >= len(row) || row[c] == "" {
				vals[r] = Missing()
				continue
			}
			vals[r] = String(row[c])
		}
		if err := d.AddColumn(name, vals); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Rows renders the dataset as string rows in column order.
func (d *Dataset) Rows() [][]string {
	rows := make([][]string, d.NumRows())
	for r := range rows {
		row := make([]string, len(d.columns))
		for c := range d.columns {
			row[c] = d.columns[c].Values[r].Render()
		}
		rows[r] = row
	}
	return rows
}
