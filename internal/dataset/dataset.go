// Package dataset loads the movie metadata table and derives read-only views of it.
//
// A Dataset is immutable once constructed. Loading goes through a Loader backed
// by an in-memory DuckDB connection, and the result is memoized per path by a
// Cache for the life of the process.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the logical type of a column.
type Kind int

// Column kinds.
const (
	KindString Kind = iota
	KindNumeric
	KindDate
	KindBool
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Column describes one column of a Dataset.
type Column struct {
	Name string
	Kind Kind
	// SourceType is the database type the column was read as, e.g. "BIGINT".
	SourceType string
}

// Row holds one record. Values are float64 for numeric columns, time.Time for
// dates, bool for booleans, string otherwise, and nil when missing.
type Row []any

// Dataset is an immutable, column-typed table.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    []Row
}

// New builds a Dataset from a column schema and rows. Both slices are copied.
// Numeric cells are normalized to float64; a row whose width differs from the
// schema is an error.
func New(columns []Column, rows []Row) (*Dataset, error) {
	ds := &Dataset{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Row, 0, len(rows)),
	}
	copy(ds.columns, columns)

	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := ds.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		ds.index[col.Name] = i
	}

	for r, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", r, len(row), len(columns))
		}
		cp := make(Row, len(row))
		for c, v := range row {
			nv, err := normalize(columns[c].Kind, v)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r, columns[c].Name, err)
			}
			cp[c] = nv
		}
		ds.rows = append(ds.rows, cp)
	}

	return ds, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Columns returns a copy of the column schema.
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in table order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// NumericColumns returns the names of numeric columns in table order.
func (d *Dataset) NumericColumns() []string {
	var names []string
	for _, c := range d.columns {
		if c.Kind == KindNumeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// IsNumeric reports whether name is a numeric column.
func (d *Dataset) IsNumeric(name string) bool {
	c, ok := d.Column(name)
	return ok && c.Kind == KindNumeric
}

// Value returns the raw value at row, column. It panics on an out-of-range row
// and returns nil for an unknown column.
func (d *Dataset) Value(row int, column string) any {
	i, ok := d.index[column]
	if !ok {
		return nil
	}
	return d.rows[row][i]
}

// Float returns the numeric value at row, column. ok is false for missing or
// non-finite values and non-numeric columns.
func (d *Dataset) Float(row int, column string) (float64, bool) {
	f, ok := d.Value(row, column).(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Floats returns a numeric column as a slice, with NaN for missing values.
func (d *Dataset) Floats(column string) []float64 {
	out := make([]float64, len(d.rows))
	for r := range d.rows {
		f, ok := d.Float(r, column)
		if !ok {
			f = math.NaN()
		}
		out[r] = f
	}
	return out
}

// Text formats the value at row, column for display.
func (d *Dataset) Text(row int, column string) string {
	return FormatValue(d.Value(row, column))
}

// Texts returns a column formatted for display.
func (d *Dataset) Texts(column string) []string {
	out := make([]string, len(d.rows))
	for r := range d.rows {
		out[r] = d.Text(r, column)
	}
	return out
}

// Row returns a copy of a row.
func (d *Dataset) Row(i int) Row {
	cp := make(Row, len(d.rows[i]))
	copy(cp, d.rows[i])
	return cp
}

// Slice returns rows [from, to) as a new Dataset sharing the schema. Bounds are
// clamped to the table.
func (d *Dataset) Slice(from, to int) *Dataset {
	from = max(0, min(from, len(d.rows)))
	to = max(from, min(to, len(d.rows)))
	return d.withRows(d.rows[from:to])
}

// withRows builds a view over existing rows without re-normalizing them.
func (d *Dataset) withRows(rows []Row) *Dataset {
	out := make([]Row, len(rows))
	copy(out, rows)
	return &Dataset{columns: d.columns, index: d.index, rows: out}
}

// FormatValue renders a cell value the way the table view shows it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 0, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.DateOnly)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
