// Package table defines the in-memory, column-oriented dataset passed between
// pipeline stages. A Table holds named columns of equal length; individual
// cells are `any` values where nil marks a missing observation, float64 holds
// numeric data, and string holds categorical data. This mirrors the record
// convention used by the parsers (empty CSV fields become nil).
//
// Tables are treated as immutable by the pipeline: every stage derives a new
// Table from its input rather than mutating in place, so a caller's original
// table is never changed and stages stay composable and re-runnable.
package table

import (
	"fmt"
	"strconv"
)

// Table is an ordered collection of named columns with aligned rows.
//
// Invariants maintained by the constructor and mutators:
//   - all columns have the same length
//   - column names are unique
type Table struct {
	names []string
	cols  map[string][]any
}

// New returns an empty Table with no columns and no rows.
func New() *Table {
	return &Table{cols: map[string][]any{}}
}

// AddColumn appends a named column. The first column fixes the row count;
// every later column must match it. Duplicate names are rejected.
func (t *Table) AddColumn(name string, values []any) error {
	if _, ok := t.cols[name]; ok {
		return fmt.Errorf("table: duplicate column %q", name)
	}
	if len(t.names) > 0 && len(values) != t.Len() {
		return fmt.Errorf("table: column %q has %d values, want %d", name, len(values), t.Len())
	}
	vs := make([]any, len(values))
	copy(vs, values)
	t.names = append(t.names, name)
	t.cols[name] = vs
	return nil
}

// MustAddColumn is AddColumn for statically known-good inputs (tests, fixtures).
// It panics on error.
func (t *Table) MustAddColumn(name string, values []any) *Table {
	if err := t.AddColumn(name, values); err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.cols[t.names[0]])
}

// Columns returns the column names in order. The returned slice is a copy.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the values of the named column, or nil when absent. The
// returned slice is the backing storage; callers must not mutate it.
func (t *Table) Column(name string) []any {
	return t.cols[name]
}

// Cell returns the value at (column, row). Missing cells are nil.
func (t *Table) Cell(name string, row int) any {
	col, ok := t.cols[name]
	if !ok || row < 0 || row >= len(col) {
		return nil
	}
	return col[row]
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New()
	for _, name := range t.names {
		out.MustAddColumn(name, t.cols[name])
	}
	return out
}

// RenameColumns returns a copy of the table with every column name passed
// through fn, preserving column order and values. It fails when fn maps two
// existing names onto the same new name.
func (t *Table) RenameColumns(fn func(string) string) (*Table, error) {
	out := New()
	for _, name := range t.names {
		if err := out.AddColumn(fn(name), t.cols[name]); err != nil {
			return nil, fmt.Errorf("table: rename: %w", err)
		}
	}
	return out, nil
}

// Filter returns a new table containing only the rows for which keep returns
// true. Row order is preserved (stable filter); the input table is unchanged.
func (t *Table) Filter(keep func(row int) bool) *Table {
	n := t.Len()
	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	out := New()
	for _, name := range t.names {
		src := t.cols[name]
		vs := make([]any, len(idx))
		for j, i := range idx {
			vs[j] = src[i]
		}
		out.names = append(out.names, name)
		out.cols[name] = vs
	}
	return out
}

// IsMissing reports whether a cell value represents a missing observation.
func IsMissing(v any) bool { return v == nil }

// AsFloat converts a cell to float64. The second result is false for missing
// cells and for values that are not numeric.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// AsString renders a cell for grouping keys and CSV output. Missing cells
// render as the empty string; floats use the shortest round-trip form.
func AsString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(s)
	}
}

// IsNumeric reports whether the named column holds numeric data: at least one
// non-missing value, and every non-missing value convertible to float64.
func (t *Table) IsNumeric(name string) bool {
	col, ok := t.cols[name]
	if !ok {
		return false
	}
	seen := false
	for _, v := range col {
		if IsMissing(v) {
			continue
		}
		if _, ok := AsFloat(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// NumericColumns returns the names of all numeric columns, in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, name := range t.names {
		if t.IsNumeric(name) {
			out = append(out, name)
		}
	}
	return out
}

// Floats returns the non-missing values of a numeric column as float64s, in
// row order, optionally restricted to the given row indices (nil = all rows).
func (t *Table) Floats(name string, rows []int) []float64 {
	col, ok := t.cols[name]
	if !ok {
		return nil
	}
	var out []float64
	if rows == nil {
		for _, v := range col {
			if f, ok := AsFloat(v); ok {
				out = append(out, f)
			}
		}
		return out
	}
	for _, i := range rows {
		if f, ok := AsFloat(col[i]); ok {
			out = append(out, f)
		}
	}
	return out
}
