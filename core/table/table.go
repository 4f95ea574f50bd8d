// Package table implements the ordered, immutable-by-convention tabular
// data model shared by the loader, normalizer, aggregation engine and
// exporter. A Table is a sequence of typed rows under a single schema;
// transformations return fresh tables and never mutate their input.
package table

import (
	"sort"
	"strings"

	"ecommerce-analytics/internal/errors"
)

// Table is an ordered sequence of rows sharing one column schema.
// Column lookup is case-insensitive.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]Cell
}

// New creates an empty table with the given column names
func New(cols ...string) *Table {
	t := &Table{
		cols:  append([]string(nil), cols...),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		t.index[strings.ToLower(c)] = i
	}
	return t
}

// NormalizeName standardizes a column name: lowercase, spaces to underscores
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// NumRows returns the number of rows
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether a column exists (case-insensitive)
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

// ColumnIndex returns the position of a column, or -1 when absent
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// AppendRow adds a row; the cell count must match the column count
func (t *Table) AppendRow(cells ...Cell) error {
	if len(cells) != len(t.cols) {
		return errors.Newf(errors.TypeValidation,
			"row has %d cells, table has %d columns", len(cells), len(t.cols))
	}
	t.rows = append(t.rows, append([]Cell(nil), cells...))
	return nil
}

// Cell returns the value at (row, column name). Out-of-range access or a
// missing column yields a null cell.
func (t *Table) Cell(row int, col string) Cell {
	i := t.ColumnIndex(col)
	if i < 0 || row < 0 || row >= len(t.rows) {
		return Null()
	}
	return t.rows[row][i]
}

// CellAt returns the value at (row, column index)
func (t *Table) CellAt(row, col int) Cell {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.cols) {
		return Null()
	}
	return t.rows[row][col]
}

// SetCell replaces the value at (row, column name)
func (t *Table) SetCell(row int, col string, c Cell) {
	i := t.ColumnIndex(col)
	if i < 0 || row < 0 || row >= len(t.rows) {
		return
	}
	t.rows[row][i] = c
}

// Row returns a copy of one row
func (t *Table) Row(row int) []Cell {
	if row < 0 || row >= len(t.rows) {
		return nil
	}
	return append([]Cell(nil), t.rows[row]...)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := New(t.cols...)
	out.rows = make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]Cell(nil), r...)
	}
	return out
}

// RenameColumns returns a copy with column names mapped through fn
func (t *Table) RenameColumns(fn func(string) string) *Table {
	cols := make([]string, len(t.cols))
	for i, c := range t.cols {
		cols[i] = fn(c)
	}
	out := New(cols...)
	out.rows = make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append([]Cell(nil), r...)
	}
	return out
}

// Filter returns a new table holding only rows the predicate accepts
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := New(t.cols...)
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, append([]Cell(nil), t.rows[i]...))
		}
	}
	return out
}

// WithColumn returns a copy with an added or replaced column whose cells
// are produced by fn per row
func (t *Table) WithColumn(name string, fn func(row int) Cell) *Table {
	if t.HasColumn(name) {
		out := t.Clone()
		for i := range out.rows {
			out.rows[i][out.ColumnIndex(name)] = fn(i)
		}
		return out
	}

	out := New(append(t.Columns(), name)...)
	out.rows = make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = append(append([]Cell(nil), r...), fn(i))
	}
	return out
}

// Sort orders the rows in place by the given comparison. It is intended
// for freshly built result tables, keeping source tables untouched.
func (t *Table) Sort(less func(a, b []Cell) bool) {
	sort.SliceStable(t.rows, func(i, j int) bool {
		return less(t.rows[i], t.rows[j])
	})
}

// DistinctStrings returns the ordered distinct formatted values of a column
func (t *Table) DistinctStrings(col string) []string {
	i := t.ColumnIndex(col)
	if i < 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.rows {
		v := r[i].Format()
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
