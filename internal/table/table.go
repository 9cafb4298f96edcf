// Package table provides a small column-ordered frame with nullable cells.
//
// Cells hold nil (missing), float64, int64, string, bool or time.Time.
// Transformations return new tables and never modify their receiver; only
// Add mutates, and it is meant for construction.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "options-dashboard/internal/errors"
)

// Column is a named, ordered run of cells.
type Column struct {
	Name   string
	Values []any
}

// Table is an ordered set of equal-length columns.
type Table struct {
	columns []Column
	rows    int
}

// New creates an empty table with the given row count.
func New(rows int) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Column returns the cells of a column. The slice must not be modified.
func (t *Table) Column(name string) ([]any, bool) {
	i := t.Index(name)
	if i < 0 {
		return nil, false
	}
	return t.columns[i].Values, true
}

// Value returns a single cell, or nil when the column is absent.
func (t *Table) Value(row int, name string) any {
	values, ok := t.Column(name)
	if !ok || row < 0 || row >= len(values) {
		return nil
	}
	return values[row]
}

// Add sets a column. An existing column keeps its position; a new one is
// appended. The values slice is owned by the table afterwards.
func (t *Table) Add(name string, values []any) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	if i := t.Index(name); i >= 0 {
		t.columns[i].Values = values
		return nil
	}
	t.columns = append(t.columns, Column{Name: name, Values: values})
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{rows: t.rows, columns: make([]Column, len(t.columns))}
	for i, c := range t.columns {
		values := make([]any, len(c.Values))
		copy(values, c.Values)
		out.columns[i] = Column{Name: c.Name, Values: values}
	}
	return out
}

// With returns a copy of the table with the column set as in Add.
func (t *Table) With(name string, values []any) (*Table, error) {
	out := t.Clone()
	if err := out.Add(name, values); err != nil {
		return nil, err
	}
	return out, nil
}

// Drop returns a copy without the named columns. Absent names are ignored.
func (t *Table) Drop(names ...string) *Table {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &Table{rows: t.rows}
	for _, c := range t.Clone().columns {
		if !skip[c.Name] {
			out.columns = append(out.columns, c)
		}
	}
	return out
}

// Select returns a copy holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	src := t.Clone()
	out := &Table{rows: t.rows}
	for _, n := range names {
		i := src.Index(n)
		if i < 0 {
			return nil, fmt.Errorf("column %q not found", n)
		}
		out.columns = append(out.columns, src.columns[i])
	}
	return out, nil
}

// MoveFirst returns a copy with the named column first. The order of the
// other columns is kept. A missing column yields an unchanged copy.
func (t *Table) MoveFirst(name string) *Table {
	out := t.Clone()
	i := out.Index(name)
	if i <= 0 {
		return out
	}
	col := out.columns[i]
	copy(out.columns[1:i+1], out.columns[:i])
	out.columns[0] = col
	return out
}

// Concat unions two tables row-wise. Both must hold the same column names;
// columns are matched by name and the result keeps the order of a.
func Concat(a, b *Table) (*Table, error) {
	left, right := a.Names(), b.Names()
	if len(left) != len(right) {
		return nil, &apperrors.SchemaError{Left: left, Right: right}
	}
	for _, name := range left {
		if !b.Has(name) {
			return nil, &apperrors.SchemaError{Left: left, Right: right}
		}
	}

	out := &Table{rows: a.rows + b.rows, columns: make([]Column, len(a.columns))}
	for i, c := range a.columns {
		other, _ := b.Column(c.Name)
		values := make([]any, 0, out.rows)
		values = append(values, c.Values...)
		values = append(values, other...)
		out.columns[i] = Column{Name: c.Name, Values: values}
	}
	return out, nil
}

// Take returns a copy holding the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	out := &Table{rows: len(rows), columns: make([]Column, len(t.columns))}
	for i, c := range t.columns {
		values := make([]any, len(rows))
		for j, r := range rows {
			values[j] = c.Values[r]
		}
		out.columns[i] = Column{Name: c.Name, Values: values}
	}
	return out
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.Take(rows)
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var rows []int
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Take(rows)
}

// SortBy returns a copy stably sorted on one column. Missing cells sort last
// in both directions.
func (t *Table) SortBy(name string, descending bool) (*Table, error) {
	values, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	rows := make([]int, t.rows)
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := values[rows[i]], values[rows[j]]
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if descending {
			return less(b, a)
		}
		return less(a, b)
	})
	return t.Take(rows), nil
}

// RoundNumeric returns a copy with every float cell of every numeric column
// rounded half away from zero to the given number of places. NaN and
// infinite cells become missing.
func (t *Table) RoundNumeric(places int32) *Table {
	out := t.Clone()
	for i, c := range out.columns {
		if !isNumericColumn(c.Values) {
			continue
		}
		for j, v := range c.Values {
			f, ok := v.(float64)
			switch {
			case !ok:
			case math.IsNaN(f) || math.IsInf(f, 0):
				out.columns[i].Values[j] = nil
			default:
				out.columns[i].Values[j] = roundFloat(f, places)
			}
		}
	}
	return out
}

// IsNumeric reports whether every non-missing cell of the column is a number
// and at least one cell is present.
func (t *Table) IsNumeric(name string) bool {
	values, ok := t.Column(name)
	return ok && isNumericColumn(values)
}

// Distinct returns the distinct non-missing values of a column in first-seen order.
func (t *Table) Distinct(name string) []any {
	values, _ := t.Column(name)
	var out []any
	for _, v := range values {
		if v == nil {
			continue
		}
		seen := false
		for _, o := range out {
			if cellEqual(o, v) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, v)
		}
	}
	return out
}

// Equal reports whether two tables have the same columns and cells.
func (t *Table) Equal(o *Table) bool {
	if t.rows != o.rows || len(t.columns) != len(o.columns) {
		return false
	}
	for i := range t.columns {
		if t.columns[i].Name != o.columns[i].Name {
			return false
		}
		for j := range t.columns[i].Values {
			if !cellEqual(t.columns[i].Values[j], o.columns[i].Values[j]) {
				return false
			}
		}
	}
	return true
}

// Records returns the rows as name → cell maps.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, t.rows)
	for r := 0; r < t.rows; r++ {
		rec := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			rec[c.Name] = c.Values[r]
		}
		out[r] = rec
	}
	return out
}

type wireTable struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	w := wireTable{Columns: t.Names(), Rows: make([][]any, t.rows)}
	for r := 0; r < t.rows; r++ {
		row := make([]any, len(t.columns))
		for i, c := range t.columns {
			row[i] = c.Values[r]
		}
		w.Rows[r] = row
	}
	return json.Marshal(w)
}

// Float converts a numeric cell to float64.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func isNumericColumn(values []any) bool {
	present := false
	for _, v := range values {
		switch v.(type) {
		case nil:
		case float64, int64, int:
			present = true
		default:
			return false
		}
	}
	return present
}

func roundFloat(f float64, places int32) float64 {
	r, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return r
}

func less(a, b any) bool {
	if fa, ok := Float(a); ok {
		if fb, ok := Float(b); ok {
			return fa < fb
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Before(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return !x && y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func cellEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}
