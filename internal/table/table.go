// Package table implements the in-memory dataset behind the dashboard:
// loading CSV uploads into typed columns, filtering, descriptive statistics,
// chart data and CSV export. It has no UI dependencies and can be driven by
// any frontend.
package table

// ColumnType is the inferred type of a column. Inference happens once at
// load time and is stored in the schema so the filter engine and the
// summarizer always agree on which columns are categorical and which are
// numeric.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeFloat
)

func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	default:
		return "string"
	}
}

// Numeric reports whether the type participates in range filters and
// numeric aggregation.
func (t ColumnType) Numeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Cell is a single value. Raw preserves the exact text from the upload so
// export round-trips byte-for-byte; Num carries the parsed value for numeric
// columns.
type Cell struct {
	Raw  string
	Num  float64
	Null bool
}

// Column is a named sequence of cells of a single inferred type.
type Column struct {
	Name  string
	Type  ColumnType
	Cells []Cell
}

// Table is an ordered sequence of named columns with a uniform row count.
// Tables are never mutated in place: filtering always derives a new Table,
// so the loaded base table stays valid for re-filtering.
type Table struct {
	cols  []Column
	index map[string]int
}

// New assembles a Table from columns. Callers (the loader, the filter
// engine) are responsible for uniform lengths and unique names; New panics
// on violations since they indicate a bug, not bad input.
func New(cols []Column) *Table {
	index := make(map[string]int, len(cols))
	rows := -1
	for i, c := range cols {
		if _, dup := index[c.Name]; dup {
			panic("table: duplicate column " + c.Name)
		}
		if rows >= 0 && len(c.Cells) != rows {
			panic("table: ragged columns")
		}
		rows = len(c.Cells)
		index[c.Name] = i
	}
	return &Table{cols: cols, index: index}
}

// NumRows returns the row count. Zero is a valid state.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []Column { return t.cols }

// ColumnNames returns the header names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or false if absent.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.cols[i], true
}

// CategoricalColumns returns the names of all string-typed columns, the
// ones eligible for membership filtering.
func (t *Table) CategoricalColumns() []string {
	var names []string
	for _, c := range t.cols {
		if !c.Type.Numeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// NumericColumns returns the names of all numeric columns, the ones
// eligible for range filtering and aggregation.
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.cols {
		if c.Type.Numeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// DistinctValues returns the distinct non-null values of a column in
// first-seen order. Used to populate the categorical filter choices.
func (t *Table) DistinctValues(name string) ([]string, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	seen := make(map[string]struct{}, 16)
	var values []string
	for _, cell := range col.Cells {
		if cell.Null {
			continue
		}
		if _, dup := seen[cell.Raw]; dup {
			continue
		}
		seen[cell.Raw] = struct{}{}
		values = append(values, cell.Raw)
	}
	return values, nil
}

// MinMax returns the smallest and largest non-null value of a numeric
// column. ok is false for non-numeric or all-null columns.
func (t *Table) MinMax(name string) (lo, hi float64, ok bool) {
	col, found := t.Column(name)
	if !found || !col.Type.Numeric() {
		return 0, 0, false
	}
	first := true
	for _, cell := range col.Cells {
		if cell.Null {
			continue
		}
		if first {
			lo, hi = cell.Num, cell.Num
			first = false
			continue
		}
		if cell.Num < lo {
			lo = cell.Num
		}
		if cell.Num > hi {
			hi = cell.Num
		}
	}
	return lo, hi, !first
}

// selectRows derives a new Table containing the rows for which keep is
// true, in the original order.
func (t *Table) selectRows(keep []bool, kept int) *Table {
	cols := make([]Column, len(t.cols))
	for i, src := range t.cols {
		dst := Column{Name: src.Name, Type: src.Type, Cells: make([]Cell, 0, kept)}
		for row, cell := range src.Cells {
			if keep[row] {
				dst.Cells = append(dst.Cells, cell)
			}
		}
		cols[i] = dst
	}
	return New(cols)
}
