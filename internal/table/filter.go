package table

import "fmt"

// FilterKind discriminates the two constraint shapes the dashboard offers.
type FilterKind int

const (
	// FilterCategorical keeps rows whose value is a member of an allowed
	// set. Only string-typed columns are eligible.
	FilterCategorical FilterKind = iota
	// FilterRange keeps rows whose numeric value lies in [Lo, Hi],
	// bounds inclusive. Any numeric column is eligible, not just the
	// designated one.
	FilterRange
)

// FilterSpec is a declarative constraint over one column. Build specs with
// NewCategoricalSpec or NewRangeSpec; the zero value is not meaningful.
type FilterSpec struct {
	Kind    FilterKind
	Column  string
	Allowed map[string]struct{}
	Lo, Hi  float64
}

// NewCategoricalSpec builds a membership constraint. The allowed values are
// not checked against the column's observed values: a value the column never
// contains simply matches no rows, which keeps the constructor usable before
// a table is in hand. An empty allowed list likewise matches nothing:
// applying it yields a zero-row table, by policy rather than by error.
func NewCategoricalSpec(column string, allowed []string) FilterSpec {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return FilterSpec{Kind: FilterCategorical, Column: column, Allowed: set}
}

// NewRangeSpec builds an inclusive range constraint. Bounds with lo > hi
// are rejected here, before the filter engine ever sees the spec.
func NewRangeSpec(column string, lo, hi float64) (FilterSpec, error) {
	if lo > hi {
		return FilterSpec{}, fmt.Errorf("%w: column %q, %v > %v", ErrInvalidRange, column, lo, hi)
	}
	return FilterSpec{Kind: FilterRange, Column: column, Lo: lo, Hi: hi}, nil
}

// Apply narrows t by every spec, composed conjunctively. The result is a
// new derived Table in the original row order; t itself is untouched, so
// re-filtering always starts from the loaded base.
//
// Applying no specs returns t unchanged. A spec naming an absent column
// fails with *ColumnNotFoundError; a spec against a column of the wrong
// kind fails with *ColumnTypeError. Null cells never satisfy a constraint.
func Apply(t *Table, specs []FilterSpec) (*Table, error) {
	if len(specs) == 0 {
		return t, nil
	}

	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = true
	}
	kept := t.NumRows()

	for _, spec := range specs {
		col, ok := t.Column(spec.Column)
		if !ok {
			return nil, &ColumnNotFoundError{Column: spec.Column}
		}

		switch spec.Kind {
		case FilterCategorical:
			if col.Type.Numeric() {
				return nil, &ColumnTypeError{Column: spec.Column, Want: TypeString, Got: col.Type}
			}
			for row, cell := range col.Cells {
				if !keep[row] {
					continue
				}
				if cell.Null {
					keep[row] = false
					kept--
					continue
				}
				if _, member := spec.Allowed[cell.Raw]; !member {
					keep[row] = false
					kept--
				}
			}

		case FilterRange:
			if !col.Type.Numeric() {
				return nil, &ColumnTypeError{Column: spec.Column, Want: TypeFloat, Got: col.Type}
			}
			for row, cell := range col.Cells {
				if !keep[row] {
					continue
				}
				if cell.Null || cell.Num < spec.Lo || cell.Num > spec.Hi {
					keep[row] = false
					kept--
				}
			}

		default:
			return nil, fmt.Errorf("unknown filter kind %d", spec.Kind)
		}
	}

	return t.selectRows(keep, kept), nil
}
