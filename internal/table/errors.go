package table

import (
	"errors"
	"fmt"
)

// ErrEmptyData indicates a dataset that parsed cleanly but contains no data
// rows. Loading a header-only file is not a failure; callers that need rows
// check for this condition themselves and report it as a warning.
var ErrEmptyData = errors.New("dataset has no data rows")

// ErrInvalidRange indicates a range filter whose lower bound exceeds its
// upper bound. The constructor rejects such specs before the filter engine
// ever sees them.
var ErrInvalidRange = errors.New("invalid range: lower bound exceeds upper bound")

// ParseError wraps a CSV parsing failure. The upload is reported as
// unreadable and no Table is produced.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ColumnNotFoundError indicates a filter or chart request referencing a
// column that is not present in the current table. The offending operation
// is skipped; the rest of the dashboard continues.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Column)
}

// ColumnTypeError indicates a filter applied to a column of the wrong kind,
// e.g. a numeric range over a string column.
type ColumnTypeError struct {
	Column string
	Want   ColumnType
	Got    ColumnType
}

func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("column %q is %s, not %s", e.Column, e.Got, e.Want)
}

// PlotRenderError indicates a chart that cannot be built from the selected
// columns. It is reported per chart and never aborts other charts.
type PlotRenderError struct {
	Chart  string
	Reason string
}

func (e *PlotRenderError) Error() string {
	return fmt.Sprintf("cannot render %s: %s", e.Chart, e.Reason)
}
