package table

import (
	"math"
	"sort"
)

// Metrics are the headline numbers shown at the top of the dashboard.
type Metrics struct {
	RowCount    int     `json:"rows"`
	ColumnCount int     `json:"columns"`
	MeanColumn  string  `json:"mean_column,omitempty"`
	// Mean must serialize even when it is exactly zero, so no omitempty;
	// MeanValid is the applicability signal, not the key's presence.
	Mean float64 `json:"mean"`
	// MeanValid is false ("not applicable") when the designated column is
	// absent, non-numeric, all-null, or the table has no rows.
	MeanValid bool `json:"mean_valid"`
}

// Summarize computes the headline metrics over the current view. The mean
// of the designated numeric column is guarded: an empty table yields
// MeanValid=false, never a division by zero.
func Summarize(t *Table, designated string) Metrics {
	m := Metrics{
		RowCount:    t.NumRows(),
		ColumnCount: t.NumCols(),
		MeanColumn:  designated,
	}

	col, ok := t.Column(designated)
	if !ok || !col.Type.Numeric() {
		return m
	}

	sum := 0.0
	n := 0
	for _, cell := range col.Cells {
		if cell.Null {
			continue
		}
		sum += cell.Num
		n++
	}
	if n > 0 {
		m.Mean = sum / float64(n)
		m.MeanValid = true
	}
	return m
}

// SummaryRow is the per-column descriptive summary. Numeric columns carry
// count/mean/std/min/quartiles/max; categorical columns carry
// count/unique/top/freq. Pointer fields are nil when not applicable, which
// serializes as absent rather than as a fake zero.
type SummaryRow struct {
	Column string `json:"column"`
	Kind   string `json:"kind"`
	Count  int    `json:"count"`

	Mean   *float64 `json:"mean,omitempty"`
	Std    *float64 `json:"std,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Q1     *float64 `json:"q1,omitempty"`
	Median *float64 `json:"median,omitempty"`
	Q3     *float64 `json:"q3,omitempty"`
	Max    *float64 `json:"max,omitempty"`

	Unique int    `json:"unique,omitempty"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq,omitempty"`
}

// Describe computes a SummaryRow for every column, in column order.
// All-null columns report a zero count with every value not applicable.
func Describe(t *Table) []SummaryRow {
	rows := make([]SummaryRow, 0, t.NumCols())
	for _, col := range t.Columns() {
		if col.Type.Numeric() {
			rows = append(rows, describeNumeric(col))
		} else {
			rows = append(rows, describeCategorical(col))
		}
	}
	return rows
}

func describeNumeric(col Column) SummaryRow {
	values := make([]float64, 0, len(col.Cells))
	for _, cell := range col.Cells {
		if !cell.Null {
			values = append(values, cell.Num)
		}
	}

	row := SummaryRow{Column: col.Name, Kind: "numeric", Count: len(values)}
	if len(values) == 0 {
		return row
	}

	sort.Float64s(values)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	row.Mean = &mean

	if len(values) > 1 {
		ss := 0.0
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		std := math.Sqrt(ss / float64(len(values)-1))
		row.Std = &std
	}

	row.Min = ptr(values[0])
	row.Q1 = ptr(quantile(values, 0.25))
	row.Median = ptr(quantile(values, 0.5))
	row.Q3 = ptr(quantile(values, 0.75))
	row.Max = ptr(values[len(values)-1])
	return row
}

func describeCategorical(col Column) SummaryRow {
	counts := make(map[string]int)
	order := make([]string, 0, 16)
	n := 0
	for _, cell := range col.Cells {
		if cell.Null {
			continue
		}
		n++
		if counts[cell.Raw] == 0 {
			order = append(order, cell.Raw)
		}
		counts[cell.Raw]++
	}

	row := SummaryRow{Column: col.Name, Kind: "categorical", Count: n, Unique: len(order)}
	if n == 0 {
		return row
	}

	// Most frequent value; first-seen wins ties for a stable answer.
	for _, v := range order {
		if counts[v] > row.Freq {
			row.Top = v
			row.Freq = counts[v]
		}
	}
	return row
}

// quantile computes the q-th quantile of sorted values using pandas-style
// linear interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func ptr(v float64) *float64 { return &v }
