package table

import (
	"fmt"
	"math"
	"strconv"
)

// HistogramBin is one bar of a distribution chart. For numeric columns Lo
// and Hi bound the bin; for categorical columns Label is the value itself.
type HistogramBin struct {
	Label string  `json:"label"`
	Lo    float64 `json:"lo,omitempty"`
	Hi    float64 `json:"hi,omitempty"`
	Count int     `json:"count"`
}

// HistogramData is the payload handed to the chart renderer.
type HistogramData struct {
	Column string         `json:"column"`
	Bins   []HistogramBin `json:"bins"`
}

// Histogram builds distribution data for one column. Numeric columns are
// cut into bins equal-width buckets; categorical columns count each
// distinct value. Null cells are skipped. An absent column fails with
// *ColumnNotFoundError so the caller can skip just this chart.
func Histogram(t *Table, column string, bins int) (*HistogramData, error) {
	col, ok := t.Column(column)
	if !ok {
		return nil, &ColumnNotFoundError{Column: column}
	}
	if bins < 1 {
		bins = 10
	}

	if !col.Type.Numeric() {
		return categoricalHistogram(t, col)
	}

	lo, hi, ok := t.MinMax(column)
	if !ok {
		// All cells null: an empty chart, not an error.
		return &HistogramData{Column: column}, nil
	}

	width := (hi - lo) / float64(bins)
	if width == 0 {
		// Single distinct value collapses to one bin.
		count := 0
		for _, cell := range col.Cells {
			if !cell.Null {
				count++
			}
		}
		return &HistogramData{Column: column, Bins: []HistogramBin{{
			Label: formatBound(lo, col.Type), Lo: lo, Hi: hi, Count: count,
		}}}, nil
	}

	counts := make([]int, bins)
	for _, cell := range col.Cells {
		if cell.Null {
			continue
		}
		idx := int(math.Floor((cell.Num - lo) / width))
		if idx >= bins {
			idx = bins - 1 // hi itself lands in the last bin
		}
		counts[idx]++
	}

	data := &HistogramData{Column: column, Bins: make([]HistogramBin, bins)}
	for i := range counts {
		bLo := lo + float64(i)*width
		bHi := bLo + width
		data.Bins[i] = HistogramBin{
			Label: formatBound(bLo, col.Type) + "–" + formatBound(bHi, col.Type),
			Lo:    bLo,
			Hi:    bHi,
			Count: counts[i],
		}
	}
	return data, nil
}

func categoricalHistogram(t *Table, col *Column) (*HistogramData, error) {
	values, err := t.DistinctValues(col.Name)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(values))
	for _, cell := range col.Cells {
		if !cell.Null {
			counts[cell.Raw]++
		}
	}
	data := &HistogramData{Column: col.Name, Bins: make([]HistogramBin, 0, len(values))}
	for _, v := range values {
		data.Bins = append(data.Bins, HistogramBin{Label: v, Count: counts[v]})
	}
	return data, nil
}

// ScatterData is the relationship-plot payload: paired values for rows
// where both axes are non-null.
type ScatterData struct {
	XColumn string    `json:"x_column"`
	YColumn string    `json:"y_column"`
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
}

// Scatter builds relationship data for two numeric columns. A missing
// column fails with *ColumnNotFoundError; a non-numeric axis fails with
// *PlotRenderError. Either way only this chart is affected.
func Scatter(t *Table, xColumn, yColumn string) (*ScatterData, error) {
	xCol, ok := t.Column(xColumn)
	if !ok {
		return nil, &ColumnNotFoundError{Column: xColumn}
	}
	yCol, ok := t.Column(yColumn)
	if !ok {
		return nil, &ColumnNotFoundError{Column: yColumn}
	}
	if !xCol.Type.Numeric() {
		return nil, &PlotRenderError{Chart: "scatter", Reason: fmt.Sprintf("x-axis column %q is not numeric", xColumn)}
	}
	if !yCol.Type.Numeric() {
		return nil, &PlotRenderError{Chart: "scatter", Reason: fmt.Sprintf("y-axis column %q is not numeric", yColumn)}
	}

	data := &ScatterData{XColumn: xColumn, YColumn: yColumn}
	for i := range xCol.Cells {
		if xCol.Cells[i].Null || yCol.Cells[i].Null {
			continue
		}
		data.X = append(data.X, xCol.Cells[i].Num)
		data.Y = append(data.Y, yCol.Cells[i].Num)
	}
	return data, nil
}

func formatBound(v float64, typ ColumnType) string {
	if typ == TypeInt && v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
