package table

import (
	"bytes"
	"encoding/csv"
)

// Encode serializes the table back to CSV: a header row of column names,
// one record per row in the table's current order, RFC 4180 quoting for
// values containing the delimiter. Cells keep the exact text they were
// loaded with, so Load(Encode(t)) reproduces the values; null cells export
// as empty fields.
func Encode(t *Table) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Writes to a bytes.Buffer cannot fail, so errors are not surfaced.
	w.Write(t.ColumnNames())

	record := make([]string, t.NumCols())
	for row := 0; row < t.NumRows(); row++ {
		for i, col := range t.Columns() {
			cell := col.Cells[row]
			if cell.Null {
				record[i] = ""
			} else {
				record[i] = cell.Raw
			}
		}
		w.Write(record)
	}

	w.Flush()
	return buf.Bytes()
}
