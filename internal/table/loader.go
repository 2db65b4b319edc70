package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// utf8BOM is the byte-order mark Excel prepends to UTF-8 CSVs on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load parses a CSV byte stream into a typed Table.
//
// The stream is sanitized first: a UTF-8 BOM is stripped and invalid byte
// sequences are replaced, so exports from Excel and friends load without
// ceremony. Malformed CSV (broken quoting, rows with the wrong field count,
// duplicate header names, no header at all) yields a *ParseError.
//
// A header-only stream is a valid, distinct case: Load returns a zero-row
// Table with the declared columns. Callers that require rows check NumRows
// and report ErrEmptyData themselves.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read stream: %w", err)}
	}
	return LoadBytes(data)
}

// LoadBytes is Load over an in-memory byte slice.
func LoadBytes(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	records, err := parseCSV(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("missing header row")}
	}

	header := records[0]
	rows := records[1:]

	seen := make(map[string]struct{}, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ParseError{Err: fmt.Errorf("blank column name in header")}
		}
		if _, dup := seen[name]; dup {
			return nil, &ParseError{Err: fmt.Errorf("duplicate column name %q", name)}
		}
		seen[name] = struct{}{}
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		raw := make([]string, len(rows))
		for j, row := range rows {
			raw[j] = row[i]
		}
		cols[i] = inferColumn(strings.TrimSpace(name), raw)
	}

	return New(cols), nil
}

// parseCSV reads all records, requiring a consistent field count across
// rows. encoding/csv reports the offending line, which flows into the
// ParseError the user sees.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	return r.ReadAll()
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement
// character. Returns the input unchanged when it is already valid, which is
// the common case.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
