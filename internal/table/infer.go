package table

import "strconv"

// Values treated as missing during inference and aggregation. Matches what
// the usual CSV tooling emits for nulls.
var nullMarkers = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"NULL": {},
	"-":    {},
}

func isNullMarker(s string) bool {
	_, ok := nullMarkers[s]
	return ok
}

// inferColumn types a raw column and parses its cells. A column is TypeInt
// when every non-null cell parses as an integer, TypeFloat when every
// non-null cell parses as a number, and TypeString otherwise. An all-null
// column stays TypeString.
func inferColumn(name string, raw []string) Column {
	allInt := true
	allFloat := true
	nonNull := 0

	for _, s := range raw {
		if isNullMarker(s) {
			continue
		}
		nonNull++
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			break
		}
	}

	typ := TypeString
	if nonNull > 0 {
		switch {
		case allInt:
			typ = TypeInt
		case allFloat:
			typ = TypeFloat
		}
	}

	cells := make([]Cell, len(raw))
	for i, s := range raw {
		if isNullMarker(s) {
			cells[i] = Cell{Null: true}
			continue
		}
		cell := Cell{Raw: s}
		if typ.Numeric() {
			// Parse cannot fail here: the type vote above already
			// checked every non-null cell.
			cell.Num, _ = strconv.ParseFloat(s, 64)
		}
		cells[i] = cell
	}

	return Column{Name: name, Type: typ, Cells: cells}
}
