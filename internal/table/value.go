package table

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind tags how a raw cell string was interpreted.
type ValueKind int

const (
	Text ValueKind = iota
	Number
)

// Value is a cell string together with its numeric reading, if it has one.
// Sorting and numeric predicates both go through ParseValue so a cell is
// classified the same way everywhere.
type Value struct {
	Raw  string
	Num  float64
	Kind ValueKind
}

// ParseValue classifies s as a Number when the whole string (ignoring
// surrounding whitespace) parses as a float, and as Text otherwise. Empty
// strings and NaN are Text.
func ParseValue(s string) Value {
	v := Value{Raw: s, Kind: Text}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return v
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) {
		return v
	}
	v.Num = f
	v.Kind = Number
	return v
}

func (v Value) IsNumber() bool { return v.Kind == Number }

// CompareValues orders two cells: numerically when both are numbers,
// otherwise by byte-wise comparison of the raw strings.
func CompareValues(a, b Value) int {
	if a.IsNumber() && b.IsNumber() {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.Raw, b.Raw)
}
