package table

import "strings"

// Fields names the designated columns the simple filters and the stats
// cards read.
type Fields struct {
	Status string
	Fraud  string
}

// DefaultFields matches the transaction export column names.
func DefaultFields() Fields {
	return Fields{Status: "state", Fraud: "fraud"}
}

// FilterField identifies one of the three simple filter inputs.
type FilterField string

const (
	FieldSearch FilterField = "search"
	FieldStatus FilterField = "status"
	FieldFraud  FilterField = "fraud"
)

// QuickClear is the quick-filter kind that resets every field.
const QuickClear FilterField = "clear"

// FilterState is the simple query. Empty fields impose no constraint.
type FilterState struct {
	SearchTerm   string
	StatusFilter string
	FraudFilter  string
}

// Update returns f with a single field replaced. Unknown fields leave f
// unchanged.
func (f FilterState) Update(field FilterField, value string) FilterState {
	switch field {
	case FieldSearch:
		f.SearchTerm = value
	case FieldStatus:
		f.StatusFilter = value
	case FieldFraud:
		f.FraudFilter = value
	}
	return f
}

// QuickFilter builds the state a stats card jumps to: everything cleared,
// then exactly one field set. Kind QuickClear (or any unknown kind) yields
// the empty state.
func QuickFilter(kind FilterField, value string) FilterState {
	switch kind {
	case FieldStatus:
		return FilterState{StatusFilter: value}
	case FieldFraud:
		return FilterState{FraudFilter: value}
	default:
		return FilterState{}
	}
}

// IsEmpty reports whether no field constrains the result.
func (f FilterState) IsEmpty() bool {
	return f.SearchTerm == "" && f.StatusFilter == "" && f.FraudFilter == ""
}

// Active exposes the current field values keyed by field, as shown next to
// the stats cards.
func (f FilterState) Active() map[FilterField]string {
	return map[FilterField]string{
		FieldSearch: f.SearchTerm,
		FieldStatus: f.StatusFilter,
		FieldFraud:  f.FraudFilter,
	}
}

// Apply returns the records matching every non-empty field of f, in input
// order. The input slice is not modified.
func Apply(records []Record, f FilterState, fields Fields) []Record {
	out := make([]Record, 0, len(records))
	term := strings.ToLower(f.SearchTerm)
	for _, r := range records {
		if !matchesSearch(r, term) {
			continue
		}
		if f.StatusFilter != "" && r.Get(fields.Status) != f.StatusFilter {
			continue
		}
		if f.FraudFilter != "" && r.Get(fields.Fraud) != f.FraudFilter {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Matches reports whether a single record passes f.
func Matches(r Record, f FilterState, fields Fields) bool {
	return len(Apply([]Record{r}, f, fields)) == 1
}

// matchesSearch expects an already lower-cased term.
func matchesSearch(r Record, term string) bool {
	if term == "" {
		return true
	}
	for _, k := range r.keys {
		if strings.Contains(strings.ToLower(r.values[k]), term) {
			return true
		}
	}
	return false
}
