package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/fraudscope/internal/table"
)

// Field keys used in validation results.
const (
	FieldName        = "name"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldFilters     = "filters"
	FieldThreshold   = "threshold"
	FieldSettings    = "settings"
)

// Result maps a field to its first problem. An empty map means the rule can
// be saved.
type Result struct {
	Errors map[string]string
}

func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Message returns the error for field, or "".
func (r Result) Message(field string) string { return r.Errors[field] }

func (r Result) String() string {
	if r.Valid() {
		return "valid"
	}
	keys := make([]string, 0, len(r.Errors))
	for k := range r.Errors {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + r.Errors[k]
	}
	return strings.Join(parts, "; ")
}

// Validate checks a rule draft before save. columns, when non-empty, is the
// dataset's column list and enables unknown-column checks.
func Validate(r Rule, columns []string) Result {
	res := Result{Errors: map[string]string{}}
	set := func(field, msg string) {
		if _, ok := res.Errors[field]; !ok {
			res.Errors[field] = msg
		}
	}

	if strings.TrimSpace(r.Name) == "" {
		set(FieldName, "Name is required")
	}
	switch cat := strings.TrimSpace(r.Category); {
	case cat == "":
		set(FieldCategory, "Category is required")
	case !slices.Contains(Categories, cat):
		set(FieldCategory, fmt.Sprintf("Unknown category %q", cat))
	}
	if strings.TrimSpace(r.Description) == "" {
		set(FieldDescription, "Description is required")
	}

	if msg := validateChain(r.Logic, columns); msg != "" {
		set(FieldFilters, msg)
	}

	switch v := strings.TrimSpace(r.Threshold.Value); {
	case v == "":
		set(FieldThreshold, "Threshold value is required")
	case !table.ParseValue(v).IsNumber():
		set(FieldThreshold, "Threshold value must be a number")
	case !r.Threshold.Operator.Valid():
		set(FieldThreshold, fmt.Sprintf("Unknown threshold operator %q", r.Threshold.Operator))
	}

	s := r.Settings
	switch {
	case s.ReAlertDays < MinReAlertDays || s.ReAlertDays > MaxReAlertDays:
		set(FieldSettings, fmt.Sprintf("Re-alert frequency must be between %d and %d days", MinReAlertDays, MaxReAlertDays))
	case !slices.Contains(Frequencies, s.Frequency):
		set(FieldSettings, fmt.Sprintf("Unknown check frequency %q", s.Frequency))
	case !slices.Contains(Actions, s.Action):
		set(FieldSettings, fmt.Sprintf("Unknown action %q", s.Action))
	}
	return res
}

func validateChain(c Chain, columns []string) string {
	if len(c) == 0 {
		return "At least one filter is required"
	}
	for _, l := range c {
		if !l.Predicate.Complete() {
			return "All filters must be complete"
		}
	}
	for i, l := range c {
		p := l.Predicate
		n := i + 1
		if !p.Operator.Valid() {
			return fmt.Sprintf("Filter %d: unknown operator %q", n, p.Operator)
		}
		if len(columns) > 0 && !slices.Contains(columns, p.Column) {
			msg := fmt.Sprintf("Filter %d: unknown column %q", n, p.Column)
			if s := suggestColumn(p.Column, columns); s != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
			return msg
		}
		kind := InferColumnKind(p.Column)
		if !slices.Contains(OperatorsFor(kind), p.Operator) {
			return fmt.Sprintf("Filter %d: %q is not available for %s column %q", n, p.Operator.Label(), kind, p.Column)
		}
		if p.Operator.Numeric() && !table.ParseValue(p.Value).IsNumber() {
			return fmt.Sprintf("Filter %d: value must be a number", n)
		}
		if i < len(c)-1 && !l.Next.Valid() {
			return fmt.Sprintf("Filter %d: connector must be AND or OR", n)
		}
	}
	return ""
}

// suggestColumn returns the closest known column within a small edit
// distance, or "".
func suggestColumn(name string, columns []string) string {
	best, bestDist := "", -1
	for _, col := range columns {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(col))
		if bestDist < 0 || d < bestDist {
			best, bestDist = col, d
		}
	}
	if bestDist < 0 || bestDist > max(2, len(name)/3) {
		return ""
	}
	return best
}
