package rules

import (
	"slices"
	"strings"
)

// Operator is a predicate comparison.
type Operator string

const (
	OpEquals       Operator = "equals"
	OpNotEquals    Operator = "not_equals"
	OpContains     Operator = "contains"
	OpNotContains  Operator = "not_contains"
	OpStartsWith   Operator = "starts_with"
	OpEndsWith     Operator = "ends_with"
	OpGreaterThan  Operator = "greater_than"
	OpLessThan     Operator = "less_than"
	OpGreaterEqual Operator = "greater_equal"
	OpLessEqual    Operator = "less_equal"
	OpIsEmpty      Operator = "is_empty"
	OpIsNotEmpty   Operator = "is_not_empty"
)

// AllOperators lists every operator in editor display order.
var AllOperators = []Operator{
	OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith, OpEndsWith,
	OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual, OpIsEmpty, OpIsNotEmpty,
}

var operatorLabels = map[Operator]string{
	OpEquals:       "equals",
	OpNotEquals:    "does not equal",
	OpContains:     "contains",
	OpNotContains:  "does not contain",
	OpStartsWith:   "starts with",
	OpEndsWith:     "ends with",
	OpGreaterThan:  "is greater than",
	OpLessThan:     "is less than",
	OpGreaterEqual: "is greater than or equal to",
	OpLessEqual:    "is less than or equal to",
	OpIsEmpty:      "is empty",
	OpIsNotEmpty:   "is not empty",
}

// Label is the human wording of the operator.
func (o Operator) Label() string {
	if l, ok := operatorLabels[o]; ok {
		return l
	}
	return string(o)
}

// Valid reports whether o is a known operator.
func (o Operator) Valid() bool {
	_, ok := operatorLabels[o]
	return ok
}

// NeedsValue is false for the emptiness checks, which ignore the value.
func (o Operator) NeedsValue() bool {
	return o != OpIsEmpty && o != OpIsNotEmpty
}

// Numeric reports whether o compares parsed numbers.
func (o Operator) Numeric() bool {
	switch o {
	case OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual:
		return true
	}
	return false
}

// ColumnKind is the inferred type of a column, which decides the operators
// offered for it.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
)

func (k ColumnKind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// numericColumns are identifier and code columns known to hold numbers.
var numericColumns = []string{
	"charged_amount", "user_id", "transaction_id", "merchant_id", "sub_merchant_id", "mcc",
}

// InferColumnKind treats a column as numeric when its name is a known
// numeric field or contains "amount".
func InferColumnKind(column string) ColumnKind {
	if slices.Contains(numericColumns, column) || strings.Contains(column, "amount") {
		return KindNumeric
	}
	return KindText
}

var (
	numericOperators = []Operator{
		OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual, OpIsEmpty, OpIsNotEmpty,
	}
	textOperators = []Operator{
		OpEquals, OpNotEquals, OpContains, OpNotContains, OpStartsWith, OpEndsWith, OpIsEmpty, OpIsNotEmpty,
	}
)

// OperatorsFor returns the operators offered for a column kind.
func OperatorsFor(kind ColumnKind) []Operator {
	if kind == KindNumeric {
		return slices.Clone(numericOperators)
	}
	return slices.Clone(textOperators)
}

// OperatorsForColumn returns the operators offered for column. With no
// column chosen yet every operator is offered.
func OperatorsForColumn(column string) []Operator {
	if column == "" {
		return slices.Clone(AllOperators)
	}
	return OperatorsFor(InferColumnKind(column))
}

// Comparison is the threshold operator.
type Comparison string

const (
	CmpGreaterThan  Comparison = "greater_than"
	CmpLessThan     Comparison = "less_than"
	CmpEquals       Comparison = "equals"
	CmpGreaterEqual Comparison = "greater_equal"
	CmpLessEqual    Comparison = "less_equal"
)

// Comparisons lists threshold operators in display order.
var Comparisons = []Comparison{CmpGreaterThan, CmpLessThan, CmpEquals, CmpGreaterEqual, CmpLessEqual}

var comparisonLabels = map[Comparison]string{
	CmpGreaterThan:  "Greater than",
	CmpLessThan:     "Less than",
	CmpEquals:       "Equals",
	CmpGreaterEqual: "Greater than or equal to",
	CmpLessEqual:    "Less than or equal to",
}

func (c Comparison) Label() string {
	if l, ok := comparisonLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Comparison) Valid() bool {
	_, ok := comparisonLabels[c]
	return ok
}
