// Package rules models fraud detection rules: predicate chains over
// transaction columns, a trigger threshold and notification settings.
package rules

import (
	"fmt"
	"strings"

	"github.com/jask/fraudscope/internal/table"
)

// Predicate is a single column/operator/value test.
type Predicate struct {
	Column   string
	Operator Operator
	Value    string
}

// Complete reports whether the predicate has everything it needs to be
// evaluated.
func (p Predicate) Complete() bool {
	if p.Column == "" || p.Operator == "" {
		return false
	}
	return !p.Operator.NeedsValue() || p.Value != ""
}

// Matches evaluates the predicate against a record. Missing columns read as
// empty. Numeric operators are unsatisfied when either side is not a number.
func (p Predicate) Matches(r table.Record) bool {
	cell := r.Get(p.Column)
	switch p.Operator {
	case OpEquals:
		return cell == p.Value
	case OpNotEquals:
		return cell != p.Value
	case OpContains:
		return strings.Contains(cell, p.Value)
	case OpNotContains:
		return !strings.Contains(cell, p.Value)
	case OpStartsWith:
		return strings.HasPrefix(cell, p.Value)
	case OpEndsWith:
		return strings.HasSuffix(cell, p.Value)
	case OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual:
		return compareNumeric(p.Operator, cell, p.Value)
	case OpIsEmpty:
		return cell == ""
	case OpIsNotEmpty:
		return cell != ""
	default:
		return false
	}
}

func compareNumeric(op Operator, cell, operand string) bool {
	a, b := table.ParseValue(cell), table.ParseValue(operand)
	if !a.IsNumber() || !b.IsNumber() {
		return false
	}
	switch op {
	case OpGreaterThan:
		return a.Num > b.Num
	case OpLessThan:
		return a.Num < b.Num
	case OpGreaterEqual:
		return a.Num >= b.Num
	case OpLessEqual:
		return a.Num <= b.Num
	}
	return false
}

// Connector joins a predicate to the next one in a chain.
type Connector string

const (
	And Connector = "AND"
	Or  Connector = "OR"
)

func (c Connector) Valid() bool { return c == And || c == Or }

// Link is one chain element: a predicate and the connector to the following
// link. The last link of a chain has no Next.
type Link struct {
	Predicate Predicate
	Next      Connector
}

// Chain is an ordered predicate chain. The zero value is empty; NewChain
// returns the editor's starting chain of one blank predicate.
type Chain []Link

// NewChain returns a chain holding one blank predicate.
func NewChain() Chain {
	return Chain{{}}
}

// ChainFrom rebuilds a chain from parallel predicate and connector lists,
// where connectors[i] joins filters[i] and filters[i+1].
func ChainFrom(filters []Predicate, connectors []Connector) (Chain, error) {
	if len(filters) == 0 {
		if len(connectors) != 0 {
			return nil, fmt.Errorf("chain: %d connectors for no filters", len(connectors))
		}
		return Chain{}, nil
	}
	if len(connectors) != len(filters)-1 {
		return nil, fmt.Errorf("chain: %d connectors for %d filters, want %d",
			len(connectors), len(filters), len(filters)-1)
	}
	c := make(Chain, len(filters))
	for i, f := range filters {
		c[i].Predicate = f
		if i < len(connectors) {
			c[i].Next = connectors[i]
		}
	}
	return c, nil
}

// Filters returns the predicates in order.
func (c Chain) Filters() []Predicate {
	out := make([]Predicate, len(c))
	for i, l := range c {
		out[i] = l.Predicate
	}
	return out
}

// Connectors returns the connectors in order; its length is len(c)-1.
func (c Chain) Connectors() []Connector {
	if len(c) == 0 {
		return []Connector{}
	}
	out := make([]Connector, 0, len(c)-1)
	for _, l := range c[:len(c)-1] {
		out = append(out, l.Next)
	}
	return out
}

// Append adds a blank predicate joined to the previous one with AND.
func (c Chain) Append() Chain {
	out := c.clone()
	if len(out) > 0 {
		out[len(out)-1].Next = And
	}
	return append(out, Link{})
}

// Update replaces predicate i. Out-of-range indices are ignored.
func (c Chain) Update(i int, p Predicate) Chain {
	if i < 0 || i >= len(c) {
		return c
	}
	out := c.clone()
	out[i].Predicate = p
	return out
}

// Delete removes predicate i and exactly one connector: the one leaving
// predicate i, or for the last predicate the one entering it. A chain of
// one predicate is returned unchanged with ok false.
func (c Chain) Delete(i int) (Chain, bool) {
	if len(c) <= 1 || i < 0 || i >= len(c) {
		return c, false
	}
	out := make(Chain, 0, len(c)-1)
	out = append(out, c[:i]...)
	out = append(out, c[i+1:]...)
	out[len(out)-1].Next = ""
	return out, true
}

// SetConnector sets the connector between predicates i and i+1.
func (c Chain) SetConnector(i int, conn Connector) Chain {
	if i < 0 || i >= len(c)-1 {
		return c
	}
	out := c.clone()
	out[i].Next = conn
	return out
}

// Evaluate combines the predicates strictly left to right with no
// precedence: ((p0 op0 p1) op1 p2) ... An empty chain matches nothing.
func (c Chain) Evaluate(r table.Record) bool {
	if len(c) == 0 {
		return false
	}
	result := c[0].Predicate.Matches(r)
	for i := 1; i < len(c); i++ {
		next := c[i].Predicate.Matches(r)
		if c[i-1].Next == Or {
			result = result || next
		} else {
			result = result && next
		}
	}
	return result
}

// String renders the chain as a readable expression.
func (c Chain) String() string {
	var b strings.Builder
	for i, l := range c {
		if i > 0 {
			fmt.Fprintf(&b, " %s ", c[i-1].Next)
		}
		p := l.Predicate
		if p.Operator.NeedsValue() {
			fmt.Fprintf(&b, "%s %s %q", p.Column, p.Operator.Label(), p.Value)
		} else {
			fmt.Fprintf(&b, "%s %s", p.Column, p.Operator.Label())
		}
	}
	return b.String()
}

func (c Chain) clone() Chain {
	out := make(Chain, len(c))
	copy(out, c)
	return out
}
