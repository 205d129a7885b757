package rules

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// isoLayout matches JavaScript's Date.toISOString, the format the stored
// rule collection has always used.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// document is the persisted and file shape of a rule: the chain is flattened
// into parallel filters/filterConnectors lists.
type document struct {
	ID               string         `json:"id" yaml:"id,omitempty"`
	Name             string         `json:"name" yaml:"name"`
	Category         string         `json:"category" yaml:"category"`
	Description      string         `json:"description" yaml:"description"`
	Filters          []predicateDoc `json:"filters" yaml:"filters"`
	FilterConnectors []Connector    `json:"filterConnectors" yaml:"filterConnectors"`
	Threshold        thresholdDoc   `json:"threshold" yaml:"threshold"`
	Settings         settingsDoc    `json:"settings" yaml:"settings"`
	Active           bool           `json:"active" yaml:"active"`
	CreatedAt        string         `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt        string         `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type predicateDoc struct {
	Column   string   `json:"column" yaml:"column"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value" yaml:"value"`
}

type thresholdDoc struct {
	Operator Comparison `json:"operator" yaml:"operator"`
	Value    string     `json:"value" yaml:"value"`
}

type settingsDoc struct {
	ReAlertDays int       `json:"reAlertDays" yaml:"reAlertDays"`
	Frequency   Frequency `json:"frequency" yaml:"frequency"`
	Action      Action    `json:"action" yaml:"action"`
}

func toDocument(r Rule) document {
	d := document{
		ID:               r.ID,
		Name:             r.Name,
		Category:         r.Category,
		Description:      r.Description,
		Filters:          make([]predicateDoc, 0, len(r.Logic)),
		FilterConnectors: r.Logic.Connectors(),
		Threshold:        thresholdDoc{Operator: r.Threshold.Operator, Value: r.Threshold.Value},
		Settings: settingsDoc{
			ReAlertDays: r.Settings.ReAlertDays,
			Frequency:   r.Settings.Frequency,
			Action:      r.Settings.Action,
		},
		Active:    r.Active,
		CreatedAt: formatTime(r.CreatedAt),
		UpdatedAt: formatTime(r.UpdatedAt),
	}
	for _, p := range r.Logic.Filters() {
		d.Filters = append(d.Filters, predicateDoc{Column: p.Column, Operator: p.Operator, Value: p.Value})
	}
	return d
}

func fromDocument(d document, strict bool) (Rule, error) {
	filters := make([]Predicate, len(d.Filters))
	for i, f := range d.Filters {
		filters[i] = Predicate{Column: f.Column, Operator: f.Operator, Value: f.Value}
	}
	connectors := d.FilterConnectors
	if !strict {
		connectors = fitConnectors(connectors, len(filters))
	}
	chain, err := ChainFrom(filters, connectors)
	if err != nil {
		return Rule{}, err
	}
	created, err := parseTime(d.CreatedAt)
	if err != nil {
		return Rule{}, fmt.Errorf("createdAt: %w", err)
	}
	updated, err := parseTime(d.UpdatedAt)
	if err != nil {
		return Rule{}, fmt.Errorf("updatedAt: %w", err)
	}
	return Rule{
		ID:          d.ID,
		Name:        d.Name,
		Category:    d.Category,
		Description: d.Description,
		Logic:       chain,
		Threshold:   Threshold{Operator: d.Threshold.Operator, Value: d.Threshold.Value},
		Settings: Settings{
			ReAlertDays: d.Settings.ReAlertDays,
			Frequency:   d.Settings.Frequency,
			Action:      d.Settings.Action,
		},
		Active:    d.Active,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// fitConnectors pads with AND or truncates so stored collections written by
// older editors (which could drop two connectors on one delete) still load.
func fitConnectors(conns []Connector, filters int) []Connector {
	want := max(filters-1, 0)
	out := make([]Connector, 0, want)
	for i := 0; i < want; i++ {
		if i < len(conns) {
			out = append(out, conns[i])
		} else {
			out = append(out, And)
		}
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// MarshalJSON writes the stored rule shape.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(toDocument(r))
}

// UnmarshalJSON reads the stored rule shape, repairing a connector list of
// the wrong length.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	out, err := fromDocument(d, false)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalYAML writes the rule file shape.
func (r Rule) MarshalYAML() (interface{}, error) {
	return toDocument(r), nil
}

// UnmarshalYAML reads a rule file. Omitted threshold operator, settings and
// active flag take the new-draft defaults; the connector count must match
// the filters exactly.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	d := toDocument(NewDraft())
	d.Filters = nil
	if err := node.Decode(&d); err != nil {
		return err
	}
	out, err := fromDocument(d, true)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// EncodeCollection serialises the whole rule collection for storage.
func EncodeCollection(rs []Rule) ([]byte, error) {
	if rs == nil {
		rs = []Rule{}
	}
	return json.Marshal(rs)
}

// DecodeCollection parses a stored rule collection.
func DecodeCollection(data []byte) ([]Rule, error) {
	var rs []Rule
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	if rs == nil {
		rs = []Rule{}
	}
	return rs, nil
}
