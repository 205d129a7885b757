package rules

import (
	"slices"
	"time"
)

// Categories are the rule categories offered by the editor.
var Categories = []string{
	"Transaction Amount",
	"Merchant Analysis",
	"Location Based",
	"User Behavior",
	"Payment Method",
	"Time Based",
	"Custom",
}

// Frequency is how often a rule is checked.
type Frequency string

const (
	Hourly Frequency = "hourly"
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

var Frequencies = []Frequency{Hourly, Daily, Weekly}

// Action is what happens when a rule fires.
type Action string

const EmailNotification Action = "email_notification"

var Actions = []Action{EmailNotification}

var actionLabels = map[Action]string{
	EmailNotification: "Send an email notification",
}

func (a Action) Label() string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return string(a)
}

const (
	MinReAlertDays = 1
	MaxReAlertDays = 30
)

// Threshold is the condition on the analysis result that fires an alert.
// Value is kept as entered; validation requires it to be numeric.
type Threshold struct {
	Operator Comparison
	Value    string
}

// Settings are the notification settings of a rule.
type Settings struct {
	ReAlertDays int
	Frequency   Frequency
	Action      Action
}

// Rule is a named, persisted bundle of a predicate chain, a threshold and
// notification settings.
type Rule struct {
	ID          string
	Name        string
	Category    string
	Description string
	Logic       Chain
	Threshold   Threshold
	Settings    Settings
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDraft returns the blank rule the editor starts from when creating.
func NewDraft() Rule {
	return Rule{
		Logic:     NewChain(),
		Threshold: Threshold{Operator: CmpGreaterThan},
		Settings: Settings{
			ReAlertDays: 7,
			Frequency:   Daily,
			Action:      EmailNotification,
		},
		Active: true,
	}
}

// Clone returns a deep copy of r.
func (r Rule) Clone() Rule {
	r.Logic = slices.Clone(r.Logic)
	return r
}
