package rules

// Editor holds the rule being authored. It starts from a blank draft when
// creating, or from a copy of an existing rule when editing; the original is
// never modified.
type Editor struct {
	draft   Rule
	editing bool
}

// NewEditor starts an editor. A nil existing rule means "create new".
func NewEditor(existing *Rule) *Editor {
	if existing == nil {
		return &Editor{draft: NewDraft()}
	}
	d := existing.Clone()
	if len(d.Logic) == 0 {
		d.Logic = NewChain()
	}
	return &Editor{draft: d, editing: true}
}

// Draft returns a copy of the rule as currently edited.
func (e *Editor) Draft() Rule { return e.draft.Clone() }

// Editing reports whether the editor is updating an existing rule.
func (e *Editor) Editing() bool { return e.editing }

// ID is the id of the rule being edited, or "" when creating.
func (e *Editor) ID() string {
	if !e.editing {
		return ""
	}
	return e.draft.ID
}

func (e *Editor) SetName(v string) { e.draft.Name = v }
func (e *Editor) SetCategory(v string) { e.draft.Category = v }
func (e *Editor) SetDescription(v string) { e.draft.Description = v }
func (e *Editor) SetActive(v bool) { e.draft.Active = v }

// AddFilter appends a blank predicate joined with AND.
func (e *Editor) AddFilter() { e.draft.Logic = e.draft.Logic.Append() }

// UpdateFilter replaces predicate i.
func (e *Editor) UpdateFilter(i int, p Predicate) { e.draft.Logic = e.draft.Logic.Update(i, p) }

// SetFilterColumn picks a column for predicate i. The operator and value are
// reset because the operator set depends on the column.
func (e *Editor) SetFilterColumn(i int, column string) {
	e.UpdateFilter(i, Predicate{Column: column})
}

// SetFilterOperator sets the operator of predicate i, keeping its value.
func (e *Editor) SetFilterOperator(i int, op Operator) {
	if i < 0 || i >= len(e.draft.Logic) {
		return
	}
	p := e.draft.Logic[i].Predicate
	p.Operator = op
	e.UpdateFilter(i, p)
}

// SetFilterValue sets the value of predicate i.
func (e *Editor) SetFilterValue(i int, value string) {
	if i < 0 || i >= len(e.draft.Logic) {
		return
	}
	p := e.draft.Logic[i].Predicate
	p.Value = value
	e.UpdateFilter(i, p)
}

// DeleteFilter removes predicate i. It refuses to remove the last remaining
// predicate and reports whether anything was removed.
func (e *Editor) DeleteFilter(i int) bool {
	next, ok := e.draft.Logic.Delete(i)
	e.draft.Logic = next
	return ok
}

// SetConnector sets the connector between predicates i and i+1.
func (e *Editor) SetConnector(i int, c Connector) {
	e.draft.Logic = e.draft.Logic.SetConnector(i, c)
}

// ToggleConnector flips the connector between predicates i and i+1.
func (e *Editor) ToggleConnector(i int) {
	if i < 0 || i >= len(e.draft.Logic)-1 {
		return
	}
	if e.draft.Logic[i].Next == Or {
		e.SetConnector(i, And)
	} else {
		e.SetConnector(i, Or)
	}
}

func (e *Editor) SetThreshold(op Comparison, value string) {
	e.draft.Threshold = Threshold{Operator: op, Value: value}
}

func (e *Editor) SetSettings(s Settings) { e.draft.Settings = s }

// Validate checks the draft against the dataset columns.
func (e *Editor) Validate(columns []string) Result {
	return Validate(e.draft, columns)
}
