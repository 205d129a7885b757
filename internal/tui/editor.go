package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fraudscope/internal/rules"
)

type fieldKind int

const (
	fieldName fieldKind = iota
	fieldCategory
	fieldDescription
	fieldColumn
	fieldOperator
	fieldValue
	fieldConnector
	fieldThresholdOp
	fieldThresholdValue
	fieldReAlert
	fieldFrequency
	fieldAction
	fieldActive
)

// editorField is one focusable row of the editor form. filter is the
// predicate index for filter rows.
type editorField struct {
	kind   fieldKind
	filter int
}

func (a *App) openEditor(existing *rules.Rule) tea.Cmd {
	a.editor = rules.NewEditor(existing)
	a.editorFocus = 0
	a.editorErrs = rules.Result{}
	a.saving = false
	a.state = viewEditor
	a.status = ""
	return a.syncEditorInput()
}

func (a *App) closeEditor() {
	a.editor = nil
	a.editorInput.Blur()
	a.state = viewRules
}

func (a *App) editorColumns() []string {
	if a.services.Dataset == nil || a.services.Dataset.Store == nil {
		return nil
	}
	return a.services.Dataset.Store.Columns()
}

func (a *App) editorFields() []editorField {
	d := a.editor.Draft()
	out := []editorField{{kind: fieldName}, {kind: fieldCategory}, {kind: fieldDescription}}
	for i, l := range d.Logic {
		out = append(out, editorField{kind: fieldColumn, filter: i}, editorField{kind: fieldOperator, filter: i})
		if l.Predicate.Operator == "" || l.Predicate.Operator.NeedsValue() {
			out = append(out, editorField{kind: fieldValue, filter: i})
		}
		if i < len(d.Logic)-1 {
			out = append(out, editorField{kind: fieldConnector, filter: i})
		}
	}
	return append(out,
		editorField{kind: fieldThresholdOp},
		editorField{kind: fieldThresholdValue},
		editorField{kind: fieldReAlert},
		editorField{kind: fieldFrequency},
		editorField{kind: fieldAction},
		editorField{kind: fieldActive},
	)
}

func (a *App) focusedField() editorField {
	fields := a.editorFields()
	a.editorFocus = clampIndex(a.editorFocus, len(fields))
	return fields[a.editorFocus]
}

func (a *App) isTextField(f editorField) bool {
	switch f.kind {
	case fieldName, fieldDescription, fieldValue, fieldThresholdValue:
		return true
	case fieldColumn:
		return len(a.editorColumns()) == 0
	}
	return false
}

func (a *App) textValue(f editorField) string {
	d := a.editor.Draft()
	switch f.kind {
	case fieldName:
		return d.Name
	case fieldDescription:
		return d.Description
	case fieldColumn:
		return d.Logic[f.filter].Predicate.Column
	case fieldValue:
		return d.Logic[f.filter].Predicate.Value
	case fieldThresholdValue:
		return d.Threshold.Value
	}
	return ""
}

func (a *App) setTextValue(f editorField, v string) {
	e := a.editor
	switch f.kind {
	case fieldName:
		e.SetName(v)
	case fieldDescription:
		e.SetDescription(v)
	case fieldColumn:
		e.SetFilterColumn(f.filter, v)
	case fieldValue:
		e.SetFilterValue(f.filter, v)
	case fieldThresholdValue:
		e.SetThreshold(e.Draft().Threshold.Operator, v)
	}
}

// syncEditorInput binds the shared text input to the focused field.
func (a *App) syncEditorInput() tea.Cmd {
	f := a.focusedField()
	if !a.isTextField(f) {
		a.editorInput.Blur()
		return nil
	}
	a.editorInput.Prompt = ""
	a.editorInput.SetValue(a.textValue(f))
	a.editorInput.CursorEnd()
	return a.editorInput.Focus()
}

func (a *App) moveEditorFocus(dir int) tea.Cmd {
	n := len(a.editorFields())
	a.editorFocus = (a.editorFocus + dir + n) % n
	return a.syncEditorInput()
}

func (a *App) handleEditorKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.saving {
		return a, nil
	}
	f := a.focusedField()
	switch m.String() {
	case "esc":
		a.closeEditor()
		a.setStatus("Edit cancelled", true)
		return a, nil
	case "ctrl+s":
		a.saving = true
		return a, a.saveRuleCmd()
	case "tab", "down":
		return a, a.moveEditorFocus(1)
	case "shift+tab", "up":
		return a, a.moveEditorFocus(-1)
	case "ctrl+n":
		a.editor.AddFilter()
		return a, nil
	case "ctrl+d":
		a.deleteFocusedFilter(f)
		return a, a.syncEditorInput()
	}

	if a.isTextField(f) {
		var cmd tea.Cmd
		a.editorInput, cmd = a.editorInput.Update(m)
		if v := a.editorInput.Value(); v != a.textValue(f) {
			a.setTextValue(f, v)
		}
		return a, cmd
	}

	switch m.String() {
	case "left", "h":
		a.stepField(f, -1)
	case "right", "l", " ":
		a.stepField(f, 1)
	case "+":
		a.editor.AddFilter()
	case "-":
		a.deleteFocusedFilter(f)
		return a, a.syncEditorInput()
	case "o":
		if f.kind == fieldConnector {
			a.editor.ToggleConnector(f.filter)
		}
	}
	return a, nil
}

func (a *App) deleteFocusedFilter(f editorField) {
	idx := len(a.editor.Draft().Logic) - 1
	switch f.kind {
	case fieldColumn, fieldOperator, fieldValue, fieldConnector:
		idx = f.filter
	}
	if !a.editor.DeleteFilter(idx) {
		a.setStatus("A rule needs at least one filter", false)
		return
	}
	a.editorFocus = clampIndex(a.editorFocus, len(a.editorFields()))
}

// stepField cycles an enumerated field by dir.
func (a *App) stepField(f editorField, dir int) {
	e := a.editor
	d := e.Draft()
	switch f.kind {
	case fieldCategory:
		e.SetCategory(cycle(rules.Categories, d.Category, dir))
	case fieldColumn:
		p := d.Logic[f.filter].Predicate
		e.SetFilterColumn(f.filter, cycle(a.editorColumns(), p.Column, dir))
	case fieldOperator:
		p := d.Logic[f.filter].Predicate
		e.SetFilterOperator(f.filter, cycle(rules.OperatorsForColumn(p.Column), p.Operator, dir))
	case fieldConnector:
		e.ToggleConnector(f.filter)
	case fieldThresholdOp:
		e.SetThreshold(cycle(rules.Comparisons, d.Threshold.Operator, dir), d.Threshold.Value)
	case fieldReAlert:
		s := d.Settings
		s.ReAlertDays = min(max(s.ReAlertDays+dir, rules.MinReAlertDays), rules.MaxReAlertDays)
		e.SetSettings(s)
	case fieldFrequency:
		s := d.Settings
		s.Frequency = cycle(rules.Frequencies, s.Frequency, dir)
		e.SetSettings(s)
	case fieldAction:
		s := d.Settings
		s.Action = cycle(rules.Actions, s.Action, dir)
		e.SetSettings(s)
	case fieldActive:
		e.SetActive(!d.Active)
	}
}

func (a *App) saveRuleCmd() tea.Cmd {
	e := a.editor
	cols := a.editorColumns()
	created := !e.Editing()
	return func() tea.Msg {
		r, res, err := a.services.Rules.Save(a.ctx, e, cols)
		return ruleSavedMsg{rule: r, result: res, created: created, err: err}
	}
}

func (a *App) renderEditor() string {
	if a.editor == nil {
		return ""
	}
	d := a.editor.Draft()
	title := "Create Fraud Detection Rule"
	if a.editor.Editing() {
		title = "Edit Fraud Detection Rule"
	}
	focused := a.focusedField()

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	row := func(f editorField, label, value string) {
		marker := "  "
		if f == focused {
			marker = focusStyle.Render("▶ ")
			if a.isTextField(f) {
				value = a.editorInput.View()
			}
			label = focusStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s%-18s %s\n", marker, label, value)
	}
	fieldErr := func(key string) {
		if msg := a.editorErrs.Message(key); msg != "" {
			b.WriteString("    " + errorStyle.Render(msg) + "\n")
		}
	}
	enum := func(v string) string {
		if v == "" {
			return mutedStyle.Render("‹ select ›")
		}
		return "‹ " + v + " ›"
	}

	b.WriteString("\n" + headerStyle.Render("Rule") + "\n")
	row(editorField{kind: fieldName}, "Name", d.Name)
	fieldErr(rules.FieldName)
	row(editorField{kind: fieldCategory}, "Category", enum(d.Category))
	fieldErr(rules.FieldCategory)
	row(editorField{kind: fieldDescription}, "Description", d.Description)
	fieldErr(rules.FieldDescription)

	b.WriteString("\n" + headerStyle.Render("Filters") + "\n")
	for i, l := range d.Logic {
		p := l.Predicate
		row(editorField{kind: fieldColumn, filter: i}, fmt.Sprintf("%d. Column", i+1), enum(p.Column))
		op := ""
		if p.Operator != "" {
			op = p.Operator.Label()
		}
		row(editorField{kind: fieldOperator, filter: i}, "   Operator", enum(op))
		if p.Operator == "" || p.Operator.NeedsValue() {
			row(editorField{kind: fieldValue, filter: i}, "   Value", p.Value)
		}
		if i < len(d.Logic)-1 {
			row(editorField{kind: fieldConnector, filter: i}, "", enum(string(l.Next)))
		}
	}
	fieldErr(rules.FieldFilters)

	b.WriteString("\n" + headerStyle.Render("Threshold") + "\n")
	row(editorField{kind: fieldThresholdOp}, "Alert when", enum(d.Threshold.Operator.Label()))
	row(editorField{kind: fieldThresholdValue}, "Value", d.Threshold.Value)
	fieldErr(rules.FieldThreshold)

	b.WriteString("\n" + headerStyle.Render("Settings") + "\n")
	row(editorField{kind: fieldReAlert}, "Re-alert (days)", enum(fmt.Sprint(d.Settings.ReAlertDays)))
	row(editorField{kind: fieldFrequency}, "Check frequency", enum(string(d.Settings.Frequency)))
	row(editorField{kind: fieldAction}, "Action", enum(d.Settings.Action.Label()))
	active := "No"
	if d.Active {
		active = "Yes"
	}
	row(editorField{kind: fieldActive}, "Active", enum(active))
	fieldErr(rules.FieldSettings)

	b.WriteString("\n")
	if a.saving {
		b.WriteString(mutedStyle.Render("Saving...") + "\n")
	}
	b.WriteString(helpLine("[tab] Next", "[←/→] Change", "[+/ctrl+n] Add filter", "[-/ctrl+d] Remove filter",
		"[o] AND/OR", "[ctrl+s] Save", "[esc] Cancel"))
	return b.String()
}
