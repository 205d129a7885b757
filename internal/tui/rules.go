package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fraudscope/internal/rules"
)

func (a *App) selectedRule() (rules.Rule, bool) {
	if a.ruleCursor < 0 || a.ruleCursor >= len(a.rules) {
		return rules.Rule{}, false
	}
	return a.rules[a.ruleCursor], true
}

func (a *App) handleRulesKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "tab":
		a.state = viewExplorer
	case "L":
		return a, a.logoutCmd()
	case "r":
		return a, a.loadRules()
	case "up", "k":
		if a.ruleCursor > 0 {
			a.ruleCursor--
		}
	case "down", "j":
		if a.ruleCursor < len(a.rules)-1 {
			a.ruleCursor++
		}
	case "a":
		return a, a.openEditor(nil)
	case "e", "enter":
		if r, ok := a.selectedRule(); ok {
			return a, a.openEditor(&r)
		}
	case "d":
		if r, ok := a.selectedRule(); ok {
			return a, a.duplicateRuleCmd(r)
		}
	case "x":
		if _, ok := a.selectedRule(); ok {
			a.modal = modalConfirmDelete
		}
	case " ":
		if r, ok := a.selectedRule(); ok {
			return a, a.toggleRuleCmd(r)
		}
	}
	return a, nil
}

func (a *App) deleteRuleCmd(r rules.Rule) tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Rules.Delete(a.ctx, r.ID); err != nil {
			return statusMsg{text: "Failed to delete rule: " + err.Error()}
		}
		return statusMsg{text: "Rule deleted successfully", ok: true, reload: true}
	}
}

func (a *App) duplicateRuleCmd(r rules.Rule) tea.Cmd {
	return func() tea.Msg {
		if _, err := a.services.Rules.Duplicate(a.ctx, r.ID); err != nil {
			return statusMsg{text: "Failed to duplicate rule: " + err.Error()}
		}
		return statusMsg{text: "Rule duplicated successfully", ok: true, reload: true}
	}
}

func (a *App) toggleRuleCmd(r rules.Rule) tea.Cmd {
	return func() tea.Msg {
		out, err := a.services.Rules.SetActive(a.ctx, r.ID, !r.Active)
		if err != nil {
			return statusMsg{text: "Failed to update rule: " + err.Error()}
		}
		state := "deactivated"
		if out.Active {
			state = "activated"
		}
		return statusMsg{text: fmt.Sprintf("Rule %s", state), ok: true, reload: true}
	}
}

func (a *App) renderRules() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Fraud Detection Rules"))
	b.WriteString("\n\n")
	if len(a.rules) == 0 {
		b.WriteString(mutedStyle.Render("No rules yet. Press [a] to create one."))
	}
	for i, r := range a.rules {
		marker := "  "
		if i == a.ruleCursor {
			marker = focusStyle.Render("▶ ")
		}
		state := okStyle.Render("● Active")
		if !r.Active {
			state = mutedStyle.Render("○ Inactive")
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", marker, focusOrPlain(i == a.ruleCursor, r.Name), mutedStyle.Render("["+r.Category+"]"), state)
		fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(r.Logic.String()))
		fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(fmt.Sprintf("Alert when %s %s · every %d days · %s",
			strings.ToLower(r.Threshold.Operator.Label()), r.Threshold.Value, r.Settings.ReAlertDays, r.Settings.Frequency)))
	}
	b.WriteString("\n")
	b.WriteString(helpLine("[a] New", "[e] Edit", "[d] Duplicate", "[x] Delete", "[space] Toggle active",
		"[tab] Transactions", "[q] Quit"))
	return b.String()
}

func focusOrPlain(focused bool, s string) string {
	if focused {
		return focusStyle.Render(s)
	}
	return s
}
