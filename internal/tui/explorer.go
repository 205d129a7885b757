package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/fraudscope/internal/table"
)

const maxColumnWidth = 24

func (a *App) statusOptions() []string {
	return []string{"", "pending", a.cfg.Data.DeclinedValue}
}

func (a *App) fraudOptions() []string {
	return []string{"", a.cfg.Data.FraudValue, "0"}
}

func (a *App) handleExplorerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		return a.handleSearchKey(m)
	}
	switch m.String() {
	case "q":
		return a, tea.Quit
	case "tab":
		a.state = viewRules
		return a, nil
	case "L":
		return a, a.logoutCmd()
	case "r":
		if !a.loading {
			a.loading = true
			return a, a.loadData()
		}
		return a, nil
	}
	if a.session == nil {
		return a, nil
	}
	s := a.session
	switch m.String() {
	case "/":
		a.searching = true
		a.searchInput.SetValue(s.Filters().SearchTerm)
		a.searchInput.CursorEnd()
		return a, a.searchInput.Focus()
	case "s":
		s.SetFilter(table.FieldStatus, cycle(a.statusOptions(), s.Filters().StatusFilter, 1))
	case "f":
		s.SetFilter(table.FieldFraud, cycle(a.fraudOptions(), s.Filters().FraudFilter, 1))
	case "1":
		s.QuickFilter(table.QuickClear, "")
	case "2":
		s.QuickFilter(table.FieldFraud, a.cfg.Data.FraudValue)
	case "3":
		s.QuickFilter(table.FieldStatus, a.cfg.Data.DeclinedValue)
	case "c":
		s.ClearFilters()
	case "left", "h":
		if a.colCursor > 0 {
			a.colCursor--
		}
	case "right", "l":
		if a.colCursor < len(s.Columns())-1 {
			a.colCursor++
		}
	case "enter":
		if cols := s.Columns(); len(cols) > 0 {
			s.SortBy(cols[a.colCursor])
		}
	case "n", "pgdown":
		s.NextPage()
	case "p", "pgup":
		s.PrevPage()
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.searching = false
		a.searchInput.Blur()
		a.searchInput.SetValue("")
		a.session.SetFilter(table.FieldSearch, "")
		return a, nil
	case "enter":
		a.searching = false
		a.searchInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(m)
	if v := a.searchInput.Value(); v != a.session.Filters().SearchTerm {
		a.session.SetFilter(table.FieldSearch, v)
	}
	return a, cmd
}

func (a *App) renderExplorer() string {
	if a.loadErr != nil {
		return errorBoxStyle.Render("Failed to load transactions\n"+a.loadErr.Error()) +
			"\n\n" + helpLine("[r] Retry", "[tab] Rules", "[q] Quit")
	}
	if a.loading || a.session == nil {
		return mutedStyle.Render("Loading transactions...")
	}
	s := a.session
	var b strings.Builder
	b.WriteString(a.renderStatCards())
	b.WriteString("\n")
	b.WriteString(a.renderFilterBar())
	b.WriteString("\n\n")

	view := s.View()
	if len(view.Page.Items) == 0 {
		b.WriteString(mutedStyle.Render("No data available"))
	} else {
		b.WriteString(a.renderTable(view.Page.Items))
	}
	b.WriteString("\n\n")
	footer := view.Page.Summary()
	if view.Page.TotalPages > 0 {
		footer += fmt.Sprintf("  ·  Page %d of %d", view.Page.Number, view.Page.TotalPages)
	}
	b.WriteString(mutedStyle.Render(footer))
	b.WriteString("\n")
	b.WriteString(helpLine("[/] Search", "[s] Status", "[f] Fraud", "[1-3] Quick filter", "[c] Clear",
		"[←/→] Column", "[enter] Sort", "[n/p] Page", "[tab] Rules", "[L] Logout", "[q] Quit"))
	return b.String()
}

func (a *App) renderStatCards() string {
	st := a.session.Stats()
	f := a.session.Filters()
	active := 0
	switch {
	case f.FraudFilter == a.cfg.Data.FraudValue && f.StatusFilter == "" && f.SearchTerm == "":
		active = 1
	case f.StatusFilter == a.cfg.Data.DeclinedValue && f.FraudFilter == "" && f.SearchTerm == "":
		active = 2
	case !f.IsEmpty():
		active = -1
	}
	cards := []struct{ label, value string }{
		{"[1] Total Transactions", st.Total},
		{"[2] Fraud Cases", st.FraudCount},
		{"[3] Declined", st.DeclinedCount},
		{"Fraud Rate", st.FraudRate},
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		style := cardStyle
		if i == active {
			style = activeCardStyle
		}
		value := lipgloss.NewStyle().Bold(true).Foreground(cardColors[i]).Render(c.value)
		rendered[i] = style.Render(cardLabelStyle.Render(c.label) + "\n" + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (a *App) renderFilterBar() string {
	f := a.session.Filters()
	search := f.SearchTerm
	if a.searching {
		search = a.searchInput.View()
	} else if search == "" {
		search = mutedStyle.Render("(none)")
	}
	label := func(v string) string {
		if v == "" {
			return "All"
		}
		return v
	}
	return fmt.Sprintf("Search: %s   Status: %s   Fraud: %s", search, label(f.StatusFilter), label(f.FraudFilter))
}

func (a *App) renderTable(rows []table.Record) string {
	cols := a.session.Columns()
	sortCfg := a.session.SortConfig()

	headers := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		h := table.HeaderName(c)
		if c == sortCfg.Column {
			if sortCfg.Direction == table.Desc {
				h += " ▼"
			} else {
				h += " ▲"
			}
		}
		headers[i] = h
		widths[i] = lipgloss.Width(h)
	}
	cells := make([][]string, len(rows))
	for r, rec := range rows {
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			cells[r][i] = table.CellText(c, rec.Get(c))
			widths[i] = max(widths[i], lipgloss.Width(cells[r][i]))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}

	var b strings.Builder
	for i, h := range headers {
		style := headerStyle
		if i == a.colCursor {
			style = selectedHeaderStyle
		}
		b.WriteString(style.Width(widths[i]).MaxWidth(widths[i]).Render(h))
		b.WriteString("  ")
	}
	for _, row := range cells {
		b.WriteString("\n")
		for i, cell := range row {
			b.WriteString(lipgloss.NewStyle().Width(widths[i]).MaxWidth(widths[i]).Render(cell))
			b.WriteString("  ")
		}
	}
	return b.String()
}
