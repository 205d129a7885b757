package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fraudscope/internal/service"
)

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		return a, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if a.userInput.Focused() {
			a.userInput.Blur()
			return a, a.passInput.Focus()
		}
		a.passInput.Blur()
		return a, a.userInput.Focus()
	case "enter":
		if a.userInput.Focused() {
			a.userInput.Blur()
			return a, a.passInput.Focus()
		}
		user := strings.TrimSpace(a.userInput.Value())
		pass := a.passInput.Value()
		if user == "" || pass == "" {
			a.loginErr = "Username and password are required"
			return a, nil
		}
		return a, a.loginCmd(user, pass)
	}
	var cmd tea.Cmd
	if a.passInput.Focused() {
		a.passInput, cmd = a.passInput.Update(m)
	} else {
		a.userInput, cmd = a.userInput.Update(m)
	}
	return a, cmd
}

func (a *App) loginCmd(user, pass string) tea.Cmd {
	return func() tea.Msg {
		return loginMsg{err: a.services.Auth.Login(a.ctx, user, pass)}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return logoutMsg{err: a.services.Auth.Logout(a.ctx)}
	}
}

func loginErrorText(err error) string {
	if errors.Is(err, service.ErrInvalidCredentials) {
		return "Invalid username or password"
	}
	return "Login failed: " + err.Error()
}

func (a *App) renderLogin() string {
	lines := []string{
		titleStyle.Render("Fraudscope") + mutedStyle.Render("  transaction review"),
		"",
		a.userInput.View(),
		a.passInput.View(),
	}
	if a.loginErr != "" {
		lines = append(lines, "", errorStyle.Render(a.loginErr))
	}
	lines = append(lines, "", helpLine("[enter] Sign in", "[tab] Next field", "[esc] Quit"))
	return strings.Join(lines, "\n")
}
