package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/fraudscope/internal/config"
	"github.com/jask/fraudscope/internal/rules"
	"github.com/jask/fraudscope/internal/service"
	"github.com/jask/fraudscope/internal/table"
)

// App ties together views.
type App struct {
	ctx      context.Context
	services Services
	cfg      config.Config
	state    appState
	modal    modalState
	status   string
	statusOK bool
	width    int

	// login
	userInput textinput.Model
	passInput textinput.Model
	loginErr  string

	// explorer
	session     *table.Session
	loading     bool
	loadErr     error
	searchInput textinput.Model
	searching   bool
	colCursor   int

	// rules
	rules      []rules.Rule
	ruleCursor int

	// editor
	editor      *rules.Editor
	editorFocus int
	editorInput textinput.Model
	editorErrs  rules.Result
	saving      bool
}

// Services are the collaborators the views call.
type Services struct {
	Auth    *service.AuthService
	Rules   *service.RuleService
	Dataset *service.DatasetService
}

type appState string

const (
	viewLogin    appState = "login"
	viewExplorer appState = "explorer"
	viewRules    appState = "rules"
	viewEditor   appState = "editor"
)

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
)

func New(ctx context.Context, cfg config.Config, services Services) *App {
	user := textinput.New()
	user.Prompt = "Username: "
	user.CharLimit = 64
	pass := textinput.New()
	pass.Prompt = "Password: "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search all columns"

	return &App{
		ctx:         ctx,
		services:    services,
		cfg:         cfg,
		state:       viewLogin,
		userInput:   user,
		passInput:   pass,
		searchInput: search,
		editorInput: textinput.New(),
		loading:     true,
	}
}

func (a *App) Init() tea.Cmd {
	return a.checkAuth()
}

func (a *App) checkAuth() tea.Cmd {
	return func() tea.Msg {
		return authCheckedMsg(a.services.Auth.IsAuthenticated(a.ctx))
	}
}

func (a *App) loadData() tea.Cmd {
	return func() tea.Msg {
		return dataLoadedMsg{err: a.services.Dataset.Load(a.ctx)}
	}
}

func (a *App) loadRules() tea.Cmd {
	return func() tea.Msg {
		return rulesMsg(a.services.Rules.LoadRules(a.ctx))
	}
}

// enterApp switches to the explorer after a successful auth check or login.
func (a *App) enterApp() tea.Cmd {
	a.state = viewExplorer
	a.loading = true
	a.loadErr = nil
	return tea.Batch(a.loadData(), a.loadRules())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		return a, nil
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch a.state {
		case viewLogin:
			return a.handleLoginKey(m)
		case viewExplorer:
			return a.handleExplorerKey(m)
		case viewRules:
			return a.handleRulesKey(m)
		case viewEditor:
			return a.handleEditorKey(m)
		}
	case authCheckedMsg:
		if bool(m) {
			return a, a.enterApp()
		}
		a.state = viewLogin
		return a, a.userInput.Focus()
	case loginMsg:
		if m.err != nil {
			a.loginErr = loginErrorText(m.err)
			a.passInput.SetValue("")
			return a, nil
		}
		a.loginErr = ""
		a.userInput.SetValue("")
		a.passInput.SetValue("")
		return a, a.enterApp()
	case logoutMsg:
		if m.err != nil {
			a.setStatus("Failed to log out: "+m.err.Error(), false)
			return a, nil
		}
		a.state = viewLogin
		a.status = ""
		a.passInput.Blur()
		return a, a.userInput.Focus()
	case dataLoadedMsg:
		a.loading = false
		a.loadErr = m.err
		if m.err == nil && a.session == nil {
			a.session = a.services.Dataset.Session()
		}
		if a.session != nil {
			a.colCursor = clampIndex(a.colCursor, len(a.session.Columns()))
		}
	case rulesMsg:
		a.rules = []rules.Rule(m)
		a.ruleCursor = clampIndex(a.ruleCursor, len(a.rules))
	case ruleSavedMsg:
		a.saving = false
		if m.err != nil {
			a.setStatus("Failed to save rule: "+m.err.Error(), false)
			return a, nil
		}
		if !m.result.Valid() {
			a.editorErrs = m.result
			a.setStatus("Please fix the highlighted fields", false)
			return a, nil
		}
		if m.created {
			a.setStatus("Rule created successfully", true)
		} else {
			a.setStatus("Rule updated successfully", true)
		}
		a.closeEditor()
		return a, a.loadRules()
	case statusMsg:
		a.setStatus(m.text, m.ok)
		if m.reload {
			return a, a.loadRules()
		}
	}
	return a, nil
}

func (a *App) setStatus(text string, ok bool) {
	a.status = text
	a.statusOK = ok
}

func (a *App) View() string {
	var body string
	switch a.state {
	case viewLogin:
		return a.renderLogin()
	case viewRules:
		body = a.renderRules()
	case viewEditor:
		body = a.renderEditor()
	default:
		body = a.renderExplorer()
	}
	out := a.renderTabs() + "\n\n" + body
	if a.modal != modalNone {
		out += "\n\n" + a.renderModal()
	}
	if a.status != "" {
		style := errorStyle
		if a.statusOK {
			style = okStyle
		}
		out += "\n" + style.Render(a.status)
	}
	return out
}

func (a *App) renderTabs() string {
	tabs := []struct {
		label string
		on    bool
	}{
		{"Transactions", a.state == viewExplorer},
		{"Rules", a.state == viewRules || a.state == viewEditor},
	}
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t.on {
			parts[i] = activeTabStyle.Render(t.label)
		} else {
			parts[i] = tabStyle.Render(t.label)
		}
	}
	return titleStyle.Render("Fraudscope") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y":
			a.modal = modalNone
			if r, ok := a.selectedRule(); ok {
				return a, a.deleteRuleCmd(r)
			}
		case "n", "N", "esc":
			a.modal = modalNone
		}
	}
	return a, nil
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		name := ""
		if r, ok := a.selectedRule(); ok {
			name = r.Name
		}
		return modalStyle.Render(titleStyle.Render("Delete rule?") + "\n" + name + "\n[y] Yes  [n] No")
	default:
		return ""
	}
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// cycle steps through options from cur by dir, wrapping. An unknown cur
// starts from the first option.
func cycle[T comparable](options []T, cur T, dir int) T {
	if len(options) == 0 {
		return cur
	}
	idx := -1
	for i, o := range options {
		if o == cur {
			idx = i
			break
		}
	}
	if idx < 0 {
		return options[0]
	}
	return options[(idx+dir+len(options))%len(options)]
}

func helpLine(items ...string) string {
	return helpStyle.Render(strings.Join(items, "  "))
}

// messages
type authCheckedMsg bool

type loginMsg struct{ err error }

type logoutMsg struct{ err error }

type dataLoadedMsg struct{ err error }

type rulesMsg []rules.Rule

type ruleSavedMsg struct {
	rule    rules.Rule
	result  rules.Result
	created bool
	err     error
}

type statusMsg struct {
	text   string
	ok     bool
	reload bool
}
