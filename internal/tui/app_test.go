package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/fraudscope/internal/config"
	"github.com/jask/fraudscope/internal/database/repository"
	"github.com/jask/fraudscope/internal/errs"
	"github.com/jask/fraudscope/internal/service"
	"github.com/jask/fraudscope/internal/table"
)

type stubLoader struct {
	recs []table.Record
	err  error
}

func (s stubLoader) Load(context.Context) ([]table.Record, error) { return s.recs, s.err }

func testRecords() []table.Record {
	cols := []string{"transaction_id", "charged_amount", "state", "fraud", "merchant_name"}
	return []table.Record{
		table.NewRecord(cols, []string{"1", "150.00", "declined", "1", "Coffee Shop"}),
		table.NewRecord(cols, []string{"2", "50.00", "declined", "0", "Book Store"}),
		table.NewRecord(cols, []string{"3", "9.99", "pending", "1", "coffee roasters"}),
		table.NewRecord(cols, []string{"4", "1200.00", "completed", "0", "Airline"}),
	}
}

func testConfig() config.Config {
	return config.Config{Data: config.DataConfig{
		PageSize:      50,
		StatusColumn:  "state",
		FraudColumn:   "fraud",
		FraudValue:    "1",
		DeclinedValue: "declined",
	}}
}

func newTestApp(t *testing.T, loader service.RecordLoader) *App {
	t.Helper()
	store := repository.NewMemoryStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("yesiwill"), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := service.NewAuthService(store, "test", string(hash), nil)
	require.NoError(t, err)
	return New(context.Background(), testConfig(), Services{
		Auth:    auth,
		Rules:   &service.RuleService{Store: store},
		Dataset: &service.DatasetService{Loader: loader, Store: table.NewStore()},
	})
}

// run executes cmd and feeds its messages back through Update. Only use it
// for commands that return promptly (not cursor blinks).
func run(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			run(a, c)
		}
		return
	}
	_, next := a.Update(msg)
	run(a, next)
}

func press(a *App, key tea.KeyMsg) tea.Cmd {
	_, cmd := a.Update(key)
	return cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func typeText(a *App, s string) {
	for _, r := range s {
		press(a, runes(string(r)))
	}
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// signedIn returns an app past the login gate with data and rules loaded.
func signedIn(t *testing.T, loader service.RecordLoader) *App {
	t.Helper()
	a := newTestApp(t, loader)
	require.NoError(t, a.services.Auth.Login(context.Background(), "test", "yesiwill"))
	run(a, a.Init())
	require.Equal(t, viewExplorer, a.state)
	return a
}

func TestLoginFlow(t *testing.T) {
	a := newTestApp(t, stubLoader{recs: testRecords()})
	_, _ = a.Update(authCheckedMsg(false))
	require.Equal(t, viewLogin, a.state)
	require.Contains(t, a.View(), "Username")

	typeText(a, "test")
	press(a, keyEnter)
	typeText(a, "nope")
	run(a, press(a, keyEnter))
	require.Equal(t, viewLogin, a.state)
	require.Contains(t, a.View(), "Invalid username or password")

	typeText(a, "yesiwill")
	run(a, press(a, keyEnter))
	require.Equal(t, viewExplorer, a.state)
	require.True(t, a.services.Auth.IsAuthenticated(context.Background()))
	require.Contains(t, a.View(), "Total Transactions")
	require.Contains(t, a.View(), "Showing 1 to 4 of 4 results")

	run(a, press(a, runes("L")))
	require.Equal(t, viewLogin, a.state)
	require.False(t, a.services.Auth.IsAuthenticated(context.Background()))
}

func TestExplorerFilters(t *testing.T) {
	a := signedIn(t, stubLoader{recs: testRecords()})
	s := a.session

	press(a, runes("2"))
	require.Equal(t, "1", s.Filters().FraudFilter)
	require.Contains(t, a.View(), "Showing 1 to 2 of 2 results")

	press(a, runes("3"))
	require.Equal(t, table.FilterState{StatusFilter: "declined"}, s.Filters())

	press(a, runes("f"))
	require.Equal(t, "1", s.Filters().FraudFilter)
	require.Contains(t, a.View(), "Showing 1 to 1 of 1 results")

	press(a, runes("c"))
	require.True(t, s.Filters().IsEmpty())

	press(a, runes("/"))
	typeText(a, "coffee")
	require.Equal(t, "coffee", s.Filters().SearchTerm)
	press(a, keyEnter)
	require.False(t, a.searching)
	require.Contains(t, a.View(), "Showing 1 to 2 of 2 results")

	press(a, runes("1"))
	require.True(t, s.Filters().IsEmpty())
}

func TestExplorerSort(t *testing.T) {
	a := signedIn(t, stubLoader{recs: testRecords()})
	press(a, runes("l"))
	press(a, keyEnter)
	require.Equal(t, table.SortConfig{Column: "charged_amount", Direction: table.Asc}, a.session.SortConfig())
	rows := a.session.View().Rows
	require.Equal(t, "9.99", rows[0].Get("charged_amount"))

	press(a, keyEnter)
	require.Equal(t, table.Desc, a.session.SortConfig().Direction)
	require.Equal(t, "1200.00", a.session.View().Rows[0].Get("charged_amount"))
	require.Contains(t, a.View(), "Charged Amount ▼")
}

func TestExplorerLoadFailure(t *testing.T) {
	a := signedIn(t, stubLoader{err: errs.Network("GET data.csv", errors.New("connection refused"))})
	require.Contains(t, a.View(), "Failed to load transactions")
	require.Contains(t, a.View(), "connection refused")

	a.services.Dataset.Loader = stubLoader{recs: testRecords()}
	run(a, press(a, runes("r")))
	require.NoError(t, a.loadErr)
	require.Contains(t, a.View(), "Showing 1 to 4 of 4 results")
}

func TestExplorerEmptyDataset(t *testing.T) {
	a := signedIn(t, stubLoader{recs: []table.Record{}})
	require.Contains(t, a.View(), "No data available")
}

func TestRuleEditorLifecycle(t *testing.T) {
	a := signedIn(t, stubLoader{recs: testRecords()})
	ctx := context.Background()

	press(a, keyTab)
	require.Equal(t, viewRules, a.state)
	require.Contains(t, a.View(), "No rules yet")

	press(a, runes("a"))
	require.Equal(t, viewEditor, a.state)
	run(a, press(a, keySave))
	require.Equal(t, viewEditor, a.state)
	require.Contains(t, a.View(), "Name is required")
	require.Contains(t, a.View(), "All filters must be complete")

	typeText(a, "Declined coffee")
	press(a, keyTab) // category
	press(a, runes("l"))
	press(a, keyTab) // description
	typeText(a, "Coffee merchants with declines")
	press(a, keyTab) // column
	press(a, runes("l"))
	press(a, keyTab) // operator
	press(a, runes("l"))
	press(a, keyTab) // value
	typeText(a, "1")
	press(a, keyTab) // threshold operator
	press(a, keyTab) // threshold value
	typeText(a, "5")

	run(a, press(a, keySave))
	require.Equal(t, viewRules, a.state)
	require.Contains(t, a.View(), "Rule created successfully")
	require.Len(t, a.rules, 1)
	r := a.rules[0]
	require.Equal(t, "Declined coffee", r.Name)
	require.Equal(t, "Transaction Amount", r.Category)
	require.Equal(t, "transaction_id", r.Logic[0].Predicate.Column)
	require.Equal(t, "5", r.Threshold.Value)

	run(a, press(a, runes("d")))
	require.Len(t, a.rules, 2)
	require.Equal(t, "Declined coffee (Copy)", a.rules[1].Name)

	run(a, press(a, tea.KeyMsg{Type: tea.KeySpace}))
	require.False(t, a.rules[0].Active)

	press(a, runes("x"))
	require.Equal(t, modalConfirmDelete, a.modal)
	run(a, press(a, runes("y")))
	require.Len(t, a.rules, 1)
	require.Len(t, a.services.Rules.LoadRules(ctx), 1)
	require.Contains(t, a.View(), "Rule deleted successfully")

	press(a, runes("e"))
	require.Equal(t, viewEditor, a.state)
	require.True(t, a.editor.Editing())
	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, viewRules, a.state)
}

func TestEditorFilterRows(t *testing.T) {
	a := signedIn(t, stubLoader{recs: testRecords()})
	press(a, keyTab)
	press(a, runes("a"))

	press(a, tea.KeyMsg{Type: tea.KeyCtrlN})
	press(a, tea.KeyMsg{Type: tea.KeyCtrlN})
	require.Len(t, a.editor.Draft().Logic, 3)

	// focus the first connector: name, category, description, column, operator, value, connector
	for i := 0; i < 6; i++ {
		press(a, keyTab)
	}
	require.Equal(t, editorField{kind: fieldConnector, filter: 0}, a.focusedField())
	press(a, runes("o"))
	require.Equal(t, "OR", string(a.editor.Draft().Logic[0].Next))

	press(a, runes("-"))
	d := a.editor.Draft()
	require.Len(t, d.Logic, 2)
	require.Len(t, d.Logic.Connectors(), 1)

	press(a, tea.KeyMsg{Type: tea.KeyCtrlD})
	press(a, tea.KeyMsg{Type: tea.KeyCtrlD})
	require.Len(t, a.editor.Draft().Logic, 1)
	require.Contains(t, a.View(), "A rule needs at least one filter")
}

func TestCycle(t *testing.T) {
	opts := []string{"", "a", "b"}
	require.Equal(t, "a", cycle(opts, "", 1))
	require.Equal(t, "", cycle(opts, "b", 1))
	require.Equal(t, "b", cycle(opts, "", -1))
	require.Equal(t, "", cycle(opts, "zzz", 1))
}
