package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fraudscope/internal/tui"
)

func runBrowser(ctx context.Context, e *env) error {
	app := tui.New(ctx, e.cfg, tui.Services{
		Auth:    e.auth,
		Rules:   e.rules,
		Dataset: e.dataset,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
