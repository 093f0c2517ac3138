// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morkalg/MUTHERSHIP/internal/ui/terminal"
)

// runTerminal starts the full-screen terminal.
func runTerminal(ctx context.Context, app *App) error {
	watcher, err := app.Watch()
	if err != nil {
		app.Logger.Warn("Scenario watch unavailable", "error", err)
	}

	cfg := app.Config
	model := terminal.New(terminal.Options{
		Session:      app.Session,
		Interpreter:  app.Interpreter,
		Runner:       app.Runner,
		Operator:     app.Operator,
		Watcher:      watcher,
		Logger:       app.Logger.WithPrefix("ui"),
		Title:        app.Title,
		QueryTimeout: cfg.QueryTimeout(),
		IdleTimeout:  cfg.IdleLogout(),
		ShowPanel:    cfg.UI.ShowOperatorPanel,
		Markdown:     cfg.UI.Markdown,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal failed: %w", err)
	}
	return nil
}

// runPlain starts the line-oriented terminal on stdin and out.
func runPlain(ctx context.Context, app *App, out io.Writer) error {
	reader := newLinerReader()
	defer reader.Close()

	return NewRepl(app, reader, out, TerminalWidth()).Run(ctx)
}
