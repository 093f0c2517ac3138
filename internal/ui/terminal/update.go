// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morkalg/MUTHERSHIP/internal/interpreter"
	"github.com/morkalg/MUTHERSHIP/internal/operator"
	"github.com/morkalg/MUTHERSHIP/internal/query"
	"github.com/morkalg/MUTHERSHIP/internal/scenario"
	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// WINDOW
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.layout()
	m.refresh(true)
	return m, nil
}

// layout sizes the viewport and input for the current window.
func (m *Model) layout() {
	mainWidth := m.mainWidth()

	// Header, rule, input and status bar.
	vpHeight := m.height - 4
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = mainWidth
	m.viewport.Height = vpHeight
	m.input.Width = mainWidth - len(m.input.Prompt) - 1
	m.visuals.SetWidth(mainWidth)
	if m.markdown != nil {
		m.markdown.setWidth(mainWidth - 2)
	}
}

// panelWidth is the operator panel width, zero when hidden.
func (m Model) panelWidth() int {
	if !m.showPanel || m.width == 0 {
		return 0
	}
	w := m.width / 3
	if w > 48 {
		w = 48
	}
	return w
}

func (m Model) mainWidth() int {
	w := m.width - m.panelWidth()
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.job != nil {
			m.job.Cancel()
			m.status = "QUERY ABORTED"
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Quit):
		m.cancelJob()
		return m, tea.Quit

	case key.Matches(msg, m.keys.TogglePanel):
		if m.op == nil {
			return m, nil
		}
		m.togglePanel()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastResponse()

	case key.Matches(msg, m.keys.Complete):
		m.complete()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()
	}

	m.idle.RecordActivity()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) togglePanel() {
	m.showPanel = !m.showPanel
	if m.ready {
		m.layout()
		m.refresh(false)
	}
}

// complete expands an operator command prefix in the input.
func (m *Model) complete() {
	if m.op == nil {
		return
	}
	value := m.input.Value()
	if !operator.IsCommand(value) || strings.ContainsAny(value, " \t") {
		return
	}
	matches := m.op.Registry().Complete(value)
	switch len(matches) {
	case 0:
	case 1:
		m.input.SetValue(matches[0] + " ")
		m.input.CursorEnd()
	default:
		m.status = strings.Join(matches, "  ")
	}
}

func (m Model) copyLastResponse() tea.Cmd {
	text, ok := m.sess.LastResponseText()
	if !ok {
		return func() tea.Msg { return copiedMsg{err: session.ErrNoResponse} }
	}
	copyFn := m.copy
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	m.idle.RecordActivity()
	m.status = ""

	// Credentials are taken literally, even when they start with a slash.
	if m.op != nil && m.sess.State().Mode == ship.ModeCommand && operator.IsCommand(line) {
		return m.runOperator(line)
	}

	res, err := m.interp.Handle(line)
	if errors.Is(err, session.ErrBusy) {
		m.status = "QUERY IN PROGRESS"
		return m, nil
	}
	if err != nil {
		m.logger.Error("Input rejected", "error", err)
		return m, nil
	}

	m.syncPrompt()
	if res.Action == interpreter.ActionQuery {
		return m.startQuery(res.Query)
	}
	m.refresh(true)
	return m, nil
}

func (m Model) startQuery(q string) (tea.Model, tea.Cmd) {
	ctx, cancel := context.Background(), context.CancelFunc(func() {})
	if m.queryTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.queryTimeout)
	}

	job, err := m.runner.Start(ctx, q)
	if err != nil {
		cancel()
		m.status = "QUERY IN PROGRESS"
		m.refresh(true)
		return m, nil
	}
	m.job = job
	m.jobCancel = cancel
	m.refresh(true)
	return m, tea.Batch(listen(job), m.spinner.Tick)
}

func (m *Model) cancelJob() {
	if m.job != nil {
		m.job.Cancel()
	}
	if m.jobCancel != nil {
		m.jobCancel()
		m.jobCancel = nil
	}
}

func (m Model) handleQueryEvent(msg queryEventMsg) (tea.Model, tea.Cmd) {
	if msg.closed {
		if msg.job == m.job {
			m.finishJob()
		}
		return m, nil
	}

	query.Apply(m.sess, msg.event)
	if msg.event.Kind == query.EventDone && msg.job == m.job {
		m.finishJob()
	}
	m.refresh(true)
	return m, listen(msg.job)
}

func (m *Model) finishJob() {
	if m.jobCancel != nil {
		m.jobCancel()
	}
	m.job = nil
	m.jobCancel = nil
	m.syncPrompt()
}

// =============================================================================
// OPERATOR
// =============================================================================

func (m Model) runOperator(line string) (tea.Model, tea.Cmd) {
	m.panel.add("> "+strings.TrimSpace(line), false)
	res, err := m.op.Execute(line)
	if err != nil {
		m.panel.add("ERROR: "+err.Error(), true)
		m.refresh(false)
		return m, nil
	}
	for _, l := range res.Lines {
		m.panel.add(l, false)
	}

	switch res.Action {
	case operator.ActionQuit:
		m.cancelJob()
		return m, tea.Quit
	case operator.ActionTogglePanel:
		m.togglePanel()
	case operator.ActionThemeChanged, operator.ActionReloaded:
		m.applyTheme()
	}
	m.syncPrompt()
	m.refresh(res.Action == operator.ActionHistoryCleared)
	return m, nil
}

// =============================================================================
// BACKGROUND EVENTS
// =============================================================================

func (m Model) handleIdleLogout() (tea.Model, tea.Cmd) {
	if m.sess.Busy() {
		return m, nil
	}
	if m.interp.IdleLogout() {
		m.logger.Info("Idle logout")
		m.syncPrompt()
		m.refresh(true)
	}
	return m, nil
}

func (m Model) handleScenarioChanged(msg scenario.ChangedMsg) (tea.Model, tea.Cmd) {
	next := scenario.WaitForChange(m.watcher)

	sc, err := scenario.Load(msg.Path)
	if err == nil {
		err = sc.Apply(m.sess)
	}
	if err != nil {
		m.logger.Warn("Scenario reload failed", "path", msg.Path, "error", err)
		m.panel.add(fmt.Sprintf("RELOAD FAILED: %v", err), true)
		m.refresh(false)
		return m, next
	}

	m.logger.Info("Scenario reloaded", "path", msg.Path)
	m.panel.add(fmt.Sprintf("Reloaded %s: %d logs, %d crew, %d systems",
		msg.Path, len(m.sess.Logs()), len(m.sess.Crew()), len(m.sess.Systems())), false)
	m.applyTheme()
	m.refresh(false)
	return m, next
}
