// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morkalg/MUTHERSHIP/internal/query"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/ui/styles"
	"github.com/morkalg/MUTHERSHIP/internal/util"
	"github.com/morkalg/MUTHERSHIP/internal/visual"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the terminal.
func (m Model) View() string {
	if !m.ready {
		return "\n  INITIALIZING INTERFACE..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatus(),
	)
	if m.panelWidth() == 0 {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderPanel())
}

func (m Model) renderHeader() string {
	w := m.mainWidth()
	left := m.title
	right := "INTERFACE 2037"
	if role := m.sess.Role(); role != "" {
		right = "ACCESS: " + role
	}
	gap := w - util.Width(left) - util.Width(right)
	if gap < 1 {
		gap = 1
	}
	head := m.theme.Header.Render(left + strings.Repeat(" ", gap) + right)
	return head + "\n" + m.theme.Rule.Render(styles.Scanline(w))
}

func (m Model) renderInput() string {
	if m.job != nil {
		return m.theme.Spinner.Render(m.spinner.View() + " PROCESSING...")
	}
	return m.input.View()
}

func (m Model) renderStatus() string {
	t := m.theme
	parts := []string{t.StatusKey.Render(m.runner.Client().Name())}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		if m.op == nil && h.Key == m.keys.TogglePanel.Help().Key {
			continue
		}
		parts = append(parts, t.StatusKey.Render(h.Key)+" "+h.Desc)
	}
	return t.StatusBar.Render(util.Truncate(strings.Join(parts, "  "), m.mainWidth()))
}

func (m Model) renderPanel() string {
	t := m.theme
	pw := m.panelWidth()
	inner := pw - 4
	if inner < 8 {
		inner = 8
	}

	var body []string
	for _, l := range m.panel.lines {
		style := lipgloss.NewStyle()
		if l.err {
			style = t.PanelError
		}
		for _, w := range util.Wrap(l.text, inner) {
			body = append(body, style.Render(w))
		}
	}

	// Border and title take three rows.
	room := m.height - 3
	if room < 1 {
		room = 1
	}
	if len(body) > room {
		body = body[len(body)-room:]
	}

	content := t.PanelTitle.Render("OPERATOR") + "\n" + strings.Join(body, "\n")
	return t.Panel.Width(pw - 2).Height(m.height - 2).Render(content)
}

// =============================================================================
// SCROLLBACK
// =============================================================================

// refresh redraws the scrollback into the viewport.
func (m *Model) refresh(gotoBottom bool) {
	m.viewport.SetContent(m.renderHistory())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderHistory() string {
	history := m.sess.History()
	var blocks []string
	for i, e := range history {
		streaming := m.job != nil && i == len(history)-1
		if s, ok := m.renderEntry(e, streaming); ok {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n")
}

// renderEntry draws one entry. Empty responses draw nothing.
func (m Model) renderEntry(e ship.TerminalEntry, streaming bool) (string, bool) {
	t := m.theme
	width := m.mainWidth() - 2

	switch {
	case e.Kind == ship.EntryCommand:
		return t.Prompt.Render(e.Prompt) + " " + t.Command.Render(e.Text), true

	case e.HasVisual():
		return m.visuals.Render(visual.Diagnose(m.sess, e.Visual), m.frame), true

	case e.Text == "":
		return "", false

	case strings.HasPrefix(e.Text, query.ErrorPrefix):
		return t.Error.Render(strings.Join(util.Wrap(e.Text, width), "\n")), true
	}

	if m.markdown != nil && !streaming {
		if out, ok := m.markdown.render(e.Text); ok {
			return out, true
		}
	}
	return t.Response.Render(strings.Join(util.Wrap(e.Text, width), "\n")), true
}
