// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package visual

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/ui/styles"
	"github.com/morkalg/MUTHERSHIP/internal/util"
)

// =============================================================================
// DIAGNOSTIC
// =============================================================================

const (
	// NotFoundText replaces a panel whose system does not exist.
	NotFoundText = "[SYSTEM NOT FOUND]"

	footerLeft  = "DIAGNOSTIC COMPLETE."
	footerRight = "INTEGRITY VERIFIED."

	// DefaultWidth is the inner width of a panel in cells.
	DefaultWidth = 44
)

// Lookup resolves system names; *session.Session satisfies it.
type Lookup interface {
	SystemByName(name string) (ship.ShipSystem, bool)
}

// Diagnostic is a visual tag resolved against the ship's systems.
type Diagnostic struct {
	Name   string
	System ship.ShipSystem
	Found  bool
}

// Diagnose resolves name at render time, so status edits show up on
// panels already in the scrollback.
func Diagnose(systems Lookup, name string) Diagnostic {
	d := Diagnostic{Name: ship.Normalize(name)}
	if systems != nil && d.Name != "" {
		d.System, d.Found = systems.SystemByName(name)
	}
	return d
}

// =============================================================================
// PLAIN TEXT
// =============================================================================

// Lines lays the panel out as unstyled text of exactly width cells per line.
func Lines(d Diagnostic, width, frame int) []string {
	if !d.Found {
		return []string{NotFoundText}
	}
	if width < minWidth {
		width = minWidth
	}

	status := d.System.Status
	blank := strings.Repeat(" ", width)
	lines := append(headerRows(d, width), strings.Repeat("-", width), blank)
	lines = append(lines, centerBlock(Figure(GlyphFor(d.Name), status, frame, d.Name), width)...)
	lines = append(lines,
		blank,
		integrityBar(status, width),
		spread(footerLeft, footerRight, width),
	)
	return lines
}

// Plain renders the panel inside an ASCII border for line mode.
func Plain(d Diagnostic, width, frame int) string {
	lines := Lines(d, width, frame)
	if !d.Found {
		bar := "+" + strings.Repeat("-", util.Width(NotFoundText)+2) + "+"
		return bar + "\n| " + NotFoundText + " |\n" + bar
	}
	inner := util.Width(lines[0])
	edge := "+" + strings.Repeat("-", inner+2) + "+"

	var sb strings.Builder
	sb.WriteString(edge)
	sb.WriteByte('\n')
	for _, l := range lines {
		sb.WriteString("| ")
		sb.WriteString(util.PadRight(l, inner))
		sb.WriteString(" |\n")
	}
	sb.WriteString(edge)
	return sb.String()
}

// centerBlock indents every line by the same amount so figures keep their
// shape.
func centerBlock(block []string, width int) []string {
	widest := 0
	for _, l := range block {
		if w := util.Width(l); w > widest {
			widest = w
		}
	}
	indent := ""
	if widest < width {
		indent = strings.Repeat(" ", (width-widest)/2)
	}
	out := make([]string, len(block))
	for i, l := range block {
		out[i] = util.PadRight(util.Truncate(indent+l, width), width)
	}
	return out
}

func header(d Diagnostic) string {
	return "SYSTEM: " + d.Name
}

func statusLabel(status ship.Status) string {
	return "STATUS: " + status.String()
}

// headerRows keeps name and status on one row when both fit. Otherwise the
// status moves to a second row so the name is never cut for it.
func headerRows(d Diagnostic, width int) []string {
	name, label := header(d), statusLabel(d.System.Status)
	if util.Width(name)+1+util.Width(label) <= width {
		return []string{spread(name, label, width)}
	}
	return []string{
		util.PadRight(util.Truncate(name, width), width),
		spread("", label, width),
	}
}

// spread puts left and right at opposite edges, truncating left if needed.
func spread(left, right string, width int) string {
	room := width - util.Width(right) - 1
	if room < 1 {
		return util.Truncate(right, width)
	}
	left = util.Truncate(left, room)
	return left + strings.Repeat(" ", width-util.Width(left)-util.Width(right)) + right
}

func integrityBar(status ship.Status, width int) string {
	pct := Integrity(status)
	label := fmt.Sprintf(" %3.0f%%", pct)
	barWidth := width - 2 - len(label)
	return "[" + styles.RenderProgressBar(barWidth, pct) + "]" + label
}

// =============================================================================
// STYLED
// =============================================================================

// minWidth is the narrowest panel Lines will lay out.
const minWidth = 24

// Renderer draws panels with the terminal theme.
type Renderer struct {
	theme *styles.Theme
	width int
}

// NewRenderer creates a renderer with the default width.
func NewRenderer(theme *styles.Theme) *Renderer {
	return &Renderer{theme: theme, width: DefaultWidth}
}

// SetTheme swaps the theme after a /theme change.
func (r *Renderer) SetTheme(theme *styles.Theme) {
	r.theme = theme
}

// SetWidth fits panels to the available width, capped at DefaultWidth.
func (r *Renderer) SetWidth(available int) {
	// Border and padding take six cells.
	w := available - 6
	if w > DefaultWidth {
		w = DefaultWidth
	}
	if w < minWidth {
		w = minWidth
	}
	r.width = w
}

// Width returns the inner panel width.
func (r *Renderer) Width() int {
	return r.width
}

// Render draws one frame of the panel.
func (r *Renderer) Render(d Diagnostic, frame int) string {
	t := r.theme
	if !d.Found {
		return t.NotFound.Render(NotFoundText)
	}

	lines := Lines(d, r.width, frame)
	status := d.System.Status
	rows := len(headerRows(d, r.width))

	var styled []string
	for _, row := range lines[:rows] {
		styled = append(styled, r.headerRow(row, status))
	}
	styled = append(styled, t.Rule.Render(lines[rows]))

	glyph := t.VisualGlyph
	if status == ship.StatusOffline {
		glyph = t.Dim
	} else if status == ship.StatusCritical {
		glyph = glyph.Foreground(styles.StatusAlert)
	}
	last := len(lines) - 1
	for _, l := range lines[rows+1 : last-1] {
		styled = append(styled, glyph.Render(l))
	}
	styled = append(styled,
		t.StatusStyle(status.String()).Render(lines[last-1]),
		t.VisualFooter.Render(lines[last]),
	)

	return t.VisualBox.Render(lipgloss.JoinVertical(lipgloss.Left, styled...))
}

func (r *Renderer) headerRow(row string, status ship.Status) string {
	t := r.theme
	label := statusLabel(status)
	if !strings.HasSuffix(row, label) {
		return t.VisualTitle.Render(row)
	}
	left := strings.TrimRight(strings.TrimSuffix(row, label), " ")
	gap := util.Width(row) - util.Width(left) - util.Width(label)
	return t.VisualTitle.Render(left) + strings.Repeat(" ", gap) + t.StatusStyle(status.String()).Render(label)
}

// =============================================================================
// ANIMATION
// =============================================================================

// FrameInterval is the delay between diagnostic animation frames.
const FrameInterval = 250 * time.Millisecond

// FrameMsg advances diagnostic animations by one frame.
type FrameMsg time.Time

// Tick schedules the next FrameMsg.
func Tick() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}
