// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME REGISTRY
// =============================================================================

// DefaultTheme is the theme key used when none is configured.
const DefaultTheme = "blue"

// Palette is the pair of phosphor colors a theme key maps to.
type Palette struct {
	Name string

	// Primary tints body text, the prompt and borders.
	Primary lipgloss.AdaptiveColor

	// Accent tints headers, the spinner and highlighted values.
	Accent lipgloss.AdaptiveColor
}

var palettes = map[string]Palette{
	"blue":   {Name: "blue", Primary: Blue300, Accent: Blue500},
	"green":  {Name: "green", Primary: Green400, Accent: Green500},
	"orange": {Name: "orange", Primary: Orange400, Accent: Orange500},
}

// ThemeNames lists the registered theme keys in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTheme reports whether name is a registered theme key.
func HasTheme(name string) bool {
	_, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Lookup returns the palette for name, falling back to the default theme.
func Lookup(name string) (Palette, bool) {
	p, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return palettes[DefaultTheme], false
	}
	return p, true
}

// =============================================================================
// THEME
// =============================================================================

// Theme holds all the styled components for the terminal.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Palette Palette

	// ==========================================================================
	// SCREEN
	// ==========================================================================

	Screen lipgloss.Style
	Header lipgloss.Style
	Rule   lipgloss.Style

	// ==========================================================================
	// SCROLLBACK
	// ==========================================================================

	Command  lipgloss.Style
	Prompt   lipgloss.Style
	Response lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS
	// ==========================================================================

	InputPrompt lipgloss.Style
	InputText   lipgloss.Style
	Spinner     lipgloss.Style
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style

	// ==========================================================================
	// OPERATOR PANEL
	// ==========================================================================

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	PanelError lipgloss.Style

	// ==========================================================================
	// SYSTEM DIAGNOSTIC
	// ==========================================================================

	VisualBox    lipgloss.Style
	VisualTitle  lipgloss.Style
	VisualGlyph  lipgloss.Style
	VisualFooter lipgloss.Style
	NotFound     lipgloss.Style
}

// NewTheme creates a theme for the named palette. Unknown names use the
// default theme.
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()
	palette, _ := Lookup(name)

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Palette:      palette,
	}
	t.initStyles()
	return t
}

// WithPalette returns a copy of the theme recolored for name.
func (t *Theme) WithPalette(name string) *Theme {
	clone := *t
	clone.Palette, _ = Lookup(name)
	clone.initStyles()
	return &clone
}

// Name returns the theme key.
func (t *Theme) Name() string {
	return t.Palette.Name
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	primary, accent := t.Palette.Primary, t.Palette.Accent

	t.Screen = lipgloss.NewStyle().Foreground(primary).Padding(0, 1)
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent)
	t.Rule = lipgloss.NewStyle().Foreground(accent)

	t.Command = lipgloss.NewStyle().Foreground(primary).Bold(true)
	t.Prompt = lipgloss.NewStyle().Foreground(accent).Bold(true)
	t.Response = lipgloss.NewStyle().Foreground(primary)
	t.Error = lipgloss.NewStyle().Foreground(ErrorColor)
	t.Dim = lipgloss.NewStyle().Foreground(TextMuted)

	t.InputPrompt = lipgloss.NewStyle().Foreground(accent).Bold(true)
	t.InputText = lipgloss.NewStyle().Foreground(primary)
	t.Spinner = lipgloss.NewStyle().Foreground(accent).Bold(true)
	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatusKey = lipgloss.NewStyle().Foreground(accent)

	t.Panel = lipgloss.NewStyle().
		Foreground(primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.PanelError = lipgloss.NewStyle().Foreground(ErrorColor)

	t.VisualBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(accent).
		Padding(0, 2)
	t.VisualTitle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.VisualGlyph = lipgloss.NewStyle().Foreground(primary)
	t.VisualFooter = lipgloss.NewStyle().Foreground(TextMuted)
	t.NotFound = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(StatusAlert).
		Foreground(StatusAlert).
		Bold(true).
		Padding(0, 2)
}

// StatusStyle returns the style for a ship system status value.
func (t *Theme) StatusStyle(status string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(StatusColor(status))
}
