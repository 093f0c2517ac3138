// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the MUTHERSHIP
// terminal.
//
// A theme key (blue, green or orange) selects a phosphor Palette; Theme
// builds every lipgloss style from it. All colors use lipgloss
// AdaptiveColor so light terminals stay legible.
//
// # Usage
//
//	theme := styles.NewTheme(sess.Theme())
//	line := theme.Response.Render(text)
//
// Switching theme at runtime:
//
//	theme = theme.WithPalette("green")
package styles
