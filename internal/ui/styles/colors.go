// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PHOSPHOR COLORS
// =============================================================================

// Blue phosphor, the default terminal tint.
var (
	Blue300 = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}
	Blue500 = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#3B82F6"}
)

// Green phosphor.
var (
	Green400 = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	Green500 = lipgloss.AdaptiveColor{Light: "#166534", Dark: "#22C55E"}
)

// Orange phosphor.
var (
	Orange400 = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FB923C"}
	Orange500 = lipgloss.AdaptiveColor{Light: "#9A3412", Dark: "#F97316"}
)

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// Surface - Screen background
var Surface = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#050505"}

// TextMuted - Hints and secondary labels
var TextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}

// =============================================================================
// SHIP SYSTEM STATUS COLORS
// =============================================================================

// StatusOptimal - System fully functional
var StatusOptimal = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}

// StatusOffline - System powered down
var StatusOffline = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}

// StatusAlert - System damaged or critical
var StatusAlert = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

// ErrorColor - Error lines in the scrollback
var ErrorColor = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}

// StatusColor maps a ship system status to its display color. OPTIMAL is
// green, OFFLINE is grey, anything else is red.
func StatusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "OPTIMAL":
		return StatusOptimal
	case "OFFLINE":
		return StatusOffline
	default:
		return StatusAlert
	}
}
