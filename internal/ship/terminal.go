// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ship

// =============================================================================
// TERMINAL ENTRIES
// =============================================================================

// EntryKind distinguishes player input from terminal output.
type EntryKind int

const (
	EntryCommand EntryKind = iota
	EntryResponse
)

// String returns the kind label used in exports.
func (k EntryKind) String() string {
	switch k {
	case EntryCommand:
		return "command"
	case EntryResponse:
		return "response"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// TerminalEntry is one line group in the scrollback.
// A visual entry names a ShipSystem and carries no text. The name may be
// empty, which still renders as a not-found panel.
type TerminalEntry struct {
	Kind     EntryKind `json:"kind" yaml:"kind"`
	Text     string    `json:"text,omitempty" yaml:"text,omitempty"`
	Visual   string    `json:"visual,omitempty" yaml:"visual,omitempty"`
	IsVisual bool      `json:"is_visual,omitempty" yaml:"is_visual,omitempty"`

	// Prompt is the label shown before a command entry, e.g. "[CAPTAIN]>".
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
}

// Command builds a command entry.
func Command(prompt, text string) TerminalEntry {
	return TerminalEntry{Kind: EntryCommand, Prompt: prompt, Text: text}
}

// Response builds a text response entry.
func Response(text string) TerminalEntry {
	return TerminalEntry{Kind: EntryResponse, Text: text}
}

// Visual builds a visual entry for the named system.
func Visual(system string) TerminalEntry {
	return TerminalEntry{Kind: EntryResponse, Visual: system, IsVisual: true}
}

// HasVisual reports whether the entry displays a system diagnostic.
func (e TerminalEntry) HasVisual() bool {
	return e.IsVisual || e.Visual != ""
}

// IsEmpty reports whether the entry has neither text nor a visual.
func (e TerminalEntry) IsEmpty() bool {
	return e.Text == "" && !e.HasVisual()
}

// =============================================================================
// INTERACTION STATE
// =============================================================================

// Mode is the login state machine position.
type Mode int

const (
	ModeCommand Mode = iota
	ModeAwaitingUsername
	ModeAwaitingPassword
)

func (m Mode) String() string {
	switch m {
	case ModeCommand:
		return "COMMAND"
	case ModeAwaitingUsername:
		return "AWAITING_USERNAME"
	case ModeAwaitingPassword:
		return "AWAITING_PASSWORD"
	default:
		return "UNKNOWN"
	}
}

// InteractionState tracks a login in progress.
// PendingUsername is set only while Mode is ModeAwaitingPassword.
type InteractionState struct {
	Mode            Mode
	PendingUsername string
}
