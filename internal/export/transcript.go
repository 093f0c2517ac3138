// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"time"

	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// Transcript is the exportable view of a terminal session.
type Transcript struct {
	Name       string               `json:"name" yaml:"name"`
	Theme      string               `json:"theme" yaml:"theme"`
	Role       string               `json:"role,omitempty" yaml:"role,omitempty"`
	ExportedAt time.Time            `json:"exported_at" yaml:"exported_at"`
	Entries    []ship.TerminalEntry `json:"entries" yaml:"entries"`
}

// FromSession snapshots the session's scrollback. Passwords never appear
// because the history only ever holds their mask.
func FromSession(sess *session.Session, name string, now time.Time) *Transcript {
	if name == "" {
		name = "MUTHER TRANSCRIPT"
	}
	return &Transcript{
		Name:       name,
		Theme:      sess.Theme(),
		Role:       sess.Role(),
		ExportedAt: now.UTC(),
		Entries:    sess.History(),
	}
}

// Commands counts the player command entries.
func (t *Transcript) Commands() int {
	n := 0
	for _, e := range t.Entries {
		if e.Kind == ship.EntryCommand {
			n++
		}
	}
	return n
}
