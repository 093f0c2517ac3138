// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when an ID or prefix matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when an ID prefix matches more than one item.
	ErrAmbiguous = errors.New("ambiguous id")

	// ErrBusy is returned while a model query is in flight.
	ErrBusy = errors.New("query in progress")

	// ErrNoResponse is returned when the trailing entry is not a response.
	ErrNoResponse = errors.New("no trailing response entry")
)

// DefaultGreeting is shown at startup and after the history is cleared.
const DefaultGreeting = "MUTHER 6000 ONLINE. AWAITING DIRECTIVE."

// DefaultTheme is the theme key used until one is chosen.
const DefaultTheme = "blue"

// =============================================================================
// SESSION
// =============================================================================

// Session is the single mutable aggregate for one running terminal.
// All methods are safe for concurrent use; returned slices are copies.
type Session struct {
	mu sync.RWMutex

	logs    []ship.DataLog
	crew    []ship.CrewMember
	systems []ship.ShipSystem

	persona  string
	greeting string
	theme    string

	history []ship.TerminalEntry
	role    string
	state   ship.InteractionState
	busy    bool

	newID func() string
}

// Option configures a Session.
type Option func(*Session)

// WithGreeting sets the greeting shown at the top of the history.
func WithGreeting(greeting string) Option {
	return func(s *Session) { s.greeting = greeting }
}

// WithPersona sets the initial persona text.
func WithPersona(persona string) Option {
	return func(s *Session) { s.persona = persona }
}

// WithTheme sets the initial theme key.
func WithTheme(theme string) Option {
	return func(s *Session) { s.theme = theme }
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// New creates an empty session whose history holds only the greeting.
func New(opts ...Option) *Session {
	s := &Session{
		greeting: DefaultGreeting,
		theme:    DefaultTheme,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.history = s.initialHistory()
	return s
}

func (s *Session) initialHistory() []ship.TerminalEntry {
	if s.greeting == "" {
		return nil
	}
	return []ship.TerminalEntry{ship.Response(s.greeting)}
}

// =============================================================================
// PERSONA / GREETING / THEME
// =============================================================================

// Persona returns the system persona text.
func (s *Session) Persona() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona
}

// SetPersona replaces the persona text.
func (s *Session) SetPersona(persona string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persona = persona
}

// Greeting returns the greeting line.
func (s *Session) Greeting() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.greeting
}

// SetGreeting replaces the greeting used by ResetHistory.
func (s *Session) SetGreeting(greeting string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.greeting = greeting
}

// Theme returns the active theme key.
func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme stores a theme key. Callers validate the key.
func (s *Session) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}

// =============================================================================
// ROLE AND LOGIN STATE
// =============================================================================

// Role returns the role of the logged-in crew member, or "".
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// SetRole records a successful login.
func (s *Session) SetRole(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = ship.Normalize(role)
}

// ClearRole logs the terminal out.
func (s *Session) ClearRole() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = ""
}

// State returns the login state machine position.
func (s *Session) State() ship.InteractionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// AwaitUsername starts an interactive login.
func (s *Session) AwaitUsername() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ship.InteractionState{Mode: ship.ModeAwaitingUsername}
}

// AwaitPassword records the entered identity and waits for the passcode.
func (s *Session) AwaitPassword(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ship.InteractionState{Mode: ship.ModeAwaitingPassword, PendingUsername: username}
}

// ResetState returns to command mode and forgets any pending identity.
func (s *Session) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ship.InteractionState{Mode: ship.ModeCommand}
}

// =============================================================================
// BUSY FLAG
// =============================================================================

// BeginQuery marks a query in flight. It fails with ErrBusy if one already is.
func (s *Session) BeginQuery() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// EndQuery clears the in-flight flag.
func (s *Session) EndQuery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// Busy reports whether a query is in flight.
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// =============================================================================
// HISTORY
// =============================================================================

// History returns a copy of the scrollback.
func (s *Session) History() []ship.TerminalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ship.TerminalEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Append adds an entry to the end of the scrollback.
func (s *Session) Append(entry ship.TerminalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
}

// Last returns the trailing entry.
func (s *Session) Last() (ship.TerminalEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return ship.TerminalEntry{}, false
	}
	return s.history[len(s.history)-1], true
}

// AppendToLast appends text to the trailing response entry. It is the only
// in-place mutation of history besides ReplaceLast.
func (s *Session) AppendToLast(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.history)
	if n == 0 || s.history[n-1].Kind != ship.EntryResponse {
		return ErrNoResponse
	}
	s.history[n-1].Text += text
	return nil
}

// ReplaceLast swaps the trailing response entry for entry.
func (s *Session) ReplaceLast(entry ship.TerminalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.history)
	if n == 0 || s.history[n-1].Kind != ship.EntryResponse {
		return ErrNoResponse
	}
	s.history[n-1] = entry
	return nil
}

// ResetHistory clears the scrollback back to the greeting.
func (s *Session) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = s.initialHistory()
}

// LastResponseText returns the text of the most recent non-empty response.
func (s *Session) LastResponseText() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.history) - 1; i >= 0; i-- {
		e := s.history[i]
		if e.Kind == ship.EntryResponse && e.Text != "" {
			return e.Text, true
		}
	}
	return "", false
}

// =============================================================================
// ID RESOLUTION
// =============================================================================

// resolve finds the single id in ids equal to, or prefixed by, ref.
func resolve(ids []string, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrNotFound
	}
	var match string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguous, ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return match, nil
}
