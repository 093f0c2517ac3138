// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operator

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/morkalg/MUTHERSHIP/internal/session"
)

// =============================================================================
// RESULTS
// =============================================================================

// Action tells the front end what to do after a command.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePanel
	ActionThemeChanged
	ActionHistoryCleared
	ActionReloaded
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionTogglePanel:
		return "toggle-panel"
	case ActionThemeChanged:
		return "theme-changed"
	case ActionHistoryCleared:
		return "history-cleared"
	case ActionReloaded:
		return "reloaded"
	default:
		return "none"
	}
}

// Result is the outcome of an operator command. Lines go to the operator
// panel, never to player history.
type Result struct {
	Lines  []string
	Action Action
}

func lines(format string, args ...any) Result {
	return Result{Lines: []string{fmt.Sprintf(format, args...)}}
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownCommand is returned for a slash word with no command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoScenario is returned by /reload when no file is configured.
	ErrNoScenario = errors.New("no scenario file configured")
)

// UsageError reports a malformed invocation with the accepted forms.
type UsageError struct {
	Command string
	Usage   []string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %s", strings.Join(e.Usage, " | "))
}

// =============================================================================
// OPERATOR
// =============================================================================

// Operator runs game master commands against a session.
type Operator struct {
	sess     *session.Session
	registry *Registry
	logger   *log.Logger

	scenarioPath string
	title        string
	now          func() time.Time
}

// Option configures an Operator.
type Option func(*Operator)

// WithLogger sets the logger for command audit lines.
func WithLogger(logger *log.Logger) Option {
	return func(o *Operator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScenarioPath sets the file /reload reads.
func WithScenarioPath(path string) Option {
	return func(o *Operator) { o.scenarioPath = path }
}

// WithTitle names exported transcripts and saved scenarios.
func WithTitle(title string) Option {
	return func(o *Operator) { o.title = title }
}

// WithClock replaces time.Now for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Operator) { o.now = now }
}

// New creates an operator bound to sess.
func New(sess *session.Session, opts ...Option) *Operator {
	o := &Operator{
		sess:     sess,
		registry: NewRegistry(),
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Registry exposes the command set, for help and completion.
func (o *Operator) Registry() *Registry {
	return o.registry
}

// ScenarioPath returns the file /reload reads.
func (o *Operator) ScenarioPath() string {
	return o.scenarioPath
}

// Execute parses and runs one command line.
func (o *Operator) Execute(input string) (Result, error) {
	inv, ok := Parse(input)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, input)
	}
	cmd := o.registry.Get(inv.Name)
	if cmd == nil {
		return Result{}, fmt.Errorf("%w: %s (try /help)", ErrUnknownCommand, inv.Name)
	}

	res, err := cmd.Handler(o, inv)
	if err != nil {
		o.logger.Warn("operator command failed", "command", cmd.Name, "err", err)
		return Result{}, err
	}
	o.logger.Info("operator command", "command", cmd.Name, "action", res.Action)
	return res, nil
}

func usage(cmd string, r *Registry) error {
	c := r.Get(cmd)
	if c == nil {
		return &UsageError{Command: cmd}
	}
	return &UsageError{Command: c.Name, Usage: c.Usage}
}

// shortID trims a UUID for display. Any unique prefix resolves.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
