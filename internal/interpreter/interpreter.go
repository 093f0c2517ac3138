// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package interpreter classifies player input lines and drives the login
// state machine. Lines that are not terminal commands become model queries,
// which the caller hands to the query runner.
package interpreter

import (
	"strings"

	"github.com/morkalg/MUTHERSHIP/internal/access"
	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// TERMINAL MESSAGES
// =============================================================================

const (
	MsgIdentity      = "IDENTITY:"
	MsgPasscode      = "PASSCODE:"
	MsgAccessDenied  = "ACCESS DENIED. INVALID CREDENTIALS."
	MsgLoggedOut     = "USER LOGGED OUT. TERMINAL SECURED."
	MsgLoginSyntax   = "SYNTAX ERROR. USAGE: LOGIN [IDENTITY PASSCODE]"
	MsgIdleLoggedOut = "SESSION TIMEOUT. TERMINAL SECURED."

	// PasswordMask replaces a passcode line in the history.
	PasswordMask = "********"
)

// AccessGranted formats the welcome line for role.
func AccessGranted(role string) string {
	return "ACCESS GRANTED. WELCOME, " + role + "."
}

// =============================================================================
// RESULTS
// =============================================================================

// Action tells the caller what, if anything, remains to be done.
type Action int

const (
	// ActionNone means the line was ignored.
	ActionNone Action = iota
	// ActionHandled means the line was answered locally.
	ActionHandled
	// ActionQuery means the line must be sent to the model.
	ActionQuery
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionHandled:
		return "handled"
	case ActionQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Result describes how a line was handled.
type Result struct {
	Action Action

	// Query is the full input line for ActionQuery.
	Query string
}

// =============================================================================
// INTERPRETER
// =============================================================================

// Interpreter applies input lines to a session.
type Interpreter struct {
	sess *session.Session
}

// New creates an interpreter bound to sess.
func New(sess *session.Session) *Interpreter {
	return &Interpreter{sess: sess}
}

// Prompt returns the input prompt for the current state.
func (in *Interpreter) Prompt() string {
	return PromptFor(in.sess.State().Mode, in.sess.Role())
}

// PromptFor builds the prompt label for a mode and role.
func PromptFor(mode ship.Mode, role string) string {
	if mode != ship.ModeCommand {
		return ">"
	}
	if role == "" {
		return ">"
	}
	return "[" + role + "]>"
}

// Handle processes one input line. While a query is in flight every line is
// rejected with session.ErrBusy and leaves no trace.
func (in *Interpreter) Handle(line string) (Result, error) {
	if in.sess.Busy() {
		return Result{}, session.ErrBusy
	}

	state := in.sess.State()
	switch state.Mode {
	case ship.ModeAwaitingUsername:
		return in.handleUsername(line), nil
	case ship.ModeAwaitingPassword:
		return in.handlePassword(line, state.PendingUsername), nil
	default:
		return in.handleCommand(line), nil
	}
}

func (in *Interpreter) handleUsername(line string) Result {
	in.sess.Append(ship.Command(in.Prompt(), line))
	in.sess.AwaitPassword(ship.Normalize(line))
	in.sess.Append(ship.Response(MsgPasscode))
	return Result{Action: ActionHandled}
}

func (in *Interpreter) handlePassword(line, username string) Result {
	in.sess.Append(ship.Command(in.Prompt(), PasswordMask))
	in.login(username, line)
	in.sess.ResetState()
	return Result{Action: ActionHandled}
}

func (in *Interpreter) handleCommand(line string) Result {
	if strings.TrimSpace(line) == "" {
		return Result{Action: ActionNone}
	}

	in.sess.Append(ship.Command(in.Prompt(), line))

	tokens := strings.Fields(line)
	switch strings.ToUpper(tokens[0]) {
	case "LOGIN", "LOGON":
		switch len(tokens) {
		case 1:
			in.sess.AwaitUsername()
			in.sess.Append(ship.Response(MsgIdentity))
		case 3:
			in.login(tokens[1], tokens[2])
		default:
			in.sess.Append(ship.Response(MsgLoginSyntax))
		}
		return Result{Action: ActionHandled}

	case "LOGOUT":
		in.sess.ClearRole()
		in.sess.Append(ship.Response(MsgLoggedOut))
		return Result{Action: ActionHandled}
	}

	return Result{Action: ActionQuery, Query: line}
}

func (in *Interpreter) login(name, password string) {
	role, err := access.Authenticate(in.sess.Crew(), name, password)
	if err != nil {
		in.sess.Append(ship.Response(MsgAccessDenied))
		return
	}
	in.sess.SetRole(role)
	in.sess.Append(ship.Response(AccessGranted(role)))
}

// IdleLogout secures the terminal after inactivity. It reports whether a
// role was cleared.
func (in *Interpreter) IdleLogout() bool {
	if in.sess.Role() == "" && in.sess.State().Mode == ship.ModeCommand {
		return false
	}
	in.sess.ClearRole()
	in.sess.ResetState()
	in.sess.Append(ship.Response(MsgIdleLoggedOut))
	return true
}
