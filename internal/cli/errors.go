// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/morkalg/MUTHERSHIP/internal/config"
	"github.com/morkalg/MUTHERSHIP/internal/llm"
	"github.com/morkalg/MUTHERSHIP/internal/scenario"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/ui/styles"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration or scenario error
	ExitConfigError = 3
	// ExitQueryError indicates the model query failed
	ExitQueryError = 5
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "scenario", "config")
	Action  string // Action being performed (e.g., "check", "set")
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func commandError(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// queryError marks a failed model query.
type queryError struct {
	err error
}

func (e *queryError) Error() string { return e.err.Error() }
func (e *queryError) Unwrap() error { return e.err }

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	var verrs config.ValidateErrors
	var qerr *queryError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &qerr):
		return ExitQueryError
	case errors.As(err, &verrs), errors.Is(err, ship.ErrInvalid):
		return ExitConfigError
	case errors.Is(err, scenario.ErrUnsupportedFormat), llm.IsUnknownProvider(err):
		return ExitUsageError
	default:
		return ExitGeneralError
	}
}

var errorStyle = lipgloss.NewStyle().Foreground(styles.ErrorColor).Bold(true)

// DisplayError writes err in the standard format.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("[ERROR]"), err)
}
