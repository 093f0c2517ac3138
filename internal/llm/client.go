// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"errors"
	"io"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// CLIENT INTERFACE
// =============================================================================

// Request is everything a provider needs to answer one player query.
// Logs must already be filtered for the active role.
type Request struct {
	Persona string
	Logs    []ship.DataLog
	Systems []ship.ShipSystem
	Query   string
}

// Stream is a pull-based iterator over reply fragments.
//
// Next blocks until a non-empty fragment is available and returns io.EOF
// once the reply is complete. Close releases the underlying connection and
// cancels any request still in flight; it is safe to call more than once.
type Stream interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// Client answers queries with a streamed reply.
type Client interface {
	// Name identifies the provider in logs and the status line.
	Name() string

	// Stream starts a reply for req.
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Collect drains a stream into a single string. Mostly used by tests and
// the one-shot CLI.
func Collect(ctx context.Context, s Stream) (string, error) {
	defer s.Close()
	var out []byte
	for {
		frag, err := s.Next(ctx)
		if errors.Is(err, io.EOF) {
			return string(out), nil
		}
		if err != nil {
			return string(out), err
		}
		out = append(out, frag...)
	}
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from a model provider.
type ClientError struct {
	Type     ErrorType
	Provider string
	Message  string
	Cause    error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches any ClientError of the same Type, so sentinels work with
// errors.Is regardless of provider or cause.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Provider == "" && t.Cause == nil
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeMissingCredential
	ErrTypeCanceled
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning        = &ClientError{Type: ErrTypeNotRunning, Message: "model server is not running"}
	ErrTimeout           = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrModelNotFound     = &ClientError{Type: ErrTypeModelNotFound, Message: "model not found"}
	ErrMissingCredential = &ClientError{Type: ErrTypeMissingCredential, Message: "API key not configured"}
	ErrCanceled          = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}
)

// wrapContextErr converts context failures into typed client errors.
func wrapContextErr(provider string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return &ClientError{Type: ErrTypeCanceled, Provider: provider, Message: "request canceled", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &ClientError{Type: ErrTypeTimeout, Provider: provider, Message: "request timed out", Cause: err}
	}
	return nil
}

// providerError wraps an SDK failure, preferring a context classification.
func providerError(provider, message string, err error) error {
	if ctxErr := wrapContextErr(provider, err); ctxErr != nil {
		return ctxErr
	}
	return &ClientError{Type: ErrTypeConnection, Provider: provider, Message: message, Cause: err}
}
