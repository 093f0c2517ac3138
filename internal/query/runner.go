// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package query runs player queries against the model and applies the
// streamed reply to the session scrollback.
//
// A query is split in two halves so the UI loop can stay the single writer
// of history: Start launches a goroutine that pulls fragments from the model
// stream and turns them into Events, and Apply folds each Event into the
// session. Run does both in the calling goroutine for line mode and tests.
package query

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/morkalg/MUTHERSHIP/internal/access"
	"github.com/morkalg/MUTHERSHIP/internal/llm"
	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/tagstream"
)

// ErrorPrefix opens every error entry written to the scrollback.
const ErrorPrefix = "// SYSTEM ERROR: "

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies a query event.
type EventKind int

const (
	// EventText carries reply text.
	EventText EventKind = iota
	// EventVisual requests a system diagnostic.
	EventVisual
	// EventError reports a failed or canceled query.
	EventError
	// EventDone is always the final event of a query.
	EventDone
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventVisual:
		return "visual"
	case EventError:
		return "error"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is one step of a running query.
type Event struct {
	Kind   EventKind
	Text   string
	System string
	Err    error
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner owns the model client used for queries.
type Runner struct {
	sess   *session.Session
	client llm.Client
	logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(sess *session.Session, client llm.Client, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{sess: sess, client: client, logger: logger}
}

// Client returns the model client.
func (r *Runner) Client() llm.Client {
	return r.client
}

// SetClient swaps the model client for subsequent queries.
func (r *Runner) SetClient(c llm.Client) {
	r.client = c
}

// Request builds the model request for q from the current session. Logs
// are filtered for the active role.
func (r *Runner) Request(q string) llm.Request {
	return llm.Request{
		Persona: r.sess.Persona(),
		Logs:    access.VisibleLogs(r.sess.Logs(), r.sess.Role()),
		Systems: r.sess.Systems(),
		Query:   q,
	}
}

// Job is a query in flight.
type Job struct {
	events chan Event
	cancel context.CancelFunc
	once   sync.Once
}

// Events delivers the query's events, ending with EventDone, then closes.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Cancel aborts the query. The stream still ends with an error event and
// EventDone.
func (j *Job) Cancel() {
	j.once.Do(j.cancel)
}

// Start marks the session busy, opens the empty response entry that the
// reply streams into, and begins pulling the reply in a new goroutine. It
// fails with session.ErrBusy if a query is already in flight.
//
// The caller must Apply every event from the returned job; the final
// EventDone clears the busy flag.
func (r *Runner) Start(ctx context.Context, q string) (*Job, error) {
	if err := r.sess.BeginQuery(); err != nil {
		return nil, err
	}
	req := r.Request(q)
	r.sess.Append(ship.Response(""))

	ctx, cancel := context.WithCancel(ctx)
	job := &Job{events: make(chan Event, 16), cancel: cancel}

	r.logger.Debug("Query started", "provider", r.client.Name(), "logs", len(req.Logs), "systems", len(req.Systems))
	go r.pump(ctx, req, job)
	return job, nil
}

// pump consumes the model stream and emits parser events. It is the only
// goroutine touching the stream and the parser buffer.
func (r *Runner) pump(ctx context.Context, req llm.Request, job *Job) {
	defer close(job.events)
	defer job.Cancel()

	started := time.Now()
	emit := func(events []tagstream.Event) {
		for _, ev := range events {
			switch ev.Kind {
			case tagstream.EventVisual:
				job.events <- Event{Kind: EventVisual, System: ev.System}
			default:
				job.events <- Event{Kind: EventText, Text: ev.Text}
			}
		}
	}

	fail := func(err error) {
		r.logger.Warn("Query failed", "provider", r.client.Name(), "error", err, "elapsed", time.Since(started))
		job.events <- Event{Kind: EventError, Err: err}
		job.events <- Event{Kind: EventDone}
	}

	stream, err := r.client.Stream(ctx, req)
	if err != nil {
		fail(err)
		return
	}
	defer stream.Close()

	// Close unblocks a Next stuck on the network when the job is canceled.
	stop := context.AfterFunc(ctx, func() { _ = stream.Close() })
	defer stop()

	parser := tagstream.New()
	for {
		frag, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) && ctx.Err() == nil {
			break
		}
		if err != nil {
			emit(parser.Flush())
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			fail(err)
			return
		}
		emit(parser.Feed(frag))
	}
	emit(parser.Flush())

	r.logger.Debug("Query complete", "provider", r.client.Name(), "elapsed", time.Since(started))
	job.events <- Event{Kind: EventDone}
}

// Run executes q to completion in the calling goroutine.
func (r *Runner) Run(ctx context.Context, q string) error {
	job, err := r.Start(ctx, q)
	if err != nil {
		return err
	}
	var queryErr error
	for ev := range job.Events() {
		if ev.Kind == EventError {
			queryErr = ev.Err
		}
		Apply(r.sess, ev)
	}
	return queryErr
}

// =============================================================================
// APPLYING EVENTS
// =============================================================================

// Apply folds one query event into the session history.
//
// Text extends the trailing response entry, opening a fresh one when the
// trailing entry shows a visual. Visuals get their own entry. An error
// replaces the trailing response if nothing has streamed into it yet,
// otherwise it is appended so streamed text is kept.
func Apply(sess *session.Session, ev Event) {
	switch ev.Kind {
	case EventText:
		if ev.Text == "" {
			return
		}
		last, ok := sess.Last()
		if ok && last.Kind == ship.EntryResponse && !last.HasVisual() {
			if err := sess.AppendToLast(ev.Text); err == nil {
				return
			}
		}
		sess.Append(ship.Response(ev.Text))

	case EventVisual:
		sess.Append(ship.Visual(ev.System))

	case EventError:
		entry := ship.Response(ErrorText(ev.Err))
		last, ok := sess.Last()
		if ok && last.Kind == ship.EntryResponse && last.IsEmpty() {
			if err := sess.ReplaceLast(entry); err == nil {
				return
			}
		}
		sess.Append(entry)

	case EventDone:
		sess.EndQuery()
	}
}

// ErrorText renders err as a scrollback error line. Cancellation and
// timeouts are reported by their context error text.
func ErrorText(err error) string {
	switch {
	case err == nil:
		return ErrorPrefix + "unknown failure"
	case errors.Is(err, context.Canceled), errors.Is(err, llm.ErrCanceled):
		return ErrorPrefix + context.Canceled.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, llm.ErrTimeout):
		return ErrorPrefix + context.DeadlineExceeded.Error()
	default:
		return ErrorPrefix + err.Error()
	}
}
