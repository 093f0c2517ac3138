// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"

	"github.com/morkalg/MUTHERSHIP/internal/config"
	"github.com/morkalg/MUTHERSHIP/internal/interpreter"
	"github.com/morkalg/MUTHERSHIP/internal/operator"
	"github.com/morkalg/MUTHERSHIP/internal/query"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/util"
	"github.com/morkalg/MUTHERSHIP/internal/visual"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads player input one line at a time.
type LineReader interface {
	Prompt(prompt string) (string, error)
	PasswordPrompt(prompt string) (string, error)
	AppendHistory(item string)
}

// linerReader provides history and line editing on a real terminal.
type linerReader struct {
	*liner.State
	historyFile string
}

func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &linerReader{State: line}
	if path, err := config.HistoryPath(); err == nil {
		r.historyFile = path
		if f, err := os.Open(path); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		var buf bytes.Buffer
		if _, err := r.WriteHistory(&buf); err == nil {
			_ = util.AtomicWriteFile(r.historyFile, buf.Bytes(), 0600)
		}
	}
	return r.State.Close()
}

// =============================================================================
// PLAIN TERMINAL
// =============================================================================

// Repl is the line-oriented terminal used without a TTY or with --plain.
type Repl struct {
	app   *App
	in    LineReader
	out   io.Writer
	width int

	// printed counts history entries already written to out.
	printed int
}

// NewRepl creates a REPL over app.
func NewRepl(app *App, in LineReader, out io.Writer, width int) *Repl {
	if width < 40 {
		width = 40
	}
	return &Repl{app: app, in: in, out: out, width: width}
}

// Run reads lines until EOF, Ctrl+C at the prompt, or /quit.
func (r *Repl) Run(ctx context.Context) error {
	r.flush()
	for {
		prompt := r.app.Interpreter.Prompt() + " "
		masked := r.app.Session.State().Mode == ship.ModeAwaitingPassword

		var line string
		var err error
		if masked {
			line, err = r.in.PasswordPrompt(prompt)
		} else {
			line, err = r.in.Prompt(prompt)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}
		if !masked && strings.TrimSpace(line) != "" {
			r.in.AppendHistory(line)
		}

		quit, err := r.Handle(ctx, line)
		if err != nil {
			DisplayError(r.out, err)
		}
		if quit {
			return nil
		}
	}
}

// Handle processes one line. It reports whether the player asked to quit.
func (r *Repl) Handle(ctx context.Context, line string) (bool, error) {
	// Credentials are taken literally, even when they start with a slash.
	if r.app.Operator != nil && r.app.Session.State().Mode == ship.ModeCommand && operator.IsCommand(line) {
		return r.operator(line)
	}

	res, err := r.app.Interpreter.Handle(line)
	if err != nil {
		return false, err
	}
	// The liner already echoed the input line.
	r.skipCommands()
	r.flush()
	if res.Action == interpreter.ActionQuery {
		return false, r.Query(ctx, res.Query)
	}
	return false, nil
}

func (r *Repl) operator(line string) (bool, error) {
	res, err := r.app.Operator.Execute(line)
	if err != nil {
		return false, err
	}
	for _, l := range res.Lines {
		fmt.Fprintln(r.out, "// "+l)
	}
	switch res.Action {
	case operator.ActionQuit:
		return true, nil
	case operator.ActionHistoryCleared:
		r.printed = 0
		r.flush()
	}
	return false, nil
}

// Query streams one reply to out. Ctrl+C aborts the query, not the REPL.
func (r *Repl) Query(ctx context.Context, q string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if d := r.app.Config.QueryTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	job, err := r.app.Runner.Start(ctx, q)
	if err != nil {
		return err
	}

	var queryErr error
	atLineStart := true
	for ev := range job.Events() {
		query.Apply(r.app.Session, ev)
		switch ev.Kind {
		case query.EventText:
			fmt.Fprint(r.out, ev.Text)
			atLineStart = strings.HasSuffix(ev.Text, "\n")
		case query.EventVisual:
			if !atLineStart {
				fmt.Fprintln(r.out)
			}
			fmt.Fprintln(r.out, r.visual(ev.System))
			atLineStart = true
		case query.EventError:
			queryErr = ev.Err
			if !atLineStart {
				fmt.Fprintln(r.out)
			}
			fmt.Fprintln(r.out, query.ErrorText(ev.Err))
			atLineStart = true
		}
	}
	if !atLineStart {
		fmt.Fprintln(r.out)
	}
	r.printed = len(r.app.Session.History())
	if queryErr != nil {
		return &queryError{err: queryErr}
	}
	return nil
}

// skipCommands marks trailing command entries as printed.
func (r *Repl) skipCommands() {
	history := r.app.Session.History()
	for r.printed < len(history) && history[r.printed].Kind == ship.EntryCommand {
		r.printed++
	}
}

// flush writes history entries not yet printed.
func (r *Repl) flush() {
	history := r.app.Session.History()
	for ; r.printed < len(history); r.printed++ {
		if s, ok := r.render(history[r.printed]); ok {
			fmt.Fprintln(r.out, s)
		}
	}
}

func (r *Repl) render(e ship.TerminalEntry) (string, bool) {
	switch {
	case e.Kind == ship.EntryCommand:
		return e.Prompt + " " + e.Text, true
	case e.HasVisual():
		return r.visual(e.Visual), true
	case e.Text == "":
		return "", false
	default:
		return strings.Join(util.Wrap(e.Text, r.width), "\n"), true
	}
}

func (r *Repl) visual(system string) string {
	width := r.width - 4
	if width > visual.DefaultWidth {
		width = visual.DefaultWidth
	}
	return visual.Plain(visual.Diagnose(r.app.Session, system), width, 0)
}
