// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"context"
	"io"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/morkalg/MUTHERSHIP/internal/interpreter"
	"github.com/morkalg/MUTHERSHIP/internal/operator"
	"github.com/morkalg/MUTHERSHIP/internal/query"
	"github.com/morkalg/MUTHERSHIP/internal/scenario"
	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/ui/styles"
	"github.com/morkalg/MUTHERSHIP/internal/visual"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options wires the terminal to the rest of the application.
type Options struct {
	Session     *session.Session
	Interpreter *interpreter.Interpreter
	Runner      *query.Runner

	// Operator enables slash commands and the operator panel. Nil disables
	// both.
	Operator *operator.Operator

	// Watcher reports scenario file edits. Nil disables live reload.
	Watcher scenario.FileWatcher

	Logger *log.Logger

	// Title is shown in the header.
	Title string

	// QueryTimeout bounds each model query. Zero means no limit.
	QueryTimeout time.Duration

	// IdleTimeout logs the terminal out after inactivity. Zero disables it.
	IdleTimeout time.Duration

	ShowPanel bool
	Markdown  bool

	// Copy replaces the system clipboard, for tests.
	Copy func(string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the player terminal.
type Model struct {
	sess    *session.Session
	interp  *interpreter.Interpreter
	runner  *query.Runner
	op      *operator.Operator
	watcher scenario.FileWatcher
	logger  *log.Logger
	copy    func(string) error

	// Styling
	theme    *styles.Theme
	visuals  *visual.Renderer
	markdown *markdownRenderer
	keys     KeyMap
	title    string

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Query in flight
	job          *query.Job
	jobCancel    context.CancelFunc
	queryTimeout time.Duration

	// Operator panel
	showPanel bool
	panel     *panelLog

	idle   *session.IdleTracker
	status string
	frame  int
}

// New creates the terminal model.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	title := opts.Title
	if title == "" {
		title = "MUTHER 6000"
	}

	ti := textinput.New()
	ti.CharLimit = 2048
	ti.EchoCharacter = '*'
	ti.Cursor.BlinkSpeed = styles.CursorBlinkRate
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.ProcessingSpinner.Frames,
		FPS:    styles.ProcessingSpinner.Duration(),
	}

	theme := styles.NewTheme(opts.Session.Theme())
	m := Model{
		sess:         opts.Session,
		interp:       opts.Interpreter,
		runner:       opts.Runner,
		op:           opts.Operator,
		watcher:      opts.Watcher,
		logger:       logger,
		copy:         copyFn,
		theme:        theme,
		visuals:      visual.NewRenderer(theme),
		keys:         DefaultKeyMap(),
		title:        title,
		viewport:     viewport.New(80, 20),
		input:        ti,
		spinner:      sp,
		queryTimeout: opts.QueryTimeout,
		showPanel:    opts.ShowPanel && opts.Operator != nil,
		panel:        newPanelLog(200),
		idle:         session.NewIdleTracker(opts.IdleTimeout),
	}
	if opts.Markdown {
		m.markdown = newMarkdownRenderer()
	}
	m.syncPrompt()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the input cursor, animation, idle and file-watch loops.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, visual.Tick()}
	if m.idle.Enabled() {
		cmds = append(cmds, session.IdleTickCmd())
	}
	if m.watcher != nil {
		cmds = append(cmds, scenario.WaitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case queryEventMsg:
		return m.handleQueryEvent(msg)

	case spinner.TickMsg:
		if m.job == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case visual.FrameMsg:
		m.frame++
		if m.hasVisuals() {
			m.refresh(false)
		}
		return m, visual.Tick()

	case session.IdleTickMsg:
		return m, m.idle.HandleTick()

	case session.IdleLogoutMsg:
		return m.handleIdleLogout()

	case scenario.ChangedMsg:
		return m.handleScenarioChanged(msg)

	case copiedMsg:
		if msg.err != nil {
			m.status = "COPY FAILED: " + msg.err.Error()
		} else {
			m.status = "REPLY COPIED"
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Busy reports whether a query is streaming.
func (m Model) Busy() bool {
	return m.job != nil
}

// PanelVisible reports whether the operator panel is shown.
func (m Model) PanelVisible() bool {
	return m.showPanel
}

// Status returns the transient status line.
func (m Model) Status() string {
	return m.status
}

// PanelLines returns the operator panel contents.
func (m Model) PanelLines() []string {
	return m.panel.Lines()
}

// Theme returns the active theme.
func (m Model) Theme() *styles.Theme {
	return m.theme
}

// =============================================================================
// HELPERS
// =============================================================================

// syncPrompt reflects the login state in the input line.
func (m *Model) syncPrompt() {
	m.input.Prompt = m.interp.Prompt() + " "
	if m.sess.State().Mode == ship.ModeAwaitingPassword {
		m.input.EchoMode = textinput.EchoPassword
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
}

// applyTheme rebuilds styles when the session theme changed.
func (m *Model) applyTheme() {
	if m.theme.Name() == m.sess.Theme() {
		return
	}
	m.theme = m.theme.WithPalette(m.sess.Theme())
	m.visuals.SetTheme(m.theme)
	m.logger.Debug("Theme changed", "theme", m.theme.Name())
}

func (m Model) hasVisuals() bool {
	for _, e := range m.sess.History() {
		if e.HasVisual() {
			return true
		}
	}
	return false
}
