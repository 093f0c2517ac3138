// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/morkalg/MUTHERSHIP/internal/config"
	"github.com/morkalg/MUTHERSHIP/internal/interpreter"
	"github.com/morkalg/MUTHERSHIP/internal/llm"
	"github.com/morkalg/MUTHERSHIP/internal/logging"
	"github.com/morkalg/MUTHERSHIP/internal/operator"
	"github.com/morkalg/MUTHERSHIP/internal/query"
	"github.com/morkalg/MUTHERSHIP/internal/scenario"
	"github.com/morkalg/MUTHERSHIP/internal/session"
)

// =============================================================================
// FLAGS
// =============================================================================

// Flags holds the global command line flags.
type Flags struct {
	ConfigPath   string
	ScenarioPath string
	Provider     string
	Theme        string
	Plain        bool
	NoOperator   bool
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(flags *Flags, stderr io.Writer) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.ConfigPath != "" {
		cfg, err = config.LoadFromPath(flags.ConfigPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, err
		}
		if err != nil {
			// A broken config file falls back to defaults.
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
	}

	if flags.ScenarioPath != "" {
		cfg.Scenario.Path = flags.ScenarioPath
	}
	if flags.Provider != "" {
		cfg.Model.Provider = strings.ToLower(strings.TrimSpace(flags.Provider))
	}
	if flags.Theme != "" {
		flags.Theme = strings.ToLower(strings.TrimSpace(flags.Theme))
		cfg.UI.Theme = flags.Theme
	}
	if flags.NoOperator {
		cfg.UI.Operator = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// APPLICATION
// =============================================================================

// App is the assembled terminal: one session with its interpreter, query
// runner and operator.
type App struct {
	Config      *config.Config
	Logger      *log.Logger
	Session     *session.Session
	Interpreter *interpreter.Interpreter
	Runner      *query.Runner

	// Operator is nil when slash commands are disabled.
	Operator *operator.Operator

	// ScenarioPath is the loaded scenario file, empty for the built-in one.
	ScenarioPath string
	Title        string

	closers []io.Closer
}

// NewApp wires every component from cfg. themeOverride, when set, wins over
// the scenario's theme.
func NewApp(ctx context.Context, cfg *config.Config, themeOverride string) (*App, error) {
	logger, logCloser, err := logging.Configure(cfg.Logging.Level, cfg.Logging.File, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	app := &App{Config: cfg, Logger: logger, closers: []io.Closer{logCloser}}

	sc := scenario.Default()
	if path := cfg.Scenario.Path; path != "" {
		sc, err = scenario.Load(path)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.ScenarioPath = path
	}
	app.Title = sc.Name

	sess := session.New(
		session.WithGreeting(session.DefaultGreeting),
		session.WithTheme(cfg.UI.Theme),
	)
	if err := sc.Apply(sess); err != nil {
		app.Close()
		return nil, err
	}
	if cfg.UI.Greeting != "" {
		sess.SetGreeting(cfg.UI.Greeting)
	}
	if themeOverride != "" {
		sess.SetTheme(themeOverride)
	}
	sess.ResetHistory()
	app.Session = sess

	lc := cfg.LLMConfig()
	lc.Logger = logging.Component(logger, "llm")
	client, err := llm.New(ctx, lc)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Interpreter = interpreter.New(sess)
	app.Runner = query.NewRunner(sess, client, logging.Component(logger, "query"))
	if cfg.UI.Operator {
		app.Operator = operator.New(sess,
			operator.WithLogger(logging.Component(logger, "operator")),
			operator.WithScenarioPath(app.ScenarioPath),
			operator.WithTitle(app.Title),
		)
	}

	logger.Info("Terminal ready",
		"scenario", app.Title,
		"provider", client.Name(),
		"logs", len(sess.Logs()),
		"crew", len(sess.Crew()),
		"systems", len(sess.Systems()),
	)
	return app, nil
}

// Watch starts watching the scenario file when the config asks for it. It
// returns nil when there is nothing to watch.
func (a *App) Watch() (scenario.FileWatcher, error) {
	if !a.Config.Scenario.Watch || a.ScenarioPath == "" {
		return nil, nil
	}
	w, err := scenario.Watch(a.ScenarioPath, scenario.DefaultDebounce)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, w)
	a.Logger.Info("Watching scenario", "path", a.ScenarioPath)
	return w, nil
}

// Close releases the watcher and log file.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
