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
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morkalg/MUTHERSHIP/internal/config"
	"github.com/morkalg/MUTHERSHIP/internal/interpreter"
	"github.com/morkalg/MUTHERSHIP/internal/scenario"
	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// HELPERS
// =============================================================================

// isolate points config at a temp home and clears provider variables.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		"MUTHERSHIP_PROVIDER", "MUTHERSHIP_MODEL", "MUTHERSHIP_THEME",
		"MUTHERSHIP_SCENARIO", "MUTHERSHIP_LOG_LEVEL", "MUTHERSHIP_OLLAMA_URL",
		"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
	}
	home := t.TempDir()
	t.Setenv("MUTHERSHIP_HOME", home)
	return home
}

// writeConfig writes a config that answers instantly with the offline model.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[model]
provider = "local"
timeout_secs = 10

[ui]
typing_delay_ms = 0

[logging]
level = "error"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func testApp(t *testing.T) *App {
	t.Helper()
	isolate(t)
	cfg := config.Default()
	cfg.Model.Provider = "local"
	cfg.UI.TypingDelayMs = 0
	cfg.Logging.File = ""

	app, err := NewApp(context.Background(), cfg, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// scriptReader replays fixed input lines, then reports EOF.
type scriptReader struct {
	lines   []string
	prompts []string
	masked  int
	history []string
}

func (r *scriptReader) next(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	l := r.lines[0]
	r.lines = r.lines[1:]
	return l, nil
}

func (r *scriptReader) Prompt(prompt string) (string, error) { return r.next(prompt) }

func (r *scriptReader) PasswordPrompt(prompt string) (string, error) {
	r.masked++
	return r.next(prompt)
}

func (r *scriptReader) AppendHistory(item string) { r.history = append(r.history, item) }

// =============================================================================
// APP WIRING
// =============================================================================

func TestNewApp_Defaults(t *testing.T) {
	app := testApp(t)

	assert.Equal(t, "local", app.Runner.Client().Name())
	assert.NotNil(t, app.Operator)
	assert.Equal(t, "USCSS NOSTROMO", app.Title)
	assert.Len(t, app.Session.Systems(), 5)
	assert.Equal(t, []ship.TerminalEntry{ship.Response(session.DefaultGreeting)}, app.Session.History())

	w, err := app.Watch()
	require.NoError(t, err)
	assert.Nil(t, w, "nothing to watch without a scenario file")
}

func TestNewApp_ScenarioAndOverrides(t *testing.T) {
	isolate(t)
	sc := scenario.Default()
	sc.Name = "SEVASTOPOL"
	sc.Greeting = "SEEGSON ONLINE."
	sc.Theme = "orange"
	path := filepath.Join(t.TempDir(), "station.yaml")
	require.NoError(t, scenario.Save(path, sc))

	cfg := config.Default()
	cfg.Model.Provider = "local"
	cfg.Logging.File = ""
	cfg.Scenario.Path = path
	cfg.UI.Operator = false

	app, err := NewApp(context.Background(), cfg, "green")
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "SEVASTOPOL", app.Title)
	assert.Equal(t, "green", app.Session.Theme(), "flag wins over the scenario theme")
	assert.Nil(t, app.Operator)
	last, _ := app.Session.Last()
	assert.Equal(t, "SEEGSON ONLINE.", last.Text)
}

func TestNewApp_BadScenario(t *testing.T) {
	isolate(t)
	cfg := config.Default()
	cfg.Logging.File = ""
	cfg.Scenario.Path = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewApp(context.Background(), cfg, "")
	require.Error(t, err)
}

// =============================================================================
// PLAIN TERMINAL
// =============================================================================

func TestRepl_Session(t *testing.T) {
	app := testApp(t)
	in := &scriptReader{lines: []string{
		"LOGIN",
		"ash",
		"937",
		"STATUS OF ENGINES",
		"/system set engines offline",
		"/quit",
		"NEVER READ",
	}}
	var out bytes.Buffer

	require.NoError(t, NewRepl(app, in, &out, 80).Run(context.Background()))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, session.DefaultGreeting))
	assert.Contains(t, text, interpreter.MsgIdentity)
	assert.Contains(t, text, interpreter.AccessGranted("SCIENCE OFFICER"))
	assert.Contains(t, text, "SYSTEM DIAGNOSTIC: ENGINES")
	assert.Contains(t, text, "SYSTEM: ENGINES")
	assert.Contains(t, text, "// SYSTEM ENGINES NOW OFFLINE.")
	assert.NotContains(t, text, "NEVER READ")

	assert.Equal(t, 1, in.masked, "only the passcode is read masked")
	assert.NotContains(t, in.history, "937", "passcodes stay out of line history")
	assert.Equal(t, "[SCIENCE OFFICER]> ", in.prompts[4])
}

func TestRepl_EOFEndsCleanly(t *testing.T) {
	app := testApp(t)
	var out bytes.Buffer
	require.NoError(t, NewRepl(app, &scriptReader{}, &out, 80).Run(context.Background()))
	assert.Contains(t, out.String(), session.DefaultGreeting)
}

func TestRepl_SlashPasscodeLogsIn(t *testing.T) {
	app := testApp(t)
	require.NotNil(t, app.Operator)
	_, err := app.Session.AddCrew(ship.CrewMember{Name: "BISHOP", Role: "XO", Password: "/egg"})
	require.NoError(t, err)

	var out bytes.Buffer
	repl := NewRepl(app, &scriptReader{}, &out, 80)
	for _, line := range []string{"LOGIN", "BISHOP", "/egg"} {
		quit, err := repl.Handle(context.Background(), line)
		require.NoError(t, err, line)
		assert.False(t, quit)
	}

	assert.Equal(t, "XO", app.Session.Role())
	assert.Equal(t, ship.ModeCommand, app.Session.State().Mode)
	assert.NotContains(t, out.String(), "// ")
}

func TestRepl_OperatorErrorKeepsRunning(t *testing.T) {
	app := testApp(t)
	in := &scriptReader{lines: []string{"/bogus", "/clear"}}
	var out bytes.Buffer

	require.NoError(t, NewRepl(app, in, &out, 80).Run(context.Background()))
	text := out.String()
	assert.Contains(t, text, "[ERROR]")
	assert.Contains(t, text, "unknown command")
	// /clear reprints the greeting.
	assert.Equal(t, 2, strings.Count(text, session.DefaultGreeting))
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestAskCommand(t *testing.T) {
	isolate(t)
	cfgPath := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "ask", "STATUS", "OF", "LIFE", "SUPPORT")
	require.NoError(t, err)
	assert.Contains(t, out, "SYSTEM DIAGNOSTIC: LIFE SUPPORT")
	assert.Contains(t, out, "SYSTEM: LIFE SUPPORT")
	assert.NotContains(t, out, session.DefaultGreeting)
}

func TestAskCommand_Login(t *testing.T) {
	isolate(t)
	cfgPath := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "ask", "SPECIAL ORDER 937")
	require.NoError(t, err)
	assert.NotContains(t, out, "DATA LOG", "restricted log hidden without login")

	out, err = run(t, "--config", cfgPath, "ask", "--login", "ash:937", "SPECIAL ORDER 937")
	require.NoError(t, err)
	assert.Contains(t, out, "DATA LOG: SPECIAL ORDER 937")

	_, err = run(t, "--config", cfgPath, "ask", "--login", "ash:wrong", "HELLO")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	_, err = run(t, "--config", cfgPath, "ask", "--login", "ash", "HELLO")
	require.Error(t, err)
}

func TestScenarioCommands(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "ship.toml")

	out, err := run(t, "scenario", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	_, err = run(t, "scenario", "init", path)
	require.Error(t, err, "refuses to overwrite")
	_, err = run(t, "scenario", "init", "--force", path)
	require.NoError(t, err)

	out, err = run(t, "scenario", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "USCSS NOSTROMO: OK")
	assert.Contains(t, out, "Logs:    3 (1 public)")
	assert.Contains(t, out, "Crew:    7")
	assert.Contains(t, out, "Systems: 5")
}

func TestScenarioCheck_Invalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("systems:\n  - name: X\n    status: MELTING\n"), 0600))

	_, err := run(t, "scenario", "check", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "systems[0]")
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestConfigCommands(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	_, err := run(t, "--config", cfgPath, "config", "set", "ui.theme", "green")
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "green\n", out)

	_, err = run(t, "--config", cfgPath, "config", "set", "ui.theme", "purple")
	require.Error(t, err)
	var verrs config.ValidateErrors
	assert.True(t, errors.As(err, &verrs))

	_, err = run(t, "--config", cfgPath, "config", "set", "ui.nope", "x")
	require.Error(t, err)

	out, err = run(t, "--config", cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfgPath+"\n", out)
}

func TestConfigShow_Redacts(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-live-secret")
	cfgPath := writeConfig(t)

	out, err := run(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "sk-live-secret")
	assert.Contains(t, out, "[REDACTED]")

	out, err = run(t, "--config", cfgPath, "config", "get", "model.openai_key")
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "muthership "+Version)
	assert.Contains(t, out, "Commit:")
}

func TestUnknownProviderFlag(t *testing.T) {
	isolate(t)
	_, err := run(t, "--config", writeConfig(t), "--provider", "hal9000", "ask", "HELLO")
	require.Error(t, err)
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneralError},
		{"config", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"scenario record", fmt.Errorf("crew[0]: %w", ship.ErrInvalid), ExitConfigError},
		{"format", fmt.Errorf("x: %w", scenario.ErrUnsupportedFormat), ExitUsageError},
		{"query", &queryError{err: errors.New("offline")}, ExitQueryError},
		{"wrapped command", commandError("ask", "login", errors.New("denied")), ExitGeneralError},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
