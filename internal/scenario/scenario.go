// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/util"
)

// ErrUnsupportedFormat is returned for scenario files that are neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported scenario format")

// Format is a scenario file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Scenario is the operator-authored content of one game session.
type Scenario struct {
	Name     string `toml:"name" yaml:"name"`
	Persona  string `toml:"persona" yaml:"persona"`
	Greeting string `toml:"greeting,omitempty" yaml:"greeting,omitempty"`
	Theme    string `toml:"theme,omitempty" yaml:"theme,omitempty"`

	Logs    []ship.DataLog    `toml:"logs" yaml:"logs"`
	Crew    []ship.CrewMember `toml:"crew" yaml:"crew"`
	Systems []ship.ShipSystem `toml:"systems" yaml:"systems"`
}

// Validate checks every record, reporting the first failure with its
// position in the file.
func (sc *Scenario) Validate() error {
	for i, l := range sc.Logs {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("logs[%d]: %w", i, err)
		}
	}
	for i, c := range sc.Crew {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("crew[%d]: %w", i, err)
		}
	}
	for i, s := range sc.Systems {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("systems[%d]: %w", i, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates scenario data.
func Parse(data []byte, format Format) (*Scenario, error) {
	var sc Scenario
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&sc); err != nil {
			return nil, fmt.Errorf("failed to decode TOML scenario: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML scenario: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Encode renders the scenario. IDs are omitted; they are assigned afresh
// on every Apply.
func Encode(sc *Scenario, format Format) ([]byte, error) {
	out := sc.withoutIDs()
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(out); err != nil {
			return nil, fmt.Errorf("failed to encode TOML scenario: %w", err)
		}
		return buf.Bytes(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("failed to encode YAML scenario: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Save writes the scenario atomically, choosing the format from the
// extension.
func Save(path string, sc *Scenario) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(sc, format)
	if err != nil {
		return err
	}
	// Crew passwords live here, so keep the file private.
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}
	return nil
}

func (sc *Scenario) withoutIDs() Scenario {
	out := *sc
	out.Logs = make([]ship.DataLog, len(sc.Logs))
	for i, l := range sc.Logs {
		l.ID = ""
		out.Logs[i] = l
	}
	out.Crew = make([]ship.CrewMember, len(sc.Crew))
	for i, c := range sc.Crew {
		c.ID = ""
		out.Crew[i] = c
	}
	out.Systems = make([]ship.ShipSystem, len(sc.Systems))
	for i, s := range sc.Systems {
		s.ID = ""
		out.Systems[i] = s
	}
	return out
}

// =============================================================================
// SESSION BRIDGE
// =============================================================================

// Apply replaces the session's collections, persona and greeting with the
// scenario's. Nothing changes if any record is invalid. An empty persona or
// greeting leaves the session's value alone, and so does an empty theme.
func (sc *Scenario) Apply(sess *session.Session) error {
	if err := sess.ReplaceContents(session.Contents{
		Logs:    sc.Logs,
		Crew:    sc.Crew,
		Systems: sc.Systems,
	}); err != nil {
		return err
	}
	if sc.Persona != "" {
		sess.SetPersona(sc.Persona)
	}
	if sc.Greeting != "" {
		sess.SetGreeting(sc.Greeting)
	}
	if sc.Theme != "" {
		sess.SetTheme(sc.Theme)
	}
	return nil
}

// Capture snapshots the session's current content as a scenario.
func Capture(sess *session.Session, name string) *Scenario {
	return &Scenario{
		Name:     name,
		Persona:  sess.Persona(),
		Greeting: sess.Greeting(),
		Theme:    sess.Theme(),
		Logs:     sess.Logs(),
		Crew:     sess.Crew(),
		Systems:  sess.Systems(),
	}
}
