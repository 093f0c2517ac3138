// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// MockHeader opens every reply produced by the offline substitute when no
// credential was found.
const MockHeader = "// MOCK RESPONSE: API KEY NOT FOUND."

// personaExcerptLen is how many runes of the persona the echo reply quotes.
const personaExcerptLen = 50

// LocalConfig configures the offline substitute.
type LocalConfig struct {
	// Delay between fragments. Zero streams without pacing.
	Delay time.Duration

	// ChunkRunes is the fragment size in runes (default: 1).
	ChunkRunes int

	// Header replaces MockHeader in echo replies.
	Header string
}

// Local is a deterministic stand-in used when no model is reachable. It
// answers system questions with a status report and a display tag, data
// log questions with the log text, and anything else with an echo.
type Local struct {
	config LocalConfig
}

// NewLocal creates the offline substitute.
func NewLocal(cfg LocalConfig) *Local {
	if cfg.ChunkRunes <= 0 {
		cfg.ChunkRunes = 1
	}
	if cfg.Header == "" {
		cfg.Header = MockHeader
	}
	return &Local{config: cfg}
}

// Name implements Client.
func (l *Local) Name() string {
	return "local"
}

// Stream implements Client.
func (l *Local) Stream(ctx context.Context, req Request) (Stream, error) {
	s := &localStream{
		runes: []rune(l.Reply(req)),
		size:  l.config.ChunkRunes,
	}
	if l.config.Delay > 0 {
		s.limiter = rate.NewLimiter(rate.Every(l.config.Delay), 1)
	}
	return s, nil
}

// Reply computes the full reply text for req.
func (l *Local) Reply(req Request) string {
	query := ship.Normalize(req.Query)

	if sys, ok := mentionedSystem(query, req.Systems); ok {
		var sb strings.Builder
		fmt.Fprintf(&sb, "SYSTEM DIAGNOSTIC: %s\n", sys.Name)
		fmt.Fprintf(&sb, "STATUS: %s\n", sys.Status)
		if sys.Details != "" {
			fmt.Fprintf(&sb, "DETAILS: %s\n", sys.Details)
		}
		fmt.Fprintf(&sb, "[DISPLAY_SYSTEM: %s]", sys.Name)
		return sb.String()
	}

	for _, log := range req.Logs {
		title := ship.Normalize(log.Title)
		if title != "" && strings.Contains(query, title) {
			return fmt.Sprintf("DATA LOG: %s\n%s", title, log.Content)
		}
	}

	persona := []rune(req.Persona)
	if len(persona) > personaExcerptLen {
		persona = persona[:personaExcerptLen]
	}
	return fmt.Sprintf("%s\n// Persona: %s...\n// Query: %s", l.config.Header, string(persona), req.Query)
}

// mentionedSystem finds the longest system name contained in query.
func mentionedSystem(query string, systems []ship.ShipSystem) (ship.ShipSystem, bool) {
	candidates := append([]ship.ShipSystem(nil), systems...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Name) > len(candidates[j].Name)
	})
	for _, sys := range candidates {
		name := ship.Normalize(sys.Name)
		if name != "" && strings.Contains(query, name) {
			return sys, true
		}
	}
	return ship.ShipSystem{}, false
}

// localStream yields a precomputed reply in fixed-size fragments.
type localStream struct {
	runes   []rune
	pos     int
	size    int
	limiter *rate.Limiter
	closed  atomic.Bool
}

// Next implements Stream.
func (s *localStream) Next(ctx context.Context) (string, error) {
	if s.closed.Load() || s.pos >= len(s.runes) {
		return "", io.EOF
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctxErr := wrapContextErr("local", ctx.Err()); ctxErr != nil {
				return "", ctxErr
			}
			return "", &ClientError{Type: ErrTypeUnknown, Provider: "local", Message: "pacing failed", Cause: err}
		}
	} else if err := ctx.Err(); err != nil {
		return "", wrapContextErr("local", err)
	}

	end := s.pos + s.size
	if end > len(s.runes) {
		end = len(s.runes)
	}
	frag := string(s.runes[s.pos:end])
	s.pos = end
	return frag, nil
}

// Close implements Stream.
func (s *localStream) Close() error {
	s.closed.Store(true)
	return nil
}
