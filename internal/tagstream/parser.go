// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tagstream

import (
	"strings"
	"unicode/utf8"
)

// Literal opens a display tag. Matching is case-sensitive.
const Literal = "[DISPLAY_SYSTEM:"

// closer ends a display tag.
const closer = ']'

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies the kind of parser output.
type EventKind int

const (
	// EventText carries plain text to display.
	EventText EventKind = iota
	// EventVisual asks for the named system's diagnostic to be displayed.
	EventVisual
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventVisual:
		return "visual"
	default:
		return "unknown"
	}
}

// Event is one unit of parser output.
type Event struct {
	Kind EventKind

	// Text is set for EventText.
	Text string

	// System is the trimmed tag name for EventVisual. It may be empty.
	System string
}

// Text builds a text event.
func Text(s string) Event {
	return Event{Kind: EventText, Text: s}
}

// Visual builds a visual event.
func Visual(system string) Event {
	return Event{Kind: EventVisual, System: system}
}

// =============================================================================
// PARSER
// =============================================================================

// Parser is an incremental tag extractor. The zero value is ready to use.
// A Parser is not safe for concurrent use; each stream gets its own.
type Parser struct {
	buf string
}

// New returns an empty parser.
func New() *Parser {
	return &Parser{}
}

// Pending returns the text currently held back because it could still
// become part of a tag.
func (p *Parser) Pending() string {
	return p.buf
}

// Feed appends chunk to the buffer and returns every event that is now
// certain. Text events within one call are coalesced.
func (p *Parser) Feed(chunk string) []Event {
	p.buf += chunk

	var events []Event
	emitText := func(s string) {
		if s == "" {
			return
		}
		if n := len(events); n > 0 && events[n-1].Kind == EventText {
			events[n-1].Text += s
			return
		}
		events = append(events, Text(s))
	}

	// Excise complete tags, leftmost first, each closed by its first ']'.
	for {
		start, end, name, ok := findTag(p.buf)
		if !ok {
			break
		}
		emitText(p.buf[:start])
		events = append(events, Visual(name))
		p.buf = p.buf[end:]
	}

	cut := retainFrom(p.buf)
	emitText(p.buf[:cut])
	p.buf = p.buf[cut:]

	return events
}

// Flush ends the stream and returns whatever is still buffered as text.
func (p *Parser) Flush() []Event {
	if p.buf == "" {
		return nil
	}
	rest := p.buf
	p.buf = ""
	return []Event{Text(rest)}
}

// Reset discards any buffered text.
func (p *Parser) Reset() {
	p.buf = ""
}

// findTag locates the first complete tag in s. end is the index just past
// the closing bracket.
func findTag(s string) (start, end int, name string, ok bool) {
	start = strings.Index(s, Literal)
	if start < 0 {
		return 0, 0, "", false
	}
	body := start + len(Literal)
	rel := strings.IndexByte(s[body:], closer)
	if rel < 0 {
		return 0, 0, "", false
	}
	name = strings.TrimSpace(s[body : body+rel])
	return start, body + rel + 1, name, true
}

// retainFrom returns the index from which s must be held back. Everything
// before it can never take part in a tag. s is known to hold no complete
// tag.
func retainFrom(s string) int {
	// An opened but unclosed tag keeps everything from its opening bracket.
	if i := strings.Index(s, Literal); i >= 0 {
		return i
	}

	// Otherwise the earliest suffix that is still a prefix of the literal.
	from := len(s) - (len(Literal) - 1)
	if from < 0 {
		from = 0
	}
	for i := from; i < len(s); i++ {
		if s[i] == Literal[0] && strings.HasPrefix(Literal, s[i:]) {
			return i
		}
	}

	// Hold back a rune split across chunks.
	i := len(s) - 1
	for i > 0 && len(s)-i < utf8.UTFMax && !utf8.RuneStart(s[i]) {
		i--
	}
	if i >= 0 && !utf8.FullRuneInString(s[i:]) {
		return i
	}
	return len(s)
}

// =============================================================================
// HELPERS
// =============================================================================

// Coalesce merges adjacent text events and drops empty ones.
func Coalesce(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.Kind == EventText {
			if ev.Text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == EventText {
				out[n-1].Text += ev.Text
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

// ParseAll runs a complete stream through a fresh parser and returns the
// coalesced events.
func ParseAll(chunks ...string) []Event {
	p := New()
	var events []Event
	for _, c := range chunks {
		events = append(events, p.Feed(c)...)
	}
	events = append(events, p.Flush()...)
	return Coalesce(events)
}
