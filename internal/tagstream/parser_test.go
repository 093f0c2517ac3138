// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tagstream

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// SINGLE CHUNK
// =============================================================================

func TestParseAll_SingleTag(t *testing.T) {
	got := ParseAll("HELLO [DISPLAY_SYSTEM: HYPERDRIVE] WORLD")
	want := []Event{Text("HELLO "), Visual("HYPERDRIVE"), Text(" WORLD")}
	assert.Equal(t, want, got)
}

func TestParseAll_Cases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{
			name:  "plain text",
			input: "ALL SYSTEMS NOMINAL.",
			want:  []Event{Text("ALL SYSTEMS NOMINAL.")},
		},
		{
			name:  "tag only",
			input: "[DISPLAY_SYSTEM:ENGINES]",
			want:  []Event{Visual("ENGINES")},
		},
		{
			name:  "empty name",
			input: "A[DISPLAY_SYSTEM:   ]B",
			want:  []Event{Text("A"), Visual(""), Text("B")},
		},
		{
			name:  "two tags",
			input: "[DISPLAY_SYSTEM: A][DISPLAY_SYSTEM: B] end",
			want:  []Event{Visual("A"), Visual("B"), Text(" end")},
		},
		{
			name:  "unterminated tag at end",
			input: "TEXT [DISPLAY",
			want:  []Event{Text("TEXT [DISPLAY")},
		},
		{
			name:  "unterminated full literal",
			input: "X [DISPLAY_SYSTEM: ENGINES",
			want:  []Event{Text("X [DISPLAY_SYSTEM: ENGINES")},
		},
		{
			name:  "case sensitive literal",
			input: "[display_system: ENGINES]",
			want:  []Event{Text("[display_system: ENGINES]")},
		},
		{
			name:  "non greedy name",
			input: "[DISPLAY_SYSTEM: A] mid ] end",
			want:  []Event{Visual("A"), Text(" mid ] end")},
		},
		{
			name:  "unrelated brackets",
			input: "[WARN] [DISPLAY_SYSTEM: CORE] [OK]",
			want:  []Event{Text("[WARN] "), Visual("CORE"), Text(" [OK]")},
		},
		{
			name:  "nested opener belongs to first tag",
			input: "[DISPLAY_SYSTEM: A [DISPLAY_SYSTEM: B] x",
			want:  []Event{Visual("A [DISPLAY_SYSTEM: B"), Text(" x")},
		},
		{
			name:  "name spans newline",
			input: "[DISPLAY_SYSTEM:\nLIFE SUPPORT\n]",
			want:  []Event{Visual("LIFE SUPPORT")},
		},
		{
			name:  "empty input",
			input: "",
			want:  []Event{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAll(tt.input))
		})
	}
}

// =============================================================================
// INCREMENTAL BEHAVIOUR
// =============================================================================

func TestFeed_HoldsBackPossibleTag(t *testing.T) {
	p := New()

	events := p.Feed("TEXT [DISP")
	require.Equal(t, []Event{Text("TEXT ")}, events)
	assert.Equal(t, "[DISP", p.Pending())

	events = p.Feed("LAY_SYSTEM: ENG")
	assert.Empty(t, events)
	assert.Equal(t, "[DISPLAY_SYSTEM: ENG", p.Pending())

	events = p.Feed("INES] ok")
	assert.Equal(t, []Event{Visual("ENGINES"), Text(" ok")}, events)
	assert.Empty(t, p.Pending())
	assert.Nil(t, p.Flush())
}

func TestFeed_ReleasesFalseStart(t *testing.T) {
	p := New()

	require.Equal(t, []Event{Text("A ")}, p.Feed("A [DIS"))
	// The retained text can no longer become a tag.
	assert.Equal(t, []Event{Text("[DISK FULL")}, p.Feed("K FULL"))
	assert.Empty(t, p.Pending())
}

func TestFeed_RetainsLaterPrefixAfterEarlierBracket(t *testing.T) {
	p := New()

	events := p.Feed("[X] [")
	assert.Equal(t, []Event{Text("[X] ")}, events)
	assert.Equal(t, "[", p.Pending())
}

func TestFeed_SplitRune(t *testing.T) {
	p := New()
	word := "ÉTAT"
	first := p.Feed(word[:1])
	assert.Empty(t, first)
	rest := p.Feed(word[1:])
	assert.Equal(t, []Event{Text(word)}, rest)
}

func TestFlush_EmptyAfterReset(t *testing.T) {
	p := New()
	p.Feed("[DISPLAY")
	p.Reset()
	assert.Nil(t, p.Flush())
}

// =============================================================================
// CHUNK BOUNDARY INVARIANCE
// =============================================================================

var invarianceInputs = []string{
	"HELLO [DISPLAY_SYSTEM: HYPERDRIVE] WORLD",
	"STATUS: [DISPLAY_SYSTEM: ENGINES]\nREACTOR [DISPLAY_SYSTEM:REACTOR] NOMINAL [DISPLAY",
	"[[[DISPLAY_SYSTEM: A]]] [DISPLAY_SYSTEM [DISPLAY_SYSTEM:B]",
	"no tags here at all, just [brackets] and words",
	"[DISPLAY_SYSTEM: A [DISPLAY_SYSTEM: B] [DISPLAY_SYSTEM:] tail [",
	"ÉNERGIE [DISPLAY_SYSTEM: ÉCLAIRAGE] ÅÄÖ",
}

func TestInvariance_TwoWaySplits(t *testing.T) {
	for _, input := range invarianceInputs {
		want := ParseAll(input)
		for i := 0; i <= len(input); i++ {
			got := ParseAll(input[:i], input[i:])
			if !assert.Equal(t, want, got, "split at %d of %q", i, input) {
				return
			}
		}
	}
}

func TestInvariance_RandomSplits(t *testing.T) {
	rng := rand.New(rand.NewSource(937))
	for _, input := range invarianceInputs {
		want := ParseAll(input)
		for round := 0; round < 200; round++ {
			chunks := randomSplit(rng, input)
			got := ParseAll(chunks...)
			if !assert.Equal(t, want, got, "chunks %q", chunks) {
				return
			}
		}
	}
}

func TestInvariance_ByteAtATime(t *testing.T) {
	for _, input := range invarianceInputs {
		chunks := make([]string, 0, len(input))
		for i := 0; i < len(input); i++ {
			chunks = append(chunks, input[i:i+1])
		}
		assert.Equal(t, ParseAll(input), ParseAll(chunks...), "input %q", input)
	}
}

// =============================================================================
// CONSERVATION
// =============================================================================

func TestConservation(t *testing.T) {
	for _, input := range invarianceInputs {
		events := ParseAll(input)

		var text strings.Builder
		for _, ev := range events {
			if ev.Kind == EventText {
				text.WriteString(ev.Text)
				assert.False(t, containsCompleteTag(ev.Text), "complete tag leaked in %q", ev.Text)
			}
		}
		assert.Equal(t, exciseTags(input), text.String(), "input %q", input)
	}
}

// exciseTags removes complete tags with the same leftmost rule, in one pass
// over the whole input.
func exciseTags(s string) string {
	var out strings.Builder
	for {
		start, end, _, ok := findTag(s)
		if !ok {
			out.WriteString(s)
			return out.String()
		}
		out.WriteString(s[:start])
		s = s[end:]
	}
}

func containsCompleteTag(s string) bool {
	i := strings.Index(s, Literal)
	return i >= 0 && strings.IndexByte(s[i:], ']') >= 0
}

func randomSplit(rng *rand.Rand, s string) []string {
	var chunks []string
	for len(s) > 0 {
		n := rng.Intn(6) + 1
		if n > len(s) {
			n = len(s)
		}
		chunks = append(chunks, s[:n])
		s = s[n:]
	}
	return chunks
}
