// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

var exportTime = time.Date(2122, 6, 3, 14, 30, 0, 0, time.UTC)

func testTranscript() *Transcript {
	sess := session.New(session.WithTheme("green"))
	sess.SetRole("CAPTAIN")
	sess.Append(ship.Command("[CAPTAIN]>", "STATUS OF *ENGINES*"))
	sess.Append(ship.Response("ENGINES OPTIMAL."))
	sess.Append(ship.Response(""))
	sess.Append(ship.Visual("ENGINES"))
	sess.Append(ship.Command("[CAPTAIN]>", "LOGIN"))
	sess.Append(ship.Command("USERNAME:", "ASH"))
	sess.Append(ship.Command("PASSWORD:", "********"))
	return FromSession(sess, "USCSS NOSTROMO", exportTime)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func TestFromSession(t *testing.T) {
	tr := testTranscript()
	assert.Equal(t, "USCSS NOSTROMO", tr.Name)
	assert.Equal(t, "green", tr.Theme)
	assert.Equal(t, "CAPTAIN", tr.Role)
	assert.Equal(t, exportTime, tr.ExportedAt)
	require.Len(t, tr.Entries, 8, "greeting plus seven appended entries")
	assert.Equal(t, 4, tr.Commands())

	unnamed := FromSession(session.New(), "", exportTime)
	assert.Equal(t, "MUTHER TRANSCRIPT", unnamed.Name)
}

// =============================================================================
// EXPORTERS
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"md", ".md"},
		{"Markdown", ".md"},
		{"json", ".json"},
		{".yaml", ".yaml"},
		{"yml", ".yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := New(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, exp.FileExtension())
			assert.NotEmpty(t, exp.MimeType())
		})
	}

	_, err := New("html")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

var (
	_ Exporter = (*MarkdownExporter)(nil)
	_ Exporter = (*JSONExporter)(nil)
	_ Exporter = (*YAMLExporter)(nil)
)

func TestFormats_AllResolve(t *testing.T) {
	for _, format := range Formats() {
		exp, err := New(format)
		require.NoError(t, err, format)
		assert.Equal(t, "."+format, exp.FileExtension())
	}

	md, err := New("md")
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", md.MimeType())
}

func TestForPath(t *testing.T) {
	exp, err := ForPath("session.json")
	require.NoError(t, err)
	assert.IsType(t, &JSONExporter{}, exp)

	exp, err = ForPath("session")
	require.NoError(t, err)
	assert.IsType(t, &MarkdownExporter{}, exp)

	_, err = ForPath("session.pdf")
	assert.Error(t, err)
}

func TestMarkdownExporter(t *testing.T) {
	data, err := (&MarkdownExporter{}).Export(testTranscript())
	require.NoError(t, err)
	out := string(data)

	require.True(t, strings.HasPrefix(out, "---\n"))
	parts := strings.SplitN(out, "---\n", 3)
	require.Len(t, parts, 3)

	var meta frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &meta))
	assert.Equal(t, "USCSS NOSTROMO", meta.Title)
	assert.Equal(t, "CAPTAIN", meta.Role)
	assert.Equal(t, 8, meta.Entries)
	assert.Equal(t, 4, meta.Commands)
	assert.Equal(t, "2122-06-03T14:30:00Z", meta.Exported)

	assert.Contains(t, out, "# USCSS NOSTROMO")
	assert.Contains(t, out, "**`[CAPTAIN]>`** STATUS OF \\*ENGINES\\*")
	assert.Contains(t, out, "ENGINES OPTIMAL.")
	assert.Contains(t, out, "> `[DISPLAY_SYSTEM: ENGINES]`")
	assert.Contains(t, out, "**`PASSWORD:`** \\*\\*\\*\\*\\*\\*\\*\\*")
}

func TestMarkdownExporter_FencesIndentedText(t *testing.T) {
	tr := &Transcript{
		Name:    "ART",
		Entries: []ship.TerminalEntry{ship.Response("  /\\\n /  \\")},
	}
	data, err := (&MarkdownExporter{}).Export(tr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "```\n  /\\\n /  \\\n```")
}

func TestJSONExporter(t *testing.T) {
	data, err := (&JSONExporter{}).Export(testTranscript())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "USCSS NOSTROMO", decoded["name"])
	assert.Equal(t, "green", decoded["theme"])

	entries, ok := decoded["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 8)
	first := entries[1].(map[string]any)
	assert.Equal(t, "command", first["kind"])
	assert.Equal(t, "[CAPTAIN]>", first["prompt"])
	visual := entries[4].(map[string]any)
	assert.Equal(t, "ENGINES", visual["visual"])
}

func TestYAMLExporter(t *testing.T) {
	data, err := (&YAMLExporter{}).Export(testTranscript())
	require.NoError(t, err)

	var decoded struct {
		Name    string `yaml:"name"`
		Role    string `yaml:"role"`
		Entries []struct {
			Kind   string `yaml:"kind"`
			Text   string `yaml:"text"`
			Visual string `yaml:"visual"`
		} `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "USCSS NOSTROMO", decoded.Name)
	assert.Equal(t, "CAPTAIN", decoded.Role)
	require.Len(t, decoded.Entries, 8)
	assert.Equal(t, "response", decoded.Entries[0].Kind)
	assert.Equal(t, "ENGINES", decoded.Entries[4].Visual)
}

func TestExporters_NilTranscript(t *testing.T) {
	for _, exp := range []Exporter{&MarkdownExporter{}, &JSONExporter{}, &YAMLExporter{}} {
		_, err := exp.Export(nil)
		assert.ErrorIs(t, err, ErrNilTranscript)
	}
}

// =============================================================================
// FILES
// =============================================================================

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	tr := testTranscript()

	t.Run("explicit path", func(t *testing.T) {
		path, err := ExportToFile(tr, &JSONExporter{}, filepath.Join(dir, "out", "log.json"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "out", "log.json"), path)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("extension appended", func(t *testing.T) {
		path, err := ExportToFile(tr, &YAMLExporter{}, filepath.Join(dir, "log"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "log.yaml"), path)
	})

	t.Run("directory", func(t *testing.T) {
		path, err := ExportToFile(tr, &MarkdownExporter{}, dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "transcript_USCSS_NOSTROMO_21220603_143000.md"), path)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := ExportToFile(nil, &JSONExporter{}, dir)
		assert.ErrorIs(t, err, ErrNilTranscript)
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"USCSS NOSTROMO", "USCSS_NOSTROMO"},
		{"LV-426: DROP/ZONE?", "LV-426-_DROP-ZONE-"},
		{"   ", "transcript"},
		{"a\x01b", "a-b"},
		{strings.Repeat("X", 80), strings.Repeat("X", 50)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
