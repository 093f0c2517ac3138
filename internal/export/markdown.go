// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes a readable transcript with YAML frontmatter.
type MarkdownExporter struct{}

type frontmatter struct {
	Title     string `yaml:"title"`
	Theme     string `yaml:"theme"`
	Role      string `yaml:"role,omitempty"`
	Entries   int    `yaml:"entries"`
	Commands  int    `yaml:"commands"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, ErrNilTranscript
	}

	meta, err := yaml.Marshal(frontmatter{
		Title:     t.Name,
		Theme:     t.Theme,
		Role:      t.Role,
		Entries:   len(t.Entries),
		Commands:  t.Commands(),
		Exported:  t.ExportedAt.Format(time.RFC3339),
		Generator: "muthership",
	})
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(meta)
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(t.Name))

	for _, entry := range t.Entries {
		writeEntry(&sb, entry)
	}
	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType implements Exporter.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func writeEntry(sb *strings.Builder, entry ship.TerminalEntry) {
	switch {
	case entry.Kind == ship.EntryCommand:
		prompt := entry.Prompt
		if prompt == "" {
			prompt = ">"
		}
		fmt.Fprintf(sb, "**`%s`** %s\n\n", prompt, escapeMarkdown(entry.Text))
	case entry.HasVisual():
		fmt.Fprintf(sb, "> `[DISPLAY_SYSTEM: %s]`\n\n", entry.Visual)
	case entry.Text == "":
		// An empty response placeholder left before a visual.
	default:
		sb.WriteString(fenceIfNeeded(entry.Text))
		sb.WriteString("\n\n")
	}
}

// fenceIfNeeded keeps ASCII art and column layouts intact by wrapping text
// with leading indentation in a code block.
func fenceIfNeeded(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t") {
			return "```\n" + strings.TrimRight(text, "\n") + "\n```"
		}
	}
	return text
}

// escapeMarkdown neutralizes characters that would start markup in a
// single line of player input.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"#", `\#`,
	)
	return replacer.Replace(s)
}
