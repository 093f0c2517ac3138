// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/morkalg/MUTHERSHIP/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a transcript in one file format.
type Exporter interface {
	// Export renders the transcript and returns the file content.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the extension including the dot, e.g. ".md".
	FileExtension() string

	// MimeType returns the MIME type of the rendered content.
	MimeType() string
}

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrNilTranscript is returned when there is nothing to export.
var ErrNilTranscript = errors.New("transcript is nil")

// Formats lists the accepted format names.
func Formats() []string {
	return []string{"md", "json", "yaml"}
}

// New returns the exporter for a format name.
func New(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
}

// ForPath picks the exporter from the file extension, defaulting to
// Markdown when the path has none.
func ForPath(path string) (Exporter, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return &MarkdownExporter{}, nil
	}
	return New(ext)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders t with exporter and writes it to path. When path is
// an existing directory a file name is generated inside it from the
// transcript name and export time. A missing extension is appended.
// The written path is returned.
func ExportToFile(t *Transcript, exporter Exporter, path string) (string, error) {
	if t == nil {
		return "", ErrNilTranscript
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	outputPath := path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		outputPath = filepath.Join(path, DefaultFilename(t, exporter))
	} else if filepath.Ext(path) == "" {
		outputPath = path + exporter.FileExtension()
	}

	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// DefaultFilename builds transcript_<name>_<timestamp><ext>.
func DefaultFilename(t *Transcript, exporter Exporter) string {
	stamp := t.ExportedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return fmt.Sprintf("transcript_%s_%s%s",
		sanitizeFilename(t.Name),
		stamp.Format("20060102_150405"),
		exporter.FileExtension(),
	)
}

// sanitizeFilename replaces characters that are invalid in file names on
// Windows or Unix and caps the length.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "transcript"
	}
	return string(result)
}
