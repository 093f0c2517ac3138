// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the complete transcript as YAML.
type YAMLExporter struct{}

// Export implements Exporter.
func (e *YAMLExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, ErrNilTranscript
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension implements Exporter.
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType implements Exporter.
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
