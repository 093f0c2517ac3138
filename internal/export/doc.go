// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes terminal transcripts to disk on operator request.
//
// # Supported Formats
//
//   - md: human-readable Markdown with YAML frontmatter
//   - json: the complete transcript for tooling
//   - yaml: the complete transcript, easy to hand-edit
//
// # Usage
//
//	t := export.FromSession(sess, "NOSTROMO", time.Now())
//	exporter, err := export.New("md")
//	if err != nil {
//		return err
//	}
//	path, err := export.ExportToFile(t, exporter, "logs/")
package export
