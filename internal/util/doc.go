// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across MUTHERSHIP.
//
// File Operations:
//   - AtomicWriteFile: crash-safe writes for config, scenario and export files
//
// Display Text (terminal cell widths, via go-runewidth):
//   - Width, Truncate, PadRight, Center
//   - Wrap: word wrapping for the plain REPL and diagnostic boxes
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//	for _, line := range util.Wrap(reply, 72) {
//		fmt.Println(line)
//	}
package util
