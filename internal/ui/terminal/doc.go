// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terminal implements the full-screen player terminal with Bubble
// Tea.
//
// The model owns no game state. Player lines go through the interpreter,
// queries stream through a query.Runner and every event is folded into the
// session with query.Apply from Update, so the UI goroutine is the only
// writer of history. Lines starting with "/" go to the operator when one is
// configured and their output lands in the side panel, never in the
// scrollback.
//
// # Key Bindings
//
//	Enter   transmit the input line
//	Ctrl+C  abort the running query, or quit when idle
//	Ctrl+Q  quit
//	Ctrl+G  toggle the operator panel
//	Ctrl+Y  copy the last reply to the clipboard
//	Tab     complete an operator command
package terminal
