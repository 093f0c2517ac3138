// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package operator implements the game master's slash commands.
//
// Lines beginning with "/" are routed here instead of the player
// interpreter. Commands edit the session's persona, data logs, crew and
// ship systems, switch the theme, export transcripts and reload the
// scenario file. Output goes to the operator panel; only /clear touches the
// player's scrollback.
//
// Arguments are split on whitespace with single or double quotes grouping
// words, and IDs may be given as any unique prefix:
//
//	/log add "SPECIAL ORDER 937" "CREW EXPENDABLE." "science officer"
//	/system set "long range sensors" critical
//	/crew rm 3f2a
package operator
