// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scenario loads and saves operator-authored game content.
//
// A scenario bundles the persona, greeting, data logs, crew roster and ship
// systems for one session. Files are TOML (.toml) or YAML (.yaml, .yml):
//
//	name = "USCSS NOSTROMO"
//	persona = "You are MUTHER 6000..."
//
//	[[logs]]
//	title = "SPECIAL ORDER 937"
//	content = "CREW EXPENDABLE."
//	required_role = "SCIENCE OFFICER"
//
//	[[crew]]
//	name = "DALLAS"
//	role = "CAPTAIN"
//	password = "password"
//
//	[[systems]]
//	name = "ENGINES"
//	status = "DAMAGED"
//
// Apply pushes a scenario into a session through the same validation as
// operator edits. Watch reports edits made in an external editor so the
// terminal can reload.
package scenario
