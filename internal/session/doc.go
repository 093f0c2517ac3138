// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the state of one running MUTHERSHIP terminal.
//
// A Session owns the operator-edited collections (data logs, crew, ship
// systems), the persona text, the scrollback history, the active role, the
// login state machine position, the theme key and the in-flight query flag.
// Nothing is persisted; the session lives as long as the process.
//
// # History
//
// History is append-only. The trailing response entry may be extended with
// AppendToLast while a reply streams in, or swapped with ReplaceLast when a
// query fails before producing any output.
//
// # IDs
//
// Every collection item gets a UUID. Lookups accept the full ID or any
// unique prefix, so operators can type "/log rm 3f2a".
//
// # Idle Logout
//
// IdleTracker clears the role after a configurable period without input and
// plugs into a Bubble Tea program through IdleTickCmd and HandleTick.
package session
