// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package visual renders the system diagnostic panels that
// [DISPLAY_SYSTEM: name] tags place in the scrollback.
//
// A panel shows the system name and status, an animated figure picked by
// name keyword, an integrity bar and a fixed footer. Names that match no
// ship system render as [SYSTEM NOT FOUND]. Lines and Plain produce
// unstyled text for line mode; Renderer applies the terminal theme.
package visual
