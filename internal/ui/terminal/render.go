// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN
// =============================================================================

// markdownRenderer renders finished replies with glamour. Output is cached
// per text because the scrollback is redrawn on every animation frame.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newMarkdownRenderer() *markdownRenderer {
	return &markdownRenderer{width: 80, cache: make(map[string]string)}
}

// setWidth changes the wrap width, dropping cached output.
func (r *markdownRenderer) setWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == r.width && r.renderer != nil {
		return
	}
	r.width = width
	r.renderer = nil
	r.cache = make(map[string]string)
}

// render returns text as styled markdown, or false if glamour fails.
func (r *markdownRenderer) render(text string) (string, bool) {
	if out, ok := r.cache[text]; ok {
		return out, true
	}
	if r.renderer == nil {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			return "", false
		}
		r.renderer = tr
	}
	out, err := r.renderer.Render(text)
	if err != nil {
		return "", false
	}
	out = strings.Trim(out, "\n")
	r.cache[text] = out
	return out, true
}
