// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// DISPLAY WIDTH
// =============================================================================

// Ellipsis marks text cut short by Truncate.
const Ellipsis = "..."

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate shortens s to at most width cells, ending with an ellipsis when
// anything was cut. Wide runes are never split.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(Ellipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// PadRight pads s with spaces to width cells. Longer strings are returned
// unchanged.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Center pads s on both sides to width cells, with any odd cell on the right.
func Center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

// =============================================================================
// WRAPPING
// =============================================================================

// Wrap breaks s into lines of at most width cells at spaces. Existing line
// breaks are kept, dropping any trailing spaces. A word longer than width
// gets a line of its own and is hard-split.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return strings.Split(s, "\n")
	}

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		var line strings.Builder
		lineWidth := 0
		for _, word := range words {
			ww := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+ww > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			for ww > width {
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					break
				}
				if lineWidth > 0 {
					lines = append(lines, line.String())
					line.Reset()
					lineWidth = 0
				}
				lines = append(lines, head)
				word = word[len(head):]
				ww = runewidth.StringWidth(word)
			}
			if word == "" {
				continue
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += ww
		}
		lines = append(lines, line.String())
	}
	return lines
}
