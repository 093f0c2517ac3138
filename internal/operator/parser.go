// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operator

import (
	"strings"
	"unicode"
)

// =============================================================================
// INVOCATION
// =============================================================================

// Invocation is one parsed operator command line.
type Invocation struct {
	// Name is the command word including the slash, lower-cased.
	Name string

	// Args are the quote-aware tokens after the name.
	Args []string

	// Raw is everything after the name, trimmed but otherwise untouched.
	Raw string
}

// IsCommand reports whether input is addressed to the operator surface.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// Parse splits an operator command line. ok is false when input does not
// start with a slash.
func Parse(input string) (Invocation, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return Invocation{}, false
	}

	name, rest := input, ""
	if end := strings.IndexFunc(input, unicode.IsSpace); end >= 0 {
		name, rest = input[:end], strings.TrimSpace(input[end:])
	}
	return Invocation{
		Name: strings.ToLower(name),
		Args: splitCommandLine(rest),
		Raw:  rest,
	}, true
}

// splitCommandLine splits on whitespace, honoring single and double quotes.
// A backslash inside quotes escapes a quote or another backslash.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingle, inDouble, quoted bool

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			quoted = true

		case r == '"' && !inSingle:
			inDouble = !inDouble
			quoted = true

		case r == '\\' && i+1 < len(runes) && (inSingle || inDouble):
			next := runes[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(r)
			}

		case unicode.IsSpace(r) && !inSingle && !inDouble:
			if current.Len() > 0 || quoted {
				tokens = append(tokens, current.String())
				current.Reset()
				quoted = false
			}

		default:
			current.WriteRune(r)
		}
	}

	// An explicit "" is kept as an empty argument.
	if current.Len() > 0 || quoted {
		tokens = append(tokens, current.String())
	}
	return tokens
}
