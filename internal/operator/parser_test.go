// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operator

import (
	"reflect"
	"testing"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"  /log list", true},
		{"STATUS REPORT", false},
		{"WHAT IS /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		if got := IsCommand(tc.input); got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Invocation
	}{
		{"/help", Invocation{Name: "/help"}},
		{"/LOG list", Invocation{Name: "/log", Args: []string{"list"}, Raw: "list"}},
		{
			`/log add "SPECIAL ORDER 937" 'CREW EXPENDABLE.'`,
			Invocation{
				Name: "/log",
				Args: []string{"add", "SPECIAL ORDER 937", "CREW EXPENDABLE."},
				Raw:  `add "SPECIAL ORDER 937" 'CREW EXPENDABLE.'`,
			},
		},
		{
			"/persona   You are MUTHER.  ",
			Invocation{Name: "/persona", Args: []string{"You", "are", "MUTHER."}, Raw: "You are MUTHER."},
		},
	}

	for _, tc := range tests {
		got, ok := Parse(tc.input)
		if !ok {
			t.Errorf("Parse(%q) not ok", tc.input)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Parse(%q) = %#v, want %#v", tc.input, got, tc.want)
		}
	}

	if _, ok := Parse("hello"); ok {
		t.Error("Parse should reject input without a slash")
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a b  c", []string{"a", "b", "c"}},
		{`"two words" one`, []string{"two words", "one"}},
		{`'it"s' x`, []string{`it"s`, "x"}},
		{`"say \"hi\""`, []string{`say "hi"`}},
		{`"" tail`, []string{"", "tail"}},
		{"\"日本 語\"", []string{"日本 語"}},
		{`"unterminated quote`, []string{"unterminated quote"}},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommandLine(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
