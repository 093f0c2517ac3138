// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"reflect"
	"testing"
)

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestThemeNames(t *testing.T) {
	want := []string{"blue", "green", "orange"}
	if got := ThemeNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ThemeNames() = %v, want %v", got, want)
	}
}

func TestHasTheme(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"blue", true},
		{"GREEN", true},
		{" orange ", true},
		{"amber", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasTheme(tt.name); got != tt.want {
			t.Errorf("HasTheme(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("green")
	if !ok || p.Primary != Green400 || p.Accent != Green500 {
		t.Errorf("Lookup(green) = %+v, %v", p, ok)
	}

	p, ok = Lookup("mauve")
	if ok {
		t.Error("Lookup(mauve) should report unknown")
	}
	if p.Name != DefaultTheme {
		t.Errorf("unknown theme should fall back to %q, got %q", DefaultTheme, p.Name)
	}
}

// =============================================================================
// THEME TESTS
// =============================================================================

func TestNewTheme(t *testing.T) {
	theme := NewTheme("orange")
	if theme.Name() != "orange" {
		t.Errorf("Name() = %q, want orange", theme.Name())
	}
	if theme.Response.GetForeground() != Orange400 {
		t.Errorf("Response foreground = %v, want Orange400", theme.Response.GetForeground())
	}
	if theme.Prompt.GetForeground() != Orange500 {
		t.Errorf("Prompt foreground = %v, want Orange500", theme.Prompt.GetForeground())
	}
}

func TestWithPalette(t *testing.T) {
	blue := NewTheme("blue")
	green := blue.WithPalette("green")

	if blue.Name() != "blue" {
		t.Error("WithPalette must not modify the receiver")
	}
	if green.Name() != "green" {
		t.Errorf("Name() = %q, want green", green.Name())
	}
	if green.Response.GetForeground() != Green400 {
		t.Error("styles should be rebuilt from the new palette")
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status string
		want   interface{}
	}{
		{"OPTIMAL", StatusOptimal},
		{"OFFLINE", StatusOffline},
		{"DAMAGED", StatusAlert},
		{"CRITICAL", StatusAlert},
	}
	for _, tt := range tests {
		if got := StatusColor(tt.status); got != tt.want {
			t.Errorf("StatusColor(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
