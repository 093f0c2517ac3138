// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package access

import (
	"errors"
	"testing"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

var roster = []ship.CrewMember{
	{ID: "1", Name: "DALLAS", Role: "CAPTAIN", Password: "password"},
	{ID: "2", Name: "ASH", Role: "SCIENCE OFFICER", Password: "Mother"},
}

// =============================================================================
// VISIBILITY
// =============================================================================

func TestIsVisible(t *testing.T) {
	public := ship.DataLog{Title: "MANIFEST", Content: "x"}
	gated := ship.DataLog{Title: "ORDER 937", Content: "y", RequiredRole: "SCIENCE OFFICER"}

	tests := []struct {
		name string
		log  ship.DataLog
		role string
		want bool
	}{
		{"public no role", public, "", true},
		{"public any role", public, "CAPTAIN", true},
		{"gated no role", gated, "", false},
		{"gated wrong role", gated, "CAPTAIN", false},
		{"gated exact role", gated, "SCIENCE OFFICER", true},
		{"gated lower-case role", gated, "science officer", true},
		{"gated partial role", gated, "SCIENCE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.log, tt.role); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibleLogs_KeepsOrder(t *testing.T) {
	logs := []ship.DataLog{
		{ID: "a", Title: "A", Content: "1"},
		{ID: "b", Title: "B", Content: "2", RequiredRole: "CAPTAIN"},
		{ID: "c", Title: "C", Content: "3"},
	}

	got := VisibleLogs(logs, "")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("Expected [a c], got %+v", got)
	}

	got = VisibleLogs(logs, "CAPTAIN")
	if len(got) != 3 || got[1].ID != "b" {
		t.Errorf("Expected all three logs for CAPTAIN, got %+v", got)
	}
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
		wantRole string
		wantErr  bool
	}{
		{"exact", "DALLAS", "password", "CAPTAIN", false},
		{"name case-insensitive", "dallas", "password", "CAPTAIN", false},
		{"name padded", "  Ash ", "Mother", "SCIENCE OFFICER", false},
		{"wrong password", "DALLAS", "wrongpass", "", true},
		{"password case-sensitive", "ASH", "mother", "", true},
		{"password of another member", "DALLAS", "Mother", "", true},
		{"unknown user", "KANE", "password", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := Authenticate(roster, tt.user, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if role != tt.wantRole {
				t.Errorf("Expected role %q, got %q", tt.wantRole, role)
			}
		})
	}
}
