// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package access decides which data logs a terminal role may see and
// resolves crew credentials to roles.
//
// Credentials are compared in plain text. There is no lockout, rate limit
// or hashing: logins are an in-fiction gate, not a security boundary.
package access

import (
	"errors"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// ErrInvalidCredentials is returned when no crew member matches.
var ErrInvalidCredentials = errors.New("invalid credentials")

// IsVisible reports whether log may be shown to a terminal logged in as
// role. A log without a required role is public. An empty role never
// satisfies a requirement.
func IsVisible(log ship.DataLog, role string) bool {
	required := ship.Normalize(log.RequiredRole)
	if required == "" {
		return true
	}
	return required == ship.Normalize(role)
}

// VisibleLogs filters logs down to those visible to role, keeping order.
func VisibleLogs(logs []ship.DataLog, role string) []ship.DataLog {
	visible := make([]ship.DataLog, 0, len(logs))
	for _, l := range logs {
		if IsVisible(l, role) {
			visible = append(visible, l)
		}
	}
	return visible
}

// Authenticate finds the crew member whose name matches name after
// normalization and whose password matches exactly, and returns that
// member's role.
func Authenticate(roster []ship.CrewMember, name, password string) (string, error) {
	want := ship.Normalize(name)
	for _, m := range roster {
		if ship.Normalize(m.Name) == want && m.Password == password {
			return ship.Normalize(m.Role), nil
		}
	}
	return "", ErrInvalidCredentials
}
