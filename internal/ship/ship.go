// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ship defines the in-fiction data model shared by every MUTHERSHIP
// component: data logs, crew, ship systems and terminal scrollback entries.
package ship

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize trims surrounding whitespace and upper-cases s.
// Names and role tags are always compared in this form.
func Normalize(s string) string {
	// A Caser is stateful, so one is built per call.
	return cases.Upper(language.Und).String(strings.TrimSpace(s))
}

// =============================================================================
// SYSTEM STATUS
// =============================================================================

// Status is the closed set of operating states a ShipSystem can report.
type Status string

const (
	StatusOptimal  Status = "OPTIMAL"
	StatusDamaged  Status = "DAMAGED"
	StatusCritical Status = "CRITICAL"
	StatusOffline  Status = "OFFLINE"
)

// Statuses returns every valid status in severity order.
func Statuses() []Status {
	return []Status{StatusOptimal, StatusDamaged, StatusCritical, StatusOffline}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOptimal, StatusDamaged, StatusCritical, StatusOffline:
		return true
	}
	return false
}

// String returns the status tag.
func (s Status) String() string {
	return string(s)
}

// ParseStatus accepts a status in any case.
func ParseStatus(s string) (Status, error) {
	status := Status(Normalize(s))
	if !status.Valid() {
		return "", &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("unknown status %q, must be one of: OPTIMAL, DAMAGED, CRITICAL, OFFLINE", s),
		}
	}
	return status, nil
}

// =============================================================================
// RECORDS
// =============================================================================

// DataLog is a piece of in-fiction information the model may use as context.
// An empty RequiredRole means the log is visible to everyone.
type DataLog struct {
	ID           string `toml:"id,omitempty" json:"id" yaml:"id,omitempty"`
	Title        string `toml:"title" json:"title" yaml:"title"`
	Content      string `toml:"content" json:"content" yaml:"content"`
	RequiredRole string `toml:"required_role,omitempty" json:"required_role,omitempty" yaml:"required_role,omitempty"`
}

// CrewMember is a login identity. Passwords are plain text in this fiction.
type CrewMember struct {
	ID       string `toml:"id,omitempty" json:"id" yaml:"id,omitempty"`
	Name     string `toml:"name" json:"name" yaml:"name"`
	Role     string `toml:"role" json:"role" yaml:"role"`
	Password string `toml:"password" json:"password" yaml:"password"`
}

// ShipSystem is a named ship subsystem with a reported status.
type ShipSystem struct {
	ID      string `toml:"id,omitempty" json:"id" yaml:"id,omitempty"`
	Name    string `toml:"name" json:"name" yaml:"name"`
	Status  Status `toml:"status" json:"status" yaml:"status"`
	Details string `toml:"details,omitempty" json:"details,omitempty" yaml:"details,omitempty"`
}

// Normalized returns a copy with the role tag upper-cased and the title trimmed.
func (l DataLog) Normalized() DataLog {
	l.Title = strings.TrimSpace(l.Title)
	l.RequiredRole = Normalize(l.RequiredRole)
	return l
}

// Validate checks the log has a title and content.
func (l DataLog) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return &ValidationError{Field: "log.title", Message: "title is required"}
	}
	if strings.TrimSpace(l.Content) == "" {
		return &ValidationError{Field: "log.content", Message: "content is required"}
	}
	return nil
}

// Normalized returns a copy with name and role upper-cased.
// The password is left exactly as entered.
func (c CrewMember) Normalized() CrewMember {
	c.Name = Normalize(c.Name)
	c.Role = Normalize(c.Role)
	return c
}

// Validate checks that name, role and password are all present.
func (c CrewMember) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return &ValidationError{Field: "crew.name", Message: "name is required"}
	case strings.TrimSpace(c.Role) == "":
		return &ValidationError{Field: "crew.role", Message: "role is required"}
	case c.Password == "":
		return &ValidationError{Field: "crew.password", Message: "password is required"}
	}
	return nil
}

// Normalized returns a copy with the name upper-cased. An empty status
// defaults to OPTIMAL.
func (s ShipSystem) Normalized() ShipSystem {
	s.Name = Normalize(s.Name)
	if s.Status == "" {
		s.Status = StatusOptimal
	} else {
		s.Status = Status(Normalize(string(s.Status)))
	}
	return s
}

// Validate checks the system has a name and a known status.
func (s ShipSystem) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "system.name", Message: "name is required"}
	}
	if s.Status != "" {
		if _, err := ParseStatus(string(s.Status)); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrInvalid is matched by every ValidationError.
var ErrInvalid = errors.New("invalid record")

// ValidationError describes a rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets callers test for ErrInvalid with errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
