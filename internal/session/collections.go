// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// =============================================================================
// DATA LOGS
// =============================================================================

// Logs returns a copy of the data logs in insertion order.
func (s *Session) Logs() []ship.DataLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ship.DataLog(nil), s.logs...)
}

// AddLog validates, normalizes and stores a new log under a fresh ID.
func (s *Session) AddLog(l ship.DataLog) (ship.DataLog, error) {
	if err := l.Validate(); err != nil {
		return ship.DataLog{}, err
	}
	l = l.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.newID()
	s.logs = append(s.logs, l)
	return l, nil
}

// UpdateLog replaces the log with the given ID or unique ID prefix.
func (s *Session) UpdateLog(ref string, l ship.DataLog) (ship.DataLog, error) {
	if err := l.Validate(); err != nil {
		return ship.DataLog{}, err
	}
	l = l.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.logIndex(ref)
	if err != nil {
		return ship.DataLog{}, err
	}
	l.ID = s.logs[i].ID
	s.logs[i] = l
	return l, nil
}

// RemoveLog deletes the log with the given ID or unique ID prefix.
func (s *Session) RemoveLog(ref string) (ship.DataLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.logIndex(ref)
	if err != nil {
		return ship.DataLog{}, err
	}
	removed := s.logs[i]
	s.logs = append(s.logs[:i], s.logs[i+1:]...)
	return removed, nil
}

// Log returns one log by ID or unique prefix.
func (s *Session) Log(ref string) (ship.DataLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, err := s.logIndex(ref)
	if err != nil {
		return ship.DataLog{}, err
	}
	return s.logs[i], nil
}

func (s *Session) logIndex(ref string) (int, error) {
	ids := make([]string, len(s.logs))
	for i, l := range s.logs {
		ids[i] = l.ID
	}
	return indexOf(ids, ref, "log")
}

// =============================================================================
// CREW
// =============================================================================

// Crew returns a copy of the crew roster.
func (s *Session) Crew() []ship.CrewMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ship.CrewMember(nil), s.crew...)
}

// AddCrew validates, normalizes and stores a new crew member.
func (s *Session) AddCrew(c ship.CrewMember) (ship.CrewMember, error) {
	if err := c.Validate(); err != nil {
		return ship.CrewMember{}, err
	}
	c = c.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.newID()
	s.crew = append(s.crew, c)
	return c, nil
}

// UpdateCrew replaces the crew member with the given ID or unique prefix.
func (s *Session) UpdateCrew(ref string, c ship.CrewMember) (ship.CrewMember, error) {
	if err := c.Validate(); err != nil {
		return ship.CrewMember{}, err
	}
	c = c.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.crewIndex(ref)
	if err != nil {
		return ship.CrewMember{}, err
	}
	c.ID = s.crew[i].ID
	s.crew[i] = c
	return c, nil
}

// RemoveCrew deletes the crew member with the given ID or unique prefix.
// An active login keeps its role until LOGOUT.
func (s *Session) RemoveCrew(ref string) (ship.CrewMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.crewIndex(ref)
	if err != nil {
		return ship.CrewMember{}, err
	}
	removed := s.crew[i]
	s.crew = append(s.crew[:i], s.crew[i+1:]...)
	return removed, nil
}

func (s *Session) crewIndex(ref string) (int, error) {
	ids := make([]string, len(s.crew))
	for i, c := range s.crew {
		ids[i] = c.ID
	}
	return indexOf(ids, ref, "crew member")
}

// =============================================================================
// SHIP SYSTEMS
// =============================================================================

// Systems returns a copy of the ship systems.
func (s *Session) Systems() []ship.ShipSystem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ship.ShipSystem(nil), s.systems...)
}

// AddSystem validates, normalizes and stores a new ship system.
func (s *Session) AddSystem(sys ship.ShipSystem) (ship.ShipSystem, error) {
	if err := sys.Validate(); err != nil {
		return ship.ShipSystem{}, err
	}
	sys = sys.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	sys.ID = s.newID()
	s.systems = append(s.systems, sys)
	return sys, nil
}

// UpdateSystem replaces the system with the given ID or unique prefix.
func (s *Session) UpdateSystem(ref string, sys ship.ShipSystem) (ship.ShipSystem, error) {
	if err := sys.Validate(); err != nil {
		return ship.ShipSystem{}, err
	}
	sys = sys.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.systemIndex(ref)
	if err != nil {
		return ship.ShipSystem{}, err
	}
	sys.ID = s.systems[i].ID
	s.systems[i] = sys
	return sys, nil
}

// SetSystemStatus changes only the status of a system.
func (s *Session) SetSystemStatus(ref string, status ship.Status) (ship.ShipSystem, error) {
	if !status.Valid() {
		return ship.ShipSystem{}, &ship.ValidationError{Field: "system.status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.systemIndex(ref)
	if err != nil {
		return ship.ShipSystem{}, err
	}
	s.systems[i].Status = status
	return s.systems[i], nil
}

// RemoveSystem deletes the system with the given ID or unique prefix.
func (s *Session) RemoveSystem(ref string) (ship.ShipSystem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.systemIndex(ref)
	if err != nil {
		return ship.ShipSystem{}, err
	}
	removed := s.systems[i]
	s.systems = append(s.systems[:i], s.systems[i+1:]...)
	return removed, nil
}

// SystemByName looks a system up by normalized name.
func (s *Session) SystemByName(name string) (ship.ShipSystem, bool) {
	want := ship.Normalize(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sys := range s.systems {
		if sys.Name == want {
			return sys, true
		}
	}
	return ship.ShipSystem{}, false
}

func (s *Session) systemIndex(ref string) (int, error) {
	ids := make([]string, len(s.systems))
	for i, sys := range s.systems {
		ids[i] = sys.ID
	}
	return indexOf(ids, ref, "system")
}

// =============================================================================
// BULK REPLACEMENT
// =============================================================================

// Contents is a full set of collections, used when loading a scenario.
type Contents struct {
	Logs    []ship.DataLog
	Crew    []ship.CrewMember
	Systems []ship.ShipSystem
}

// ReplaceContents validates every record and swaps all three collections
// at once. Nothing changes if any record is invalid. Fresh IDs are issued.
func (s *Session) ReplaceContents(c Contents) error {
	logs := make([]ship.DataLog, 0, len(c.Logs))
	for i, l := range c.Logs {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("log %d: %w", i+1, err)
		}
		logs = append(logs, l.Normalized())
	}
	crew := make([]ship.CrewMember, 0, len(c.Crew))
	for i, m := range c.Crew {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("crew %d: %w", i+1, err)
		}
		crew = append(crew, m.Normalized())
	}
	systems := make([]ship.ShipSystem, 0, len(c.Systems))
	for i, sys := range c.Systems {
		if err := sys.Validate(); err != nil {
			return fmt.Errorf("system %d: %w", i+1, err)
		}
		systems = append(systems, sys.Normalized())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range logs {
		logs[i].ID = s.newID()
	}
	for i := range crew {
		crew[i].ID = s.newID()
	}
	for i := range systems {
		systems[i].ID = s.newID()
	}
	s.logs, s.crew, s.systems = logs, crew, systems
	return nil
}

func indexOf(ids []string, ref, kind string) (int, error) {
	id, err := resolve(ids, ref)
	if err != nil {
		return -1, fmt.Errorf("%s %w", kind, err)
	}
	for i := range ids {
		if ids[i] == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s %w", kind, ErrNotFound)
}
