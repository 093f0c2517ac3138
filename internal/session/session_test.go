// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// sequentialIDs returns an ID generator producing id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// =============================================================================
// CONSTRUCTION AND HISTORY
// =============================================================================

func TestNew_StartsWithGreeting(t *testing.T) {
	s := New()

	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, ship.Response(DefaultGreeting), h[0])
	assert.Equal(t, DefaultTheme, s.Theme())
	assert.Equal(t, ship.ModeCommand, s.State().Mode)
	assert.Empty(t, s.Role())
}

func TestHistory_AppendAndMutateTrailing(t *testing.T) {
	s := New(WithGreeting(""))
	assert.Empty(t, s.History())

	err := s.AppendToLast("x")
	assert.ErrorIs(t, err, ErrNoResponse)

	s.Append(ship.Command(">", "STATUS"))
	assert.ErrorIs(t, s.AppendToLast("x"), ErrNoResponse, "command entries are immutable")

	s.Append(ship.Response(""))
	require.NoError(t, s.AppendToLast("ALL "))
	require.NoError(t, s.AppendToLast("CLEAR"))

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "ALL CLEAR", last.Text)

	require.NoError(t, s.ReplaceLast(ship.Response("// SYSTEM ERROR: boom")))
	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, "// SYSTEM ERROR: boom", h[1].Text)
}

func TestHistory_CopyIsolation(t *testing.T) {
	s := New()
	h := s.History()
	h[0].Text = "tampered"
	assert.Equal(t, DefaultGreeting, s.History()[0].Text)
}

func TestResetHistory(t *testing.T) {
	s := New(WithGreeting("HELLO"))
	s.Append(ship.Command(">", "x"))
	s.Append(ship.Response("y"))

	s.ResetHistory()
	assert.Equal(t, []ship.TerminalEntry{ship.Response("HELLO")}, s.History())
}

func TestLastResponseText(t *testing.T) {
	s := New()
	s.Append(ship.Command(">", "q"))
	s.Append(ship.Response("ANSWER"))
	s.Append(ship.Visual("ENGINES"))

	text, ok := s.LastResponseText()
	assert.True(t, ok)
	assert.Equal(t, "ANSWER", text)
}

// =============================================================================
// LOGIN STATE
// =============================================================================

func TestLoginState(t *testing.T) {
	s := New()

	s.AwaitUsername()
	assert.Equal(t, ship.InteractionState{Mode: ship.ModeAwaitingUsername}, s.State())

	s.AwaitPassword("DALLAS")
	assert.Equal(t, ship.InteractionState{Mode: ship.ModeAwaitingPassword, PendingUsername: "DALLAS"}, s.State())

	s.ResetState()
	assert.Equal(t, ship.InteractionState{Mode: ship.ModeCommand}, s.State())

	s.SetRole("captain")
	assert.Equal(t, "CAPTAIN", s.Role())
	s.ClearRole()
	assert.Empty(t, s.Role())
}

func TestBusy(t *testing.T) {
	s := New()
	require.NoError(t, s.BeginQuery())
	assert.True(t, s.Busy())
	assert.ErrorIs(t, s.BeginQuery(), ErrBusy)
	s.EndQuery()
	assert.False(t, s.Busy())
	assert.NoError(t, s.BeginQuery())
}

// =============================================================================
// COLLECTIONS
// =============================================================================

func TestLogs_CRUD(t *testing.T) {
	s := New(WithIDGenerator(sequentialIDs()))

	_, err := s.AddLog(ship.DataLog{Title: "", Content: "x"})
	assert.True(t, errors.Is(err, ship.ErrInvalid))

	l, err := s.AddLog(ship.DataLog{Title: "ORDER", Content: "secret", RequiredRole: "science officer"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", l.ID)
	assert.Equal(t, "SCIENCE OFFICER", l.RequiredRole)

	updated, err := s.UpdateLog("id-1", ship.DataLog{Title: "ORDER 937", Content: "crew expendable"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", updated.ID)
	assert.Empty(t, updated.RequiredRole)

	got, err := s.Log("id-1")
	require.NoError(t, err)
	assert.Equal(t, "ORDER 937", got.Title)

	_, err = s.RemoveLog("id-9")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.RemoveLog("id-1")
	require.NoError(t, err)
	assert.Empty(t, s.Logs())
}

func TestCrew_CRUD(t *testing.T) {
	s := New(WithIDGenerator(sequentialIDs()))

	c, err := s.AddCrew(ship.CrewMember{Name: "dallas", Role: "captain", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "DALLAS", c.Name)
	assert.Equal(t, "CAPTAIN", c.Role)

	_, err = s.AddCrew(ship.CrewMember{Name: "kane", Role: "xo"})
	assert.ErrorIs(t, err, ship.ErrInvalid)

	_, err = s.UpdateCrew(c.ID, ship.CrewMember{Name: "dallas", Role: "captain", Password: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", s.Crew()[0].Password)

	_, err = s.RemoveCrew(c.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Crew())
}

func TestSystems_CRUD(t *testing.T) {
	s := New(WithIDGenerator(sequentialIDs()))

	sys, err := s.AddSystem(ship.ShipSystem{Name: "hyperdrive"})
	require.NoError(t, err)
	assert.Equal(t, "HYPERDRIVE", sys.Name)
	assert.Equal(t, ship.StatusOptimal, sys.Status)

	_, err = s.AddSystem(ship.ShipSystem{Name: "  "})
	assert.ErrorIs(t, err, ship.ErrInvalid)

	sys, err = s.SetSystemStatus(sys.ID, ship.StatusCritical)
	require.NoError(t, err)
	assert.Equal(t, ship.StatusCritical, sys.Status)

	_, err = s.SetSystemStatus(sys.ID, ship.Status("BROKEN"))
	assert.ErrorIs(t, err, ship.ErrInvalid)

	found, ok := s.SystemByName("Hyperdrive")
	assert.True(t, ok)
	assert.Equal(t, sys.ID, found.ID)

	_, ok = s.SystemByName("warp core")
	assert.False(t, ok)

	_, err = s.UpdateSystem(sys.ID, ship.ShipSystem{Name: "hyperdrive", Status: "offline", Details: "cold"})
	require.NoError(t, err)
	assert.Equal(t, ship.StatusOffline, s.Systems()[0].Status)

	_, err = s.RemoveSystem(sys.ID)
	require.NoError(t, err)
	assert.Empty(t, s.Systems())
}

func TestIDPrefixResolution(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}
	s := New(WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	for _, title := range []string{"A", "B", "C"} {
		_, err := s.AddLog(ship.DataLog{Title: title, Content: "x"})
		require.NoError(t, err)
	}

	l, err := s.Log("abc")
	require.NoError(t, err)
	assert.Equal(t, "A", l.Title)

	_, err = s.Log("ab")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = s.Log("")
	assert.ErrorIs(t, err, ErrNotFound)

	l, err = s.Log("x")
	require.NoError(t, err)
	assert.Equal(t, "C", l.Title)
}

func TestIDsAreUnique(t *testing.T) {
	s := New()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		l, err := s.AddLog(ship.DataLog{Title: "T", Content: "C"})
		require.NoError(t, err)
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}
}

func TestReplaceContents_AllOrNothing(t *testing.T) {
	s := New()
	_, err := s.AddLog(ship.DataLog{Title: "KEEP", Content: "x"})
	require.NoError(t, err)

	err = s.ReplaceContents(Contents{
		Logs: []ship.DataLog{{Title: "NEW", Content: "y"}},
		Crew: []ship.CrewMember{{Name: "broken"}},
	})
	require.ErrorIs(t, err, ship.ErrInvalid)
	assert.Equal(t, "KEEP", s.Logs()[0].Title)

	err = s.ReplaceContents(Contents{
		Logs:    []ship.DataLog{{Title: "NEW", Content: "y"}},
		Crew:    []ship.CrewMember{{Name: "ripley", Role: "warrant officer", Password: "jonesy"}},
		Systems: []ship.ShipSystem{{Name: "engines", Status: "damaged"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "NEW", s.Logs()[0].Title)
	assert.Equal(t, "RIPLEY", s.Crew()[0].Name)
	assert.Equal(t, ship.StatusDamaged, s.Systems()[0].Status)
	assert.NotEmpty(t, s.Systems()[0].ID)
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Append(ship.Response("x"))
			_, _ = s.AddLog(ship.DataLog{Title: "T", Content: "C"})
		}()
		go func() {
			defer wg.Done()
			_ = s.History()
			_ = s.Logs()
			_ = s.Role()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Logs(), 50)
}

// =============================================================================
// IDLE TRACKER
// =============================================================================

func TestIdleTracker(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewIdleTracker(time.Minute)
	tr.now = func() time.Time { return now }
	tr.RecordActivity()

	assert.False(t, tr.Expired())
	assert.Equal(t, time.Minute, tr.Remaining())

	now = now.Add(61 * time.Second)
	assert.True(t, tr.Expired())
	assert.False(t, tr.Expired(), "fires once per idle period")
	assert.Equal(t, time.Duration(0), tr.Remaining())

	tr.RecordActivity()
	assert.False(t, tr.Expired())
}

func TestIdleTracker_Disabled(t *testing.T) {
	tr := NewIdleTracker(0)
	assert.False(t, tr.Enabled())
	assert.False(t, tr.Expired())
	assert.Nil(t, tr.HandleTick())
}
