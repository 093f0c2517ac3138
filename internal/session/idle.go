// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// IDLE TRACKER
// =============================================================================

// IdleTracker logs a terminal out after a period without input.
// A zero timeout disables it.
type IdleTracker struct {
	mu sync.Mutex

	timeout      time.Duration
	lastActivity time.Time
	fired        bool

	now func() time.Time
}

// NewIdleTracker creates a tracker that expires after timeout of inactivity.
func NewIdleTracker(timeout time.Duration) *IdleTracker {
	t := &IdleTracker{timeout: timeout, now: time.Now}
	t.lastActivity = t.now()
	return t
}

// Enabled reports whether a timeout is configured.
func (t *IdleTracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeout > 0
}

// Timeout returns the configured idle timeout.
func (t *IdleTracker) Timeout() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeout
}

// SetTimeout changes the idle timeout.
func (t *IdleTracker) SetTimeout(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timeout = d
}

// RecordActivity resets the idle clock. Call on every input line.
func (t *IdleTracker) RecordActivity() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastActivity = t.now()
	t.fired = false
}

// IdleTime returns how long since the last activity.
func (t *IdleTracker) IdleTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.lastActivity)
}

// Remaining returns the time left before an idle logout.
func (t *IdleTracker) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.timeout - t.now().Sub(t.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports, once per idle period, that the timeout has elapsed.
func (t *IdleTracker) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timeout <= 0 || t.fired {
		return false
	}
	if t.now().Sub(t.lastActivity) >= t.timeout {
		t.fired = true
		return true
	}
	return false
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// IdleTickMsg is sent periodically to check for an idle logout.
type IdleTickMsg struct {
	Time time.Time
}

// IdleLogoutMsg reports that the terminal should be secured.
type IdleLogoutMsg struct{}

// IdleTickCmd schedules the next idle check.
func IdleTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return IdleTickMsg{Time: t}
	})
}

// HandleTick checks the tracker and keeps the tick running.
func (t *IdleTracker) HandleTick() tea.Cmd {
	if !t.Enabled() {
		return nil
	}
	if t.Expired() {
		return tea.Batch(func() tea.Msg { return IdleLogoutMsg{} }, IdleTickCmd())
	}
	return IdleTickCmd()
}
