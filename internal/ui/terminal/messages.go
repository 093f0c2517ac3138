// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package terminal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morkalg/MUTHERSHIP/internal/query"
)

// =============================================================================
// MESSAGES
// =============================================================================

// queryEventMsg carries one event from a running query. closed is set once
// the job's event channel is drained.
type queryEventMsg struct {
	job    *query.Job
	event  query.Event
	closed bool
}

// listen waits for the next event from job.
func listen(job *query.Job) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-job.Events()
		if !ok {
			return queryEventMsg{job: job, closed: true}
		}
		return queryEventMsg{job: job, event: ev}
	}
}

// copiedMsg reports the result of a clipboard copy.
type copiedMsg struct {
	err error
}

// =============================================================================
// OPERATOR PANEL LOG
// =============================================================================

type panelLine struct {
	text string
	err  bool
}

// panelLog is a bounded list of operator output. It is shared by pointer so
// copies of the value-receiver model see the same log.
type panelLog struct {
	lines []panelLine
	max   int
}

func newPanelLog(max int) *panelLog {
	return &panelLog{max: max}
}

func (p *panelLog) add(text string, isErr bool) {
	p.lines = append(p.lines, panelLine{text: text, err: isErr})
	if over := len(p.lines) - p.max; over > 0 {
		p.lines = p.lines[over:]
	}
}

// Lines returns the plain panel text.
func (p *panelLog) Lines() []string {
	out := make([]string, len(p.lines))
	for i, l := range p.lines {
		out[i] = l.text
	}
	return out
}
