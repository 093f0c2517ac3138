// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"fmt"
	"strings"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// logSeparator joins data log blocks in the prompt context.
const logSeparator = "\n\n---\n\n"

// DisplayInstruction tells the model how to request a system diagnostic.
const DisplayInstruction = "DISPLAY INSTRUCTION:\n" +
	"When a query concerns one of the ship systems listed above, you may show its diagnostic " +
	"by writing the tag [DISPLAY_SYSTEM: <name>] on its own, where <name> matches a listed " +
	"SYSTEM name exactly. Never invent system names."

// BuildPrompt renders the user-turn prompt for req. The persona is not
// included; providers pass it as a system instruction.
func BuildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("CONTEXT:\n")
	sb.WriteString(FormatLogs(req.Logs))

	if len(req.Systems) > 0 {
		sb.WriteString("\n\nSHIP SYSTEMS:\n")
		sb.WriteString(FormatSystems(req.Systems))
		sb.WriteString("\n\n")
		sb.WriteString(DisplayInstruction)
	}

	sb.WriteString("\n\nUSER QUERY:\n")
	sb.WriteString(req.Query)
	return sb.String()
}

// FormatLogs renders logs as DATA LOG blocks.
func FormatLogs(logs []ship.DataLog) string {
	blocks := make([]string, 0, len(logs))
	for _, l := range logs {
		blocks = append(blocks, fmt.Sprintf("DATA LOG: \"%s\"\n%s", l.Title, l.Content))
	}
	return strings.Join(blocks, logSeparator)
}

// FormatSystems renders ship systems as SYSTEM blocks.
func FormatSystems(systems []ship.ShipSystem) string {
	blocks := make([]string, 0, len(systems))
	for _, s := range systems {
		blocks = append(blocks, fmt.Sprintf("SYSTEM: %s\nSTATUS: %s\nDETAILS: %s", s.Name, s.Status, s.Details))
	}
	return strings.Join(blocks, "\n\n")
}
