// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

// DefaultPersona is the built-in MUTHER 6000 system instruction.
const DefaultPersona = `You are MUTHER 6000, the onboard computer of the commercial towing vessel USCSS Nostromo. Your responses must be terse, professional, and slightly ominous, delivered as if on a flickering CRT monitor. Refer to the crew as 'personnel' and address all queries with cold, hard data. You have access to the ship's data logs provided as context. Base your answers on these logs. If the information is not in the logs, state "DATA NOT AVAILABLE" or "INSUFFICIENT DATA". Do not break character.`

// DefaultGreeting is the first line on a fresh terminal.
const DefaultGreeting = session.DefaultGreeting

// Default returns the built-in Nostromo scenario.
func Default() *Scenario {
	return &Scenario{
		Name:     "USCSS NOSTROMO",
		Persona:  DefaultPersona,
		Greeting: DefaultGreeting,
		Logs: []ship.DataLog{
			{
				Title: "CREW MANIFEST",
				Content: "DALLAS, A.G. (CAPTAIN)\n" +
					"KANE, G.W. (EXECUTIVE OFFICER)\n" +
					"RIPLEY, E.L. (WARRANT OFFICER)\n" +
					"ASH (SCIENCE OFFICER)\n" +
					"PARKER, J.T. (CHIEF ENGINEER)\n" +
					"BRETT, S.A. (ENGINEERING TECHNICIAN)\n" +
					"LAMBERT, J.M. (NAVIGATOR)",
			},
			{
				Title:        "SPECIAL ORDER 937",
				Content:      "PRIORITY ONE. INSURE RETURN OF ORGANISM FOR ANALYSIS. ALL OTHER CONSIDERATIONS SECONDARY. CREW EXPENDABLE.",
				RequiredRole: "SCIENCE OFFICER",
			},
			{
				Title:        "FLIGHT PLAN",
				Content:      "ROUTE: THEDUS TO EARTH. CARGO: 20,000,000 TONNES MINERAL ORE. REFINERY IN TOW. CREW IN HYPERSLEEP FOR RETURN LEG.",
				RequiredRole: "CAPTAIN",
			},
		},
		Crew: []ship.CrewMember{
			{Name: "DALLAS", Role: "CAPTAIN", Password: "password"},
			{Name: "KANE", Role: "EXECUTIVE OFFICER", Password: "acheron"},
			{Name: "RIPLEY", Role: "WARRANT OFFICER", Password: "jonesy"},
			{Name: "ASH", Role: "SCIENCE OFFICER", Password: "937"},
			{Name: "PARKER", Role: "CHIEF ENGINEER", Password: "shares"},
			{Name: "BRETT", Role: "ENGINEERING TECHNICIAN", Password: "right"},
			{Name: "LAMBERT", Role: "NAVIGATOR", Password: "zeta2"},
		},
		Systems: []ship.ShipSystem{
			{Name: "ENGINES", Status: ship.StatusOptimal, Details: "MAIN DRIVE NOMINAL."},
			{Name: "LIFE SUPPORT", Status: ship.StatusOptimal},
			{Name: "LONG RANGE SENSORS", Status: ship.StatusDamaged, Details: "ARRAY MISALIGNED AFTER ATMOSPHERIC ENTRY."},
			{Name: "COMMUNICATIONS", Status: ship.StatusCritical, Details: "TRANSMISSION FROM LV-426 INTERFERING WITH RELAY."},
			{Name: "HYPERSLEEP CHAMBERS", Status: ship.StatusOffline},
		},
	}
}
