// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operator

import (
	"fmt"
	"strings"

	"github.com/morkalg/MUTHERSHIP/internal/export"
	"github.com/morkalg/MUTHERSHIP/internal/scenario"
	"github.com/morkalg/MUTHERSHIP/internal/session"
	"github.com/morkalg/MUTHERSHIP/internal/ship"
	"github.com/morkalg/MUTHERSHIP/internal/ui/styles"
	"github.com/morkalg/MUTHERSHIP/internal/util"
)

const (
	titleColumn = 28
	wrapWidth   = 60
)

// =============================================================================
// GENERAL
// =============================================================================

func handleHelp(o *Operator, _ Invocation) (Result, error) {
	res := Result{Lines: []string{"OPERATOR COMMANDS"}}
	for _, cmd := range o.registry.All() {
		res.Lines = append(res.Lines, fmt.Sprintf("  %s  %s", util.PadRight(cmd.Name, 9), cmd.Description))
		for _, u := range cmd.Usage {
			if u != cmd.Name {
				res.Lines = append(res.Lines, "      "+u)
			}
		}
	}
	return res, nil
}

func handlePersona(o *Operator, inv Invocation) (Result, error) {
	if inv.Raw == "" {
		res := Result{Lines: []string{"PERSONA:"}}
		res.Lines = append(res.Lines, util.Wrap(o.sess.Persona(), wrapWidth)...)
		return res, nil
	}
	persona := inv.Raw
	if len(inv.Args) == 1 && isQuoted(inv.Raw) {
		persona = inv.Args[0]
	}
	o.sess.SetPersona(persona)
	return lines("PERSONA UPDATED (%d CHARACTERS).", len([]rune(persona))), nil
}

func handleTheme(o *Operator, inv Invocation) (Result, error) {
	if len(inv.Args) == 0 {
		return lines("THEME: %s (available: %s)", o.sess.Theme(), strings.Join(styles.ThemeNames(), ", ")), nil
	}
	name := strings.ToLower(inv.Args[0])
	if !styles.HasTheme(name) {
		return Result{}, fmt.Errorf("unknown theme %q, must be one of: %s", inv.Args[0], strings.Join(styles.ThemeNames(), ", "))
	}
	o.sess.SetTheme(name)
	res := lines("THEME SET TO %s.", strings.ToUpper(name))
	res.Action = ActionThemeChanged
	return res, nil
}

func handleClear(o *Operator, _ Invocation) (Result, error) {
	if o.sess.Busy() {
		return Result{}, fmt.Errorf("cannot clear: %w", session.ErrBusy)
	}
	o.sess.ResetHistory()
	res := lines("PLAYER TERMINAL CLEARED.")
	res.Action = ActionHistoryCleared
	return res, nil
}

func handlePanel(_ *Operator, _ Invocation) (Result, error) {
	return Result{Action: ActionTogglePanel}, nil
}

func handleQuit(_ *Operator, _ Invocation) (Result, error) {
	return Result{Action: ActionQuit}, nil
}

// =============================================================================
// FILES
// =============================================================================

func handleExport(o *Operator, inv Invocation) (Result, error) {
	if len(inv.Args) == 0 || len(inv.Args) > 2 {
		return Result{}, usage("/export", o.registry)
	}

	var exporter export.Exporter
	var err error
	if len(inv.Args) == 2 {
		exporter, err = export.New(inv.Args[1])
	} else {
		exporter, err = export.ForPath(inv.Args[0])
	}
	if err != nil {
		return Result{}, err
	}

	t := export.FromSession(o.sess, o.title, o.now())
	path, err := export.ExportToFile(t, exporter, inv.Args[0])
	if err != nil {
		return Result{}, err
	}
	return lines("TRANSCRIPT WRITTEN TO %s (%d ENTRIES).", path, len(t.Entries)), nil
}

func handleReload(o *Operator, _ Invocation) (Result, error) {
	if o.scenarioPath == "" {
		return Result{}, ErrNoScenario
	}
	sc, err := scenario.Load(o.scenarioPath)
	if err != nil {
		return Result{}, err
	}
	if err := sc.Apply(o.sess); err != nil {
		return Result{}, err
	}
	res := lines("SCENARIO %q RELOADED: %d LOGS, %d CREW, %d SYSTEMS.",
		sc.Name, len(sc.Logs), len(sc.Crew), len(sc.Systems))
	res.Action = ActionReloaded
	return res, nil
}

func handleSave(o *Operator, inv Invocation) (Result, error) {
	if len(inv.Args) != 1 {
		return Result{}, usage("/save", o.registry)
	}
	if err := scenario.Save(inv.Args[0], scenario.Capture(o.sess, o.title)); err != nil {
		return Result{}, err
	}
	return lines("SCENARIO SAVED TO %s.", inv.Args[0]), nil
}

// =============================================================================
// DATA LOGS
// =============================================================================

func handleLog(o *Operator, inv Invocation) (Result, error) {
	sub, args := subcommand(inv)
	switch {
	case sub == "list" || sub == "ls":
		logs := o.sess.Logs()
		if len(logs) == 0 {
			return lines("NO DATA LOGS."), nil
		}
		res := Result{Lines: make([]string, 0, len(logs))}
		for _, l := range logs {
			access := "PUBLIC"
			if l.RequiredRole != "" {
				access = l.RequiredRole
			}
			res.Lines = append(res.Lines, fmt.Sprintf("%s  %s  %s",
				shortID(l.ID), util.PadRight(util.Truncate(l.Title, titleColumn), titleColumn), access))
		}
		return res, nil

	case sub == "show" && len(args) == 1:
		l, err := o.sess.Log(args[0])
		if err != nil {
			return Result{}, err
		}
		res := Result{Lines: []string{fmt.Sprintf("%s  %s", shortID(l.ID), l.Title)}}
		if l.RequiredRole != "" {
			res.Lines = append(res.Lines, "REQUIRES: "+l.RequiredRole)
		}
		res.Lines = append(res.Lines, util.Wrap(l.Content, wrapWidth)...)
		return res, nil

	case sub == "add" && (len(args) == 2 || len(args) == 3):
		l, err := o.sess.AddLog(ship.DataLog{Title: args[0], Content: args[1], RequiredRole: optional(args, 2)})
		if err != nil {
			return Result{}, err
		}
		return lines("LOG %s ADDED: %s", shortID(l.ID), l.Title), nil

	case sub == "edit" && (len(args) == 3 || len(args) == 4):
		l, err := o.sess.UpdateLog(args[0], ship.DataLog{Title: args[1], Content: args[2], RequiredRole: optional(args, 3)})
		if err != nil {
			return Result{}, err
		}
		return lines("LOG %s UPDATED: %s", shortID(l.ID), l.Title), nil

	case (sub == "rm" || sub == "remove") && len(args) == 1:
		l, err := o.sess.RemoveLog(args[0])
		if err != nil {
			return Result{}, err
		}
		return lines("LOG %s REMOVED: %s", shortID(l.ID), l.Title), nil
	}
	return Result{}, usage("/log", o.registry)
}

// =============================================================================
// CREW
// =============================================================================

func handleCrew(o *Operator, inv Invocation) (Result, error) {
	sub, args := subcommand(inv)
	switch {
	case sub == "list" || sub == "ls":
		crew := o.sess.Crew()
		if len(crew) == 0 {
			return lines("NO CREW REGISTERED."), nil
		}
		res := Result{Lines: make([]string, 0, len(crew))}
		for _, c := range crew {
			res.Lines = append(res.Lines, fmt.Sprintf("%s  %s  %s  %s",
				shortID(c.ID), util.PadRight(c.Name, 12), util.PadRight(c.Role, 24), c.Password))
		}
		return res, nil

	case sub == "add" && len(args) == 3:
		c, err := o.sess.AddCrew(ship.CrewMember{Name: args[0], Role: args[1], Password: args[2]})
		if err != nil {
			return Result{}, err
		}
		return lines("CREW %s ADDED: %s (%s)", shortID(c.ID), c.Name, c.Role), nil

	case sub == "edit" && len(args) == 4:
		c, err := o.sess.UpdateCrew(args[0], ship.CrewMember{Name: args[1], Role: args[2], Password: args[3]})
		if err != nil {
			return Result{}, err
		}
		return lines("CREW %s UPDATED: %s (%s)", shortID(c.ID), c.Name, c.Role), nil

	case (sub == "rm" || sub == "remove") && len(args) == 1:
		c, err := o.sess.RemoveCrew(args[0])
		if err != nil {
			return Result{}, err
		}
		return lines("CREW %s REMOVED: %s", shortID(c.ID), c.Name), nil
	}
	return Result{}, usage("/crew", o.registry)
}

// =============================================================================
// SHIP SYSTEMS
// =============================================================================

func handleSystem(o *Operator, inv Invocation) (Result, error) {
	sub, args := subcommand(inv)
	switch {
	case sub == "list" || sub == "ls":
		systems := o.sess.Systems()
		if len(systems) == 0 {
			return lines("NO SHIP SYSTEMS."), nil
		}
		res := Result{Lines: make([]string, 0, len(systems))}
		for _, s := range systems {
			line := fmt.Sprintf("%s  %s  %s", shortID(s.ID), util.PadRight(util.Truncate(s.Name, titleColumn), titleColumn), s.Status)
			if s.Details != "" {
				line += "  " + s.Details
			}
			res.Lines = append(res.Lines, line)
		}
		return res, nil

	case sub == "add" && len(args) >= 1 && len(args) <= 3:
		s, err := o.sess.AddSystem(ship.ShipSystem{Name: args[0], Status: ship.Status(optional(args, 1)), Details: optional(args, 2)})
		if err != nil {
			return Result{}, err
		}
		return lines("SYSTEM %s ADDED: %s %s", shortID(s.ID), s.Name, s.Status), nil

	case sub == "edit" && (len(args) == 3 || len(args) == 4):
		s, err := o.sess.UpdateSystem(args[0], ship.ShipSystem{Name: args[1], Status: ship.Status(args[2]), Details: optional(args, 3)})
		if err != nil {
			return Result{}, err
		}
		return lines("SYSTEM %s UPDATED: %s %s", shortID(s.ID), s.Name, s.Status), nil

	case sub == "set" && len(args) == 2:
		status, err := ship.ParseStatus(args[1])
		if err != nil {
			return Result{}, err
		}
		ref := args[0]
		if s, ok := o.sess.SystemByName(ref); ok {
			ref = s.ID
		}
		s, err := o.sess.SetSystemStatus(ref, status)
		if err != nil {
			return Result{}, err
		}
		return lines("SYSTEM %s NOW %s.", s.Name, s.Status), nil

	case (sub == "rm" || sub == "remove") && len(args) == 1:
		s, err := o.sess.RemoveSystem(args[0])
		if err != nil {
			return Result{}, err
		}
		return lines("SYSTEM %s REMOVED: %s", shortID(s.ID), s.Name), nil
	}
	return Result{}, usage("/system", o.registry)
}

// =============================================================================
// HELPERS
// =============================================================================

// subcommand splits off the first argument, defaulting to "list".
func subcommand(inv Invocation) (string, []string) {
	if len(inv.Args) == 0 {
		return "list", nil
	}
	return strings.ToLower(inv.Args[0]), inv.Args[1:]
}

// isQuoted reports whether s is wrapped in one pair of matching quotes.
func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '"' || q == '\'') && s[len(s)-1] == q
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
