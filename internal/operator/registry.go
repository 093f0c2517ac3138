// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operator

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is one operator slash command.
type Command struct {
	// Name is the primary name, e.g. "/log".
	Name string

	// Aliases are alternative names.
	Aliases []string

	// Usage shows argument syntax, one line per subcommand.
	Usage []string

	// Description is shown by /help.
	Description string

	// Handler runs the command.
	Handler func(o *Operator, inv Invocation) (Result, error)
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a registry with every built-in command.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command, replacing any with the same name.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get finds a command by name or alias.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	return r.aliases[name]
}

// All returns the commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// Complete returns the command names starting with partial, for Tab
// completion of the first word.
func (r *Registry) Complete(partial string) []string {
	partial = strings.ToLower(strings.TrimSpace(partial))
	if !strings.HasPrefix(partial, "/") {
		return nil
	}
	var out []string
	for _, cmd := range r.All() {
		if strings.HasPrefix(cmd.Name, partial) {
			out = append(out, cmd.Name)
		}
	}
	return out
}

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Usage:       []string{"/help"},
		Description: "List operator commands",
		Handler:     handleHelp,
	})
	r.Register(&Command{
		Name:        "/persona",
		Usage:       []string{"/persona", "/persona <text>"},
		Description: "Show or replace the model persona",
		Handler:     handlePersona,
	})
	r.Register(&Command{
		Name:    "/log",
		Aliases: []string{"/logs"},
		Usage: []string{
			"/log list",
			"/log show <id>",
			"/log add <title> <content> [role]",
			"/log edit <id> <title> <content> [role]",
			"/log rm <id>",
		},
		Description: "Manage data logs",
		Handler:     handleLog,
	})
	r.Register(&Command{
		Name: "/crew",
		Usage: []string{
			"/crew list",
			"/crew add <name> <role> <password>",
			"/crew edit <id> <name> <role> <password>",
			"/crew rm <id>",
		},
		Description: "Manage the crew roster",
		Handler:     handleCrew,
	})
	r.Register(&Command{
		Name:    "/system",
		Aliases: []string{"/sys"},
		Usage: []string{
			"/system list",
			"/system add <name> [status] [details]",
			"/system edit <id> <name> <status> [details]",
			"/system set <id|name> <status>",
			"/system rm <id>",
		},
		Description: "Manage ship systems",
		Handler:     handleSystem,
	})
	r.Register(&Command{
		Name:        "/theme",
		Usage:       []string{"/theme", "/theme <name>"},
		Description: "Show or switch the terminal color theme",
		Handler:     handleTheme,
	})
	r.Register(&Command{
		Name:        "/clear",
		Usage:       []string{"/clear"},
		Description: "Reset the player terminal to the greeting",
		Handler:     handleClear,
	})
	r.Register(&Command{
		Name:        "/export",
		Usage:       []string{"/export <path> [md|json|yaml]"},
		Description: "Write the player transcript to a file",
		Handler:     handleExport,
	})
	r.Register(&Command{
		Name:        "/reload",
		Usage:       []string{"/reload"},
		Description: "Reload the scenario file",
		Handler:     handleReload,
	})
	r.Register(&Command{
		Name:        "/save",
		Usage:       []string{"/save <path>"},
		Description: "Save the current content as a scenario file",
		Handler:     handleSave,
	})
	r.Register(&Command{
		Name:        "/panel",
		Usage:       []string{"/panel"},
		Description: "Show or hide the operator panel",
		Handler:     handlePanel,
	})
	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Usage:       []string{"/quit"},
		Description: "Exit the terminal",
		Handler:     handleQuit,
	})
}
