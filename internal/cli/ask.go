// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morkalg/MUTHERSHIP/internal/llm"
)

func providerNames() []string {
	return llm.Providers()
}

// newAskCommand answers one query and exits. --login authenticates first so
// restricted logs are in scope.
func newAskCommand(flags *Flags) *cobra.Command {
	var login string

	cmd := &cobra.Command{
		Use:   "ask QUERY...",
		Short: "Ask the ship's computer one question",
		Example: `  muthership ask "STATUS OF LIFE SUPPORT"
  muthership ask --login ash:937 "SPECIAL ORDER 937"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			app, err := NewApp(cmd.Context(), cfg, flags.Theme)
			if err != nil {
				return err
			}
			defer app.Close()

			repl := NewRepl(app, nil, cmd.OutOrStdout(), TerminalWidth())
			if login != "" {
				name, password, ok := strings.Cut(login, ":")
				if !ok {
					return commandError("ask", "login", errors.New("expected NAME:PASSCODE"))
				}
				if _, err := app.Interpreter.Handle(fmt.Sprintf("LOGIN %s %s", name, password)); err != nil {
					return err
				}
				if app.Session.Role() == "" {
					return commandError("ask", "login", errors.New("access denied"))
				}
			}
			if err := repl.Query(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "Log in as NAME:PASSCODE before asking")
	return cmd
}
