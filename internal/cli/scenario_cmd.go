// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morkalg/MUTHERSHIP/internal/access"
	"github.com/morkalg/MUTHERSHIP/internal/scenario"
)

func newScenarioCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Create and validate scenario files",
	}
	cmd.AddCommand(newScenarioInitCommand(), newScenarioCheckCommand())
	return cmd
}

func newScenarioInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init PATH",
		Short: "Write the built-in scenario to PATH (.toml or .yaml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return commandError("scenario", "init", fmt.Errorf("%s already exists (use --force)", path))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return commandError("scenario", "init", err)
			}
			if err := scenario.Save(path, scenario.Default()); err != nil {
				return commandError("scenario", "init", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func newScenarioCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH",
		Short: "Validate a scenario file and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			name := sc.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(out, "%s: OK\n", name)
			fmt.Fprintf(out, "  Logs:    %d (%d public)\n", len(sc.Logs), len(access.VisibleLogs(sc.Logs, "")))
			fmt.Fprintf(out, "  Crew:    %d\n", len(sc.Crew))
			fmt.Fprintf(out, "  Systems: %d\n", len(sc.Systems))
			return nil
		},
	}
}
