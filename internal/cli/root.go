// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand builds the muthership command tree.
func NewRootCommand() *cobra.Command {
	flags := &Flags{}

	root := &cobra.Command{
		Use:   "muthership",
		Short: "Retro ship computer terminal for tabletop sci-fi horror",
		Long: `muthership runs an in-fiction starship computer for a game table.

Players type at the terminal, log in as crew members to unlock restricted
data logs, and ask the ship's computer questions answered by a language
model (Gemini, OpenAI, Anthropic, Ollama, or an offline substitute).
The game master edits logs, crew and systems live with slash commands.

Quick Start:
  muthership                             # start with the built-in scenario
  muthership scenario init ship.yaml     # write a scenario to edit
  muthership --scenario ship.yaml        # play your own scenario`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
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

			if flags.Plain || !IsTTY() || !IsStdoutTTY() {
				return runPlain(cmd.Context(), app, cmd.OutOrStdout())
			}
			return runTerminal(cmd.Context(), app)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "Load configuration from this TOML or JSON file")
	pf.StringVar(&flags.ScenarioPath, "scenario", "", "Scenario file (.toml or .yaml)")
	pf.StringVar(&flags.Provider, "provider", "", "Model provider: "+strings.Join(providerNames(), ", "))
	pf.StringVar(&flags.Theme, "theme", "", "Terminal theme: blue, green or orange")
	root.Flags().BoolVar(&flags.Plain, "plain", false, "Use the line-oriented terminal")
	pf.BoolVar(&flags.NoOperator, "no-operator", false, "Disable game master slash commands")

	root.AddCommand(
		newAskCommand(flags),
		newScenarioCommand(),
		newConfigCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		DisplayError(root.ErrOrStderr(), err)
		return ExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "muthership %s\n", Version)
			fmt.Fprintf(out, "  Commit:  %s\n", GitCommit)
			fmt.Fprintf(out, "  Built:   %s\n", BuildDate)
			fmt.Fprintf(out, "  Go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
