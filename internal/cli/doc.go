// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the muthership command line.
//
// With no subcommand the player terminal starts: the full-screen Bubble Tea
// interface when stdin and stdout are terminals, otherwise (or with
// --plain) a line-oriented REPL built on liner.
//
// # Commands
//
//	muthership                      start the terminal
//	muthership ask QUERY            one query, reply on stdout
//	muthership scenario init PATH   write the built-in scenario to PATH
//	muthership scenario check PATH  validate a scenario file
//	muthership config show          print the effective configuration
//	muthership config get KEY       print one setting
//	muthership config set KEY VAL   change one setting and save
//	muthership config path          print the config file location
//	muthership version              print build information
//
// # Global Flags
//
//	--config PATH     load configuration from PATH
//	--scenario PATH   scenario file (overrides config)
//	--provider NAME   model provider (overrides config)
//	--theme NAME      terminal theme (overrides scenario and config)
//	--plain           force the line-oriented terminal
//	--no-operator     disable slash commands
package cli
