// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for muthership.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ModelConfig: Provider selection, model names and API keys
//   - UIConfig: Theme, operator surface and typing cadence
//   - SecurityConfig: Idle logout
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MUTHERSHIP_*, provider API keys)
//   - .env in the working directory
//   - ~/.muthership/config.toml
//   - ~/.muthership/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, _ := llm.New(ctx, cfg.LLMConfig())
package config
