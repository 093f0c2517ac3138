// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llm provides the model clients that answer player queries.
//
// Every provider implements Client and returns a pull-based Stream of reply
// fragments. Providers are black boxes: the only contract is that Next
// yields text until io.EOF or an error, and Close cancels the request.
//
// # Providers
//
//   - gemini: Google Gen AI SDK (GEMINI_API_KEY or API_KEY)
//   - openai: OpenAI SDK, or any compatible endpoint via base URL
//   - anthropic: Anthropic SDK
//   - ollama: local Ollama server over NDJSON
//   - local: deterministic offline substitute, always available
//
// New selects a provider from Config and falls back to the offline
// substitute when a credential is missing, so the terminal never fails to
// start for lack of a key.
//
// # Prompt Layout
//
// The persona is sent as a system instruction. The user turn is built by
// BuildPrompt:
//
//	CONTEXT:
//	DATA LOG: "CREW MANIFEST"
//	...
//
//	---
//
//	DATA LOG: "..."
//
//	SHIP SYSTEMS:
//	SYSTEM: ENGINES
//	STATUS: DAMAGED
//	DETAILS: ...
//
//	DISPLAY INSTRUCTION:
//	...
//
//	USER QUERY:
//	<query>
package llm
