// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Default model names per provider.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultOllamaModel    = "llama3.2"
)

// Provider names accepted by New.
const (
	ProviderAuto      = "auto"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderLocal     = "local"
)

// Providers lists every accepted provider name.
func Providers() []string {
	return []string{ProviderAuto, ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOllama, ProviderLocal}
}

// Config selects and configures a provider.
type Config struct {
	// Provider is one of Providers(). "auto" picks the first provider with
	// a credential, in the order gemini, openai, anthropic, then local.
	Provider string

	GeminiKey   string
	GeminiModel string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	AnthropicKey   string
	AnthropicModel string
	MaxTokens      int64

	OllamaURL   string
	OllamaModel string

	// Local configures the offline substitute used as the fallback.
	Local LocalConfig

	// Logger receives provider selection warnings. Nil discards them.
	Logger *log.Logger
}

// New builds the configured client. A missing or unusable credential never
// fails: the offline substitute is returned instead and a warning logged.
// Only an unknown provider name is an error.
func New(ctx context.Context, cfg Config) (Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderAuto
	}
	if provider == ProviderAuto {
		provider = autoSelect(cfg)
		logger.Debug("Auto-selected model provider", "provider", provider)
	}

	client, err := build(ctx, provider, cfg)
	if err != nil {
		if IsUnknownProvider(err) {
			return nil, err
		}
		logger.Warn("Model provider unavailable, using offline substitute", "provider", provider, "error", err)
		return NewLocal(cfg.Local), nil
	}
	logger.Info("Model provider ready", "provider", client.Name())
	return client, nil
}

func autoSelect(cfg Config) string {
	switch {
	case cfg.GeminiKey != "":
		return ProviderGemini
	case cfg.OpenAIKey != "":
		return ProviderOpenAI
	case cfg.AnthropicKey != "":
		return ProviderAnthropic
	default:
		return ProviderLocal
	}
}

type unknownProviderError string

// IsUnknownProvider reports whether err rejects a provider name.
func IsUnknownProvider(err error) bool {
	var u unknownProviderError
	return errors.As(err, &u)
}

func (e unknownProviderError) Error() string {
	return fmt.Sprintf("unknown model provider %q, must be one of: %s", string(e), strings.Join(Providers(), ", "))
}

func build(ctx context.Context, provider string, cfg Config) (Client, error) {
	switch provider {
	case ProviderGemini:
		c, err := NewGemini(ctx, GeminiConfig{APIKey: cfg.GeminiKey, Model: cfg.GeminiModel})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenAI:
		c, err := NewOpenAI(OpenAIConfig{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderAnthropic:
		c, err := NewAnthropic(AnthropicConfig{APIKey: cfg.AnthropicKey, Model: cfg.AnthropicModel, MaxTokens: cfg.MaxTokens})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOllama:
		return NewOllama(OllamaConfig{BaseURL: cfg.OllamaURL, Model: cfg.OllamaModel, ConnectTimeout: 10 * time.Second}), nil
	case ProviderLocal:
		return NewLocal(cfg.Local), nil
	default:
		return nil, unknownProviderError(provider)
	}
}
