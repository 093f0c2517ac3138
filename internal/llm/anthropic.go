// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// Anthropic streams messages through the official SDK.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates the provider. It fails only when no key is configured.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Anthropic{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name implements Client.
func (c *Anthropic) Name() string {
	return "anthropic"
}

// Stream implements Client.
func (c *Anthropic) Stream(ctx context.Context, req Request) (Stream, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req))),
		},
	}
	if req.Persona != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.Persona}}
	}

	ctx, cancel := context.WithCancel(ctx)
	stream := c.client.Messages.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		cancel()
		_ = stream.Close()
		return nil, providerError(c.Name(), "failed to start stream", err)
	}

	return newSDKStream[anthropic.MessageStreamEventUnion](c.Name(), stream, cancel, func(event anthropic.MessageStreamEventUnion) string {
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			return ""
		}
		if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok {
			return text.Text
		}
		return ""
	}), nil
}
