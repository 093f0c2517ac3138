// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures the OpenAI-compatible provider. Setting BaseURL
// points it at OpenRouter or any other compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAI streams chat completions through the official SDK.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates the provider. It fails only when no key is configured.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

// Name implements Client.
func (c *OpenAI) Name() string {
	return "openai"
}

// Stream implements Client.
func (c *OpenAI) Stream(ctx context.Context, req Request) (Stream, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.Persona != "" {
		messages = append(messages, openai.SystemMessage(req.Persona))
	}
	messages = append(messages, openai.UserMessage(BuildPrompt(req)))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}

	ctx, cancel := context.WithCancel(ctx)
	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		cancel()
		_ = stream.Close()
		return nil, providerError(c.Name(), "failed to start stream", err)
	}

	return newSDKStream[openai.ChatCompletionChunk](c.Name(), stream, cancel, func(chunk openai.ChatCompletionChunk) string {
		if len(chunk.Choices) == 0 {
			return ""
		}
		return chunk.Choices[0].Delta.Content
	}), nil
}
