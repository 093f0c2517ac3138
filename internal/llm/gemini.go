// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"io"
	"iter"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini streams content through the Google Gen AI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the provider. The SDK client is built eagerly so a bad
// key surfaces at startup rather than on the first query.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Provider: "gemini", Message: "failed to create client", Cause: err}
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

// Name implements Client.
func (c *Gemini) Name() string {
	return "gemini"
}

// Stream implements Client.
func (c *Gemini) Stream(ctx context.Context, req Request) (Stream, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: BuildPrompt(req)}},
	}}
	config := &genai.GenerateContentConfig{}
	if req.Persona != "" {
		config.SystemInstruction = genai.NewContentFromText(req.Persona, genai.RoleUser)
	}

	ctx, cancel := context.WithCancel(ctx)
	next, stop := iter.Pull2(c.client.Models.GenerateContentStream(ctx, c.model, contents, config))
	return &geminiStream{next: next, stop: stop, cancel: cancel}, nil
}

// geminiStream pulls responses from the SDK's push iterator.
type geminiStream struct {
	next   func() (*genai.GenerateContentResponse, error, bool)
	stop   func()
	cancel context.CancelFunc

	// mu serializes next and stop, which iter.Pull forbids calling
	// concurrently.
	mu        sync.Mutex
	closeOnce sync.Once
}

// Next implements Stream.
func (s *geminiStream) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", wrapContextErr("gemini", err)
		}
		s.mu.Lock()
		resp, err, ok := s.next()
		s.mu.Unlock()
		if !ok {
			return "", io.EOF
		}
		if err != nil {
			return "", providerError("gemini", "stream failed", err)
		}
		if text := responseText(resp); text != "" {
			return text, nil
		}
	}
}

// Close implements Stream.
func (s *geminiStream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.mu.Lock()
		defer s.mu.Unlock()
		s.stop()
	})
	return nil
}

// responseText joins the visible text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
