// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"
)

// =============================================================================
// OLLAMA TYPES
// =============================================================================

// ollamaMessage is a chat message in the Ollama API.
type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatRequest is the /api/chat request body.
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

// ollamaChunk is one NDJSON line of a streamed /api/chat reply.
type ollamaChunk struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

// =============================================================================
// OLLAMA CLIENT
// =============================================================================

// OllamaConfig holds configuration options for the Ollama provider.
type OllamaConfig struct {
	// BaseURL is the Ollama API base URL (default: http://127.0.0.1:11434)
	BaseURL string

	// Model to request (default: "llama3.2")
	Model string

	// ConnectTimeout bounds how long to wait for response headers (default: 10s)
	ConnectTimeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Ollama streams replies from a local Ollama server.
type Ollama struct {
	config     OllamaConfig
	httpClient *http.Client
}

// NewOllama creates an Ollama provider, filling in defaults for zero values.
func NewOllama(cfg OllamaConfig) *Ollama {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:11434"
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No overall timeout: the stream is bounded by its context.
		httpClient = &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: cfg.ConnectTimeout},
		}
	}
	return &Ollama{config: cfg, httpClient: httpClient}
}

// Name implements Client.
func (o *Ollama) Name() string {
	return "ollama"
}

// Stream implements Client.
func (o *Ollama) Stream(ctx context.Context, req Request) (Stream, error) {
	messages := []ollamaMessage{}
	if req.Persona != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: req.Persona})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: BuildPrompt(req)})

	body, err := json.Marshal(ollamaChatRequest{
		Model:    o.config.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Provider: o.Name(), Message: "failed to marshal request", Cause: err}
	}

	ctx, cancel := context.WithCancel(ctx)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, &ClientError{Type: ErrTypeConnection, Provider: o.Name(), Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		cancel()
		if ctxErr := wrapContextErr(o.Name(), err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ClientError{Type: ErrTypeNotRunning, Provider: o.Name(), Message: "Ollama is not running", Cause: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		drainAndClose(resp.Body)
		cancel()
		return nil, &ClientError{Type: ErrTypeModelNotFound, Provider: o.Name(), Message: "model not found: " + o.config.Model}
	}
	if resp.StatusCode != http.StatusOK {
		defer cancel()
		defer drainAndClose(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Provider: o.Name(), Message: apiErr.Error}
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Provider: o.Name(), Message: "stream request failed: " + resp.Status}
	}

	return &ndjsonStream{
		provider: o.Name(),
		body:     resp.Body,
		reader:   bufio.NewReader(resp.Body),
		cancel:   cancel,
	}, nil
}

// =============================================================================
// NDJSON STREAM
// =============================================================================

// ndjsonStream reads one JSON object per line from a streamed reply.
type ndjsonStream struct {
	provider string
	body     io.ReadCloser
	reader   *bufio.Reader
	cancel   context.CancelFunc
	done     bool

	closeOnce sync.Once
}

// Next implements Stream.
func (s *ndjsonStream) Next(ctx context.Context) (string, error) {
	for {
		if s.done {
			return "", io.EOF
		}
		if err := ctx.Err(); err != nil {
			return "", wrapContextErr(s.provider, err)
		}

		line, err := s.reader.ReadBytes('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			s.done = true
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			if ctxErr := wrapContextErr(s.provider, ctx.Err()); ctxErr != nil {
				return "", ctxErr
			}
			return "", &ClientError{Type: ErrTypeConnection, Provider: s.provider, Message: "stream interrupted", Cause: err}
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var chunk ollamaChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Skip malformed lines
			continue
		}
		if chunk.Error != "" {
			s.done = true
			return "", &ClientError{Type: ErrTypeInvalidResponse, Provider: s.provider, Message: chunk.Error}
		}
		if chunk.Done {
			s.done = true
		}
		if chunk.Message.Content != "" {
			return chunk.Message.Content, nil
		}
	}
}

// Close implements Stream.
func (s *ndjsonStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.body.Close()
	})
	return err
}

// drainAndClose discards the rest of r so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
	_ = r.Close()
}
