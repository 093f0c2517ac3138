// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morkalg/MUTHERSHIP/internal/ship"
)

var testSystems = []ship.ShipSystem{
	{ID: "1", Name: "ENGINES", Status: ship.StatusDamaged, Details: "PORT COIL FRACTURED"},
	{ID: "2", Name: "LIFE SUPPORT", Status: ship.StatusOptimal},
	{ID: "3", Name: "LIFE SUPPORT BACKUP", Status: ship.StatusOffline},
}

// =============================================================================
// PROMPT TESTS
// =============================================================================

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Persona: "You are MUTHER.",
		Logs: []ship.DataLog{
			{Title: "CREW MANIFEST", Content: "DALLAS (CAPTAIN)"},
			{Title: "SPECIAL ORDER 937", Content: "CREW EXPENDABLE."},
		},
		Systems: testSystems[:1],
		Query:   "WHAT IS SPECIAL ORDER 937?",
	}

	got := BuildPrompt(req)

	assert.True(t, strings.HasPrefix(got, "CONTEXT:\nDATA LOG: \"CREW MANIFEST\"\nDALLAS (CAPTAIN)\n\n---\n\nDATA LOG: \"SPECIAL ORDER 937\"\nCREW EXPENDABLE."))
	assert.Contains(t, got, "SHIP SYSTEMS:\nSYSTEM: ENGINES\nSTATUS: DAMAGED\nDETAILS: PORT COIL FRACTURED")
	assert.Contains(t, got, "[DISPLAY_SYSTEM: <name>]")
	assert.True(t, strings.HasSuffix(got, "USER QUERY:\nWHAT IS SPECIAL ORDER 937?"))
	assert.NotContains(t, got, "You are MUTHER.", "persona is a system instruction")
}

func TestBuildPrompt_NoSystems(t *testing.T) {
	got := BuildPrompt(Request{Query: "HELLO"})
	assert.Equal(t, "CONTEXT:\n\n\nUSER QUERY:\nHELLO", got)
}

func TestFormatSystems_NoDetails(t *testing.T) {
	got := FormatSystems(testSystems[1:2])
	assert.Equal(t, "SYSTEM: LIFE SUPPORT\nSTATUS: OPTIMAL\nDETAILS: ", got)
}

// =============================================================================
// LOCAL SUBSTITUTE TESTS
// =============================================================================

func TestLocal_SystemReport(t *testing.T) {
	l := NewLocal(LocalConfig{})
	got := l.Reply(Request{Systems: testSystems, Query: "status of engines"})
	assert.Equal(t, "SYSTEM DIAGNOSTIC: ENGINES\nSTATUS: DAMAGED\nDETAILS: PORT COIL FRACTURED\n[DISPLAY_SYSTEM: ENGINES]", got)
}

func TestLocal_LongestSystemNameWins(t *testing.T) {
	l := NewLocal(LocalConfig{})
	got := l.Reply(Request{Systems: testSystems, Query: "CHECK LIFE SUPPORT BACKUP"})
	assert.Contains(t, got, "[DISPLAY_SYSTEM: LIFE SUPPORT BACKUP]")
}

func TestLocal_DataLog(t *testing.T) {
	l := NewLocal(LocalConfig{})
	logs := []ship.DataLog{{Title: "Special Order 937", Content: "CREW EXPENDABLE."}}
	got := l.Reply(Request{Logs: logs, Query: "read special order 937"})
	assert.Equal(t, "DATA LOG: SPECIAL ORDER 937\nCREW EXPENDABLE.", got)
}

func TestLocal_Echo(t *testing.T) {
	l := NewLocal(LocalConfig{})
	persona := strings.Repeat("P", 80)
	got := l.Reply(Request{Persona: persona, Query: "hello mother"})
	want := MockHeader + "\n// Persona: " + strings.Repeat("P", 50) + "...\n// Query: hello mother"
	assert.Equal(t, want, got)
}

func TestLocal_StreamsInChunks(t *testing.T) {
	l := NewLocal(LocalConfig{ChunkRunes: 4})
	s, err := l.Stream(context.Background(), Request{Persona: "x", Query: "q"})
	require.NoError(t, err)

	first, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "// M", first[:4])
	assert.Len(t, []rune(first), 4)

	rest, err := Collect(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, l.Reply(Request{Persona: "x", Query: "q"}), first+rest)
}

func TestLocal_CanceledContext(t *testing.T) {
	l := NewLocal(LocalConfig{Delay: time.Hour})
	s, err := l.Stream(context.Background(), Request{Query: "q"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = s.Next(ctx) // first token is free
	require.NoError(t, err)
	cancel()

	_, err = s.Next(ctx)
	assert.ErrorIs(t, err, ErrCanceled)
}

// =============================================================================
// OLLAMA TESTS
// =============================================================================

func ndjson(chunks ...ollamaChunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		b, _ := json.Marshal(c)
		sb.Write(b)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestOllama_Stream(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, ndjson(
			ollamaChunk{Message: ollamaMessage{Role: "assistant", Content: "ENGINES "}},
			ollamaChunk{Message: ollamaMessage{Role: "assistant", Content: ""}},
			ollamaChunk{Message: ollamaMessage{Role: "assistant", Content: "[DISPLAY_SYSTEM: ENGINES]"}},
			ollamaChunk{Done: true},
		))
	}))
	defer server.Close()

	o := NewOllama(OllamaConfig{BaseURL: server.URL, Model: "test-model"})
	s, err := o.Stream(context.Background(), Request{Persona: "PERSONA", Query: "ENGINES?"})
	require.NoError(t, err)

	text, err := Collect(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "ENGINES [DISPLAY_SYSTEM: ENGINES]", text)

	assert.Equal(t, "test-model", got.Model)
	assert.True(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, ollamaMessage{Role: "system", Content: "PERSONA"}, got.Messages[0])
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "USER QUERY:\nENGINES?")
}

func TestOllama_ModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	o := NewOllama(OllamaConfig{BaseURL: server.URL})
	_, err := o.Stream(context.Background(), Request{Query: "q"})
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestOllama_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"out of memory"}`)
	}))
	defer server.Close()

	o := NewOllama(OllamaConfig{BaseURL: server.URL})
	_, err := o.Stream(context.Background(), Request{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestOllama_MidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ndjson(
			ollamaChunk{Message: ollamaMessage{Content: "PARTIAL"}},
			ollamaChunk{Error: "model crashed"},
		))
	}))
	defer server.Close()

	o := NewOllama(OllamaConfig{BaseURL: server.URL})
	s, err := o.Stream(context.Background(), Request{Query: "q"})
	require.NoError(t, err)

	text, err := Collect(context.Background(), s)
	assert.Equal(t, "PARTIAL", text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model crashed")
}

func TestOllama_NotRunning(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	o := NewOllama(OllamaConfig{BaseURL: url})
	_, err := o.Stream(context.Background(), Request{Query: "q"})
	assert.ErrorIs(t, err, ErrNotRunning)
}

// =============================================================================
// PROVIDER SELECTION TESTS
// =============================================================================

func TestNew_AutoWithoutKeysIsLocal(t *testing.T) {
	c, err := New(context.Background(), Config{Provider: "auto"})
	require.NoError(t, err)
	assert.Equal(t, "local", c.Name())
}

func TestNew_MissingCredentialFallsBack(t *testing.T) {
	for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		c, err := New(context.Background(), Config{Provider: p})
		require.NoError(t, err, p)
		assert.Equal(t, "local", c.Name(), p)
	}
}

func TestNew_ExplicitProviders(t *testing.T) {
	c, err := New(context.Background(), Config{Provider: "OpenAI", OpenAIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	c, err = New(context.Background(), Config{Provider: "anthropic", AnthropicKey: "sk-ant-test"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.Name())

	c, err = New(context.Background(), Config{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.Name())
}

func TestNew_AutoOrder(t *testing.T) {
	assert.Equal(t, ProviderGemini, autoSelect(Config{GeminiKey: "g", OpenAIKey: "o"}))
	assert.Equal(t, ProviderOpenAI, autoSelect(Config{OpenAIKey: "o", AnthropicKey: "a"}))
	assert.Equal(t, ProviderAnthropic, autoSelect(Config{AnthropicKey: "a"}))
	assert.Equal(t, ProviderLocal, autoSelect(Config{}))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "hal9000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hal9000")
	assert.True(t, IsUnknownProvider(err))
	assert.False(t, IsUnknownProvider(ErrTimeout))
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestClientError_Is(t *testing.T) {
	err := &ClientError{Type: ErrTypeTimeout, Provider: "gemini", Message: "slow", Cause: context.DeadlineExceeded}
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrNotRunning))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "gemini: slow: context deadline exceeded", err.Error())

	wrapped := fmt.Errorf("query: %w", err)
	assert.True(t, errors.Is(wrapped, ErrTimeout))
}

func TestCollect_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeStream{frags: []string{"A", "B"}, err: boom}
	text, err := Collect(context.Background(), s)
	assert.Equal(t, "AB", text)
	assert.ErrorIs(t, err, boom)
	assert.True(t, s.closed)
}

type fakeStream struct {
	frags  []string
	err    error
	closed bool
}

func (f *fakeStream) Next(ctx context.Context) (string, error) {
	if len(f.frags) == 0 {
		if f.err != nil {
			return "", f.err
		}
		return "", io.EOF
	}
	frag := f.frags[0]
	f.frags = f.frags[1:]
	return frag, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}
