package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verinews/internal/config"
	"verinews/internal/domain"
	"verinews/internal/llm"
	"verinews/internal/llm/openai"
	"verinews/internal/port"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return openai.NewClient(&config.RemoteProviderConfig{
		APIKey:   "sk-test",
		Model:    "gpt-test",
		Endpoint: server.URL + "/",
	}, llm.TierSecondary)
}

func writeCompletion(w http.ResponseWriter, content, finish string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-test",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": finish,
			},
		},
	})
}

func TestGenerate_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "judge", body.Messages[0].Content)

		writeCompletion(w, "  Credibility Score: 6  ", "stop")
	})

	out, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "judge"})

	require.NoError(t, err)
	assert.Equal(t, "Credibility Score: 6", out.Text)
	assert.Equal(t, "gpt-test", out.Model)
	assert.Equal(t, llm.TierSecondary, out.Tier)
}

func TestGenerate_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit","type":"requests","code":"rate_limit_exceeded"}}`))
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})

	var rl *llm.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "openai", rl.Provider)
}

func TestGenerate_ContentFilter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "", "content_filter")
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrPromptBlocked)
}

func TestGenerate_EmptyMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "   ", "stop")
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestGenerate_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}
