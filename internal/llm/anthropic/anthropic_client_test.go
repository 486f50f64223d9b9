package anthropic_test

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
	"verinews/internal/llm/anthropic"
	"verinews/internal/port"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *anthropic.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &config.RemoteProviderConfig{
		Provider:        "anthropic",
		APIKey:          "sk-ant-test",
		Model:           "claude-3-5-haiku-latest",
		Temperature:     0.1,
		TopK:            40,
		MaxOutputTokens: 1024,
	}
	return anthropic.NewClientWithEndpoint(cfg, llm.TierPrimary, server.URL)
}

func TestGenerate_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-3-5-haiku-latest", reqBody["model"])
		assert.Equal(t, float64(1024), reqBody["max_tokens"])
		assert.Equal(t, float64(40), reqBody["top_k"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "judge this", msg["content"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": `{"credibility_score": 4,`},
				{"type": "text", "text": ` "reasoning": "thin"}`},
			},
			"stop_reason": "end_turn",
		})
	})

	out, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "judge this"})

	require.NoError(t, err)
	assert.Equal(t, `{"credibility_score": 4, "reasoning": "thin"}`, out.Text)
	assert.Equal(t, "claude-3-5-haiku-latest", out.Model)
	assert.Equal(t, llm.TierPrimary, out.Tier)
}

func TestGenerate_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "20")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})

	var rl *llm.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "anthropic", rl.Provider)
	assert.Equal(t, 20, int(rl.RetryAfter.Seconds()))
}

func TestGenerate_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestGenerate_Refusal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"refusal"}`))
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrPromptBlocked)
}

func TestGenerate_NoTextBlocks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"tool_use"}],"stop_reason":"end_turn"}`))
	})

	_, err := client.Generate(context.Background(), port.GenerateInput{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}

func TestFactory(t *testing.T) {
	g, err := anthropic.Factory(&config.RemoteProviderConfig{APIKey: "sk-ant-k"}, llm.TierSecondary)

	require.NoError(t, err)
	assert.IsType(t, &anthropic.Client{}, g)
}
