package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"verinews/internal/config"
	"verinews/internal/domain"
	"verinews/internal/llm"
	"verinews/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Client implements port.Generator using the Anthropic Messages API.
type Client struct {
	apiKey      string
	model       string
	tier        string
	endpoint    string
	temperature float64
	topK        int
	maxTokens   int
	client      *http.Client
}

// NewClient creates a Claude-backed model tier.
func NewClient(cfg *config.RemoteProviderConfig, tier string) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newClient(cfg, tier, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.RemoteProviderConfig, tier, endpoint string) *Client {
	return newClient(cfg, tier, endpoint)
}

// Factory adapts NewClient to llm.ProviderFactory.
func Factory(cfg *config.RemoteProviderConfig, tier string) (port.Generator, error) {
	return NewClient(cfg, tier), nil
}

func newClient(cfg *config.RemoteProviderConfig, tier, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	return &Client{
		apiKey:      cfg.APIKey,
		model:       model,
		tier:        tier,
		endpoint:    endpoint,
		temperature: cfg.Temperature,
		topK:        cfg.TopK,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	reqBody := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": input.Prompt,
			},
		},
	}
	if c.topK > 0 {
		reqBody["top_k"] = c.topK
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, llm.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError("anthropic", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	text, err := extractText(respBody)
	if err != nil {
		return nil, err
	}

	return &port.GenerateOutput{
		Text:  text,
		Model: c.model,
		Tier:  c.tier,
	}, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func extractText(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.StopReason == "refusal" {
		return "", fmt.Errorf("%w: stop_reason refusal", domain.ErrPromptBlocked)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text blocks", domain.ErrEmptyResponse)
	}
	// A reply cut at max_tokens is still handed to the parser; the score
	// usually comes first and the lenient strategies cope with a missing tail.
	return text, nil
}
