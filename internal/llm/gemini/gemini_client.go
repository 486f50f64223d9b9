package gemini

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
	apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

var harmCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

// Client implements port.Generator using Google's Gemini API.
type Client struct {
	apiKey          string
	model           string
	tier            string
	endpoint        string
	temperature     float64
	topP            float64
	topK            int
	maxOutputTokens int
	safetyThreshold string
	client          *http.Client
}

// NewClient creates a Gemini-backed model tier.
func NewClient(cfg *config.RemoteProviderConfig, tier string) *Client {
	return newClient(cfg, tier, cfg.Endpoint)
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
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}
	return &Client{
		apiKey:          cfg.APIKey,
		model:           model,
		tier:            tier,
		endpoint:        endpoint,
		temperature:     cfg.Temperature,
		topP:            cfg.TopP,
		topK:            cfg.TopK,
		maxOutputTokens: maxTokens,
		safetyThreshold: cfg.SafetyThreshold,
		client:          &http.Client{Timeout: timeout},
	}
}

func (c *Client) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	generationConfig := map[string]interface{}{
		"temperature":     c.temperature,
		"maxOutputTokens": c.maxOutputTokens,
	}
	if c.topP > 0 {
		generationConfig["topP"] = c.topP
	}
	if c.topK > 0 {
		generationConfig["topK"] = c.topK
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": input.Prompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}
	if c.safetyThreshold != "" {
		settings := make([]map[string]string, 0, len(harmCategories))
		for _, category := range harmCategories {
			settings = append(settings, map[string]string{
				"category":  category,
				"threshold": c.safetyThreshold,
			})
		}
		reqBody["safetySettings"] = settings
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
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, llm.Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError("gemini", baseErr, retryAfter)
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

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func extractText(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", domain.ErrPromptBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", domain.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		if reason := resp.Candidates[0].FinishReason; reason == "SAFETY" {
			return "", fmt.Errorf("%w: candidate finished with %s", domain.ErrPromptBlocked, reason)
		}
		return "", fmt.Errorf("%w: no text parts", domain.ErrEmptyResponse)
	}
	return text, nil
}
