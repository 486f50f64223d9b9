package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"verinews/internal/config"
	"verinews/internal/domain"
	"verinews/internal/llm"
	"verinews/internal/port"
)

// Client implements port.Generator against an OpenAI-compatible chat completions API.
type Client struct {
	api         *goopenai.Client
	model       string
	tier        string
	temperature float32
	topP        float32
	maxTokens   int
	timeout     time.Duration
}

// NewClient creates an OpenAI-backed model tier. cfg.Endpoint overrides the base URL.
func NewClient(cfg *config.RemoteProviderConfig, tier string) *Client {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
	}

	model := cfg.Model
	if model == "" {
		model = goopenai.GPT3Dot5Turbo
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:         goopenai.NewClientWithConfig(clientCfg),
		model:       model,
		tier:        tier,
		temperature: float32(cfg.Temperature),
		topP:        float32(cfg.TopP),
		maxTokens:   cfg.MaxOutputTokens,
		timeout:     timeout,
	}
}

// Factory adapts NewClient to llm.ProviderFactory.
func Factory(cfg *config.RemoteProviderConfig, tier string) (port.Generator, error) {
	return NewClient(cfg, tier), nil
}

func (c *Client) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: input.Prompt,
			},
		},
		Temperature: c.temperature,
		TopP:        c.topP,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		baseErr := fmt.Errorf("openai API error: %w", err)
		if isRateLimited(err) {
			return nil, llm.NewRateLimitError("openai", baseErr, 0)
		}
		return nil, baseErr
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", domain.ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		if resp.Choices[0].FinishReason == goopenai.FinishReasonContentFilter {
			return nil, fmt.Errorf("%w: content filter", domain.ErrPromptBlocked)
		}
		return nil, fmt.Errorf("%w: empty message", domain.ErrEmptyResponse)
	}

	return &port.GenerateOutput{
		Text:  text,
		Model: c.model,
		Tier:  c.tier,
	}, nil
}

func isRateLimited(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
