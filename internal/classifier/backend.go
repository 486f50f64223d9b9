package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"verinews/internal/config"
	"verinews/internal/port"
)

var _ port.LogitsBackend = (*HTTPBackend)(nil)

// HTTPBackend talks to an external sequence-classification inference service.
type HTTPBackend struct {
	endpoint  string
	apiKey    string
	maxTokens int
	http      *http.Client
}

// NewHTTPBackend creates a reusable inference client from cfg.
func NewHTTPBackend(cfg config.ClassifierConfig) *HTTPBackend {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &HTTPBackend{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:    cfg.APIKey,
		maxTokens: maxTokens,
		http:      &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Text       string `json:"text"`
	MaxLength  int    `json:"max_length"`
	Padding    string `json:"padding"`
	Truncation bool   `json:"truncation"`
}

type predictResponse struct {
	Logits []float64 `json:"logits"`
}

// Logits returns the two raw class scores for text. Text is cut to the
// configured token budget before it is sent.
func (b *HTTPBackend) Logits(ctx context.Context, text string) ([]float64, error) {
	payload := predictRequest{
		Text:       truncateTokens(text, b.maxTokens),
		MaxLength:  b.maxTokens,
		Padding:    "max_length",
		Truncation: true,
	}

	var resp predictResponse
	if err := b.do(ctx, http.MethodPost, "/predict", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Logits) != 2 {
		return nil, fmt.Errorf("expected 2 logits, got %d", len(resp.Logits))
	}
	return resp.Logits, nil
}

// Health checks that the inference service is up.
func (b *HTTPBackend) Health(ctx context.Context) error {
	return b.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, payload, v any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// truncateTokens keeps at most maxTokens whitespace-separated tokens.
func truncateTokens(text string, maxTokens int) string {
	fields := strings.Fields(text)
	if len(fields) <= maxTokens {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:maxTokens], " ")
}
