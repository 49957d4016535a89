package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/geospy/geospy-api/internal/metrics"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 1024

	operationComplete = "complete"
	operationEmbed    = "embed"
)

var (
	// ErrUnavailable indicates the AI service could not be reached or answered with an error.
	ErrUnavailable = errors.New("ai service unavailable")
	// ErrMalformedResponse indicates the AI service answered without the expected field.
	ErrMalformedResponse = errors.New("ai service returned a malformed response")
	// ErrMissingCredential indicates no API key is configured for the AI service.
	ErrMissingCredential = errors.New("ai service credential is not configured")
)

// Completer is the single-shot prompt/completion contract used by every
// AI-backed step. Implementations hold no conversation state.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ClientConfig configures a completion or embedding client.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int64
	MaxChars  int
	Timeout   time.Duration
}

// GatewayCompleter talks to an HTTP completion gateway that accepts
// {"model","prompt"} and answers {"text"}.
type GatewayCompleter struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

type gatewayRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type gatewayResponse struct {
	Text *string `json:"text"`
}

// NewGatewayCompleter creates a completion client for an HTTP gateway.
func NewGatewayCompleter(cfg ClientConfig, m *metrics.Metrics) (*GatewayCompleter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &GatewayCompleter{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}, nil
}

// Complete sends one prompt and returns the generated text.
func (c *GatewayCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		c.metrics.ObserveAI(operationComplete, "error")
		return "", err
	}
	c.metrics.ObserveAI(operationComplete, "ok")
	return text, nil
}

func (c *GatewayCompleter) complete(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(gatewayRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/complete", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var result gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if result.Text == nil {
		return "", fmt.Errorf("%w: missing text field", ErrMalformedResponse)
	}

	return *result.Text, nil
}
