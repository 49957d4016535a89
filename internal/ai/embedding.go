package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/geospy/geospy-api/internal/metrics"
)

// DefaultEmbeddingMaxChars keeps inputs under the upstream token limit.
const DefaultEmbeddingMaxChars = 8000

// Embedder turns a text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// EmbeddingClient calls an embeddings endpoint that accepts {"model","input"}
// and answers {"data":[{"embedding":[...]}]}.
type EmbeddingClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxChars   int
	httpClient *http.Client
	metrics    *metrics.Metrics
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// NewEmbeddingClient creates an embedding client.
func NewEmbeddingClient(cfg ClientConfig, m *metrics.Metrics) (*EmbeddingClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultEmbeddingMaxChars
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &EmbeddingClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxChars:   maxChars,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}, nil
}

// Model returns the embedding model identifier.
func (c *EmbeddingClient) Model() string {
	return c.model
}

// Embed returns the vector for text, truncated to the configured maximum length.
// Errors are returned to the caller rather than swallowed.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float64, error) {
	vector, err := c.embed(ctx, Truncate(text, c.maxChars))
	if err != nil {
		c.metrics.ObserveAI(operationEmbed, "error")
		return nil, err
	}
	c.metrics.ObserveAI(operationEmbed, "ok")
	return vector, nil
}

// EmbedBatch embeds texts one after another and keeps the input order.
func (c *EmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, 0, len(texts))
	for i, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed item %d: %w", i, err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func (c *EmbeddingClient) embed(ctx context.Context, text string) ([]float64, error) {
	reqBody, err := json.Marshal(embeddingRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: missing embedding vector", ErrMalformedResponse)
	}

	return result.Data[0].Embedding, nil
}

// Truncate cuts text to at most limit runes.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
