package config

import (
	"time"

	"github.com/pkg/errors"

	"github.com/geospy/geospy-api/internal/ai"
	"github.com/geospy/geospy-api/internal/answer"
)

const (
	AIProviderAnthropic = "anthropic"
	AIProviderGateway   = "gateway"
)

type AIConfig struct {
	Provider       string          `json:"provider" yaml:"provider"`
	BaseURL        string          `json:"baseUrl" yaml:"base_url"`
	APIKey         string          `json:"-" yaml:"api_key"`
	Model          string          `json:"model" yaml:"model"`
	MaxTokens      int64           `json:"maxTokens" yaml:"max_tokens"`
	Timeout        time.Duration   `json:"timeout" yaml:"timeout"`
	EnhanceTimeout time.Duration   `json:"enhanceTimeout" yaml:"enhance_timeout"`
	RateLimit      float64         `json:"rateLimit" yaml:"rate_limit"`
	Burst          int             `json:"burst" yaml:"burst"`
	Embedding      EmbeddingConfig `json:"embedding" yaml:"embedding"`
}

type EmbeddingConfig struct {
	BaseURL  string `json:"baseUrl" yaml:"base_url"`
	APIKey   string `json:"-" yaml:"api_key"`
	Model    string `json:"model" yaml:"model"`
	MaxChars int    `json:"maxChars" yaml:"max_chars"`
}

func (a *AIConfig) Validate() []error {
	var errs = make([]error, 0)
	if a.Provider != AIProviderAnthropic && a.Provider != AIProviderGateway {
		errs = append(errs, errors.Errorf("ai.provider must be %q or %q, got %q", AIProviderAnthropic, AIProviderGateway, a.Provider))
	}
	if a.Provider == AIProviderGateway && a.BaseURL == "" {
		errs = append(errs, errors.New("ai.base_url is required for the gateway provider"))
	}
	if a.Model == "" {
		errs = append(errs, errors.New("ai.model is required"))
	}
	return errs
}

func NewDefaultAIConfig() *AIConfig {
	return &AIConfig{
		Provider:       AIProviderAnthropic,
		Model:          "claude-sonnet-4-5",
		MaxTokens:      1024,
		Timeout:        60 * time.Second,
		EnhanceTimeout: answer.DefaultEnhanceTimeout,
		RateLimit:      5,
		Burst:          5,
		Embedding: EmbeddingConfig{
			BaseURL:  "https://api.openai.com/v1",
			Model:    "text-embedding-3-small",
			MaxChars: ai.DefaultEmbeddingMaxChars,
		},
	}
}

// Completion returns the client settings of the completion endpoint.
func (a *AIConfig) Completion() ai.ClientConfig {
	return ai.ClientConfig{
		BaseURL:   a.BaseURL,
		APIKey:    a.APIKey,
		Model:     a.Model,
		MaxTokens: a.MaxTokens,
		Timeout:   a.Timeout,
	}
}

// EmbeddingClient returns the client settings of the embedding endpoint.
// The embedding key falls back to the completion key.
func (a *AIConfig) EmbeddingClient() ai.ClientConfig {
	key := a.Embedding.APIKey
	if key == "" {
		key = a.APIKey
	}
	return ai.ClientConfig{
		BaseURL:  a.Embedding.BaseURL,
		APIKey:   key,
		Model:    a.Embedding.Model,
		MaxChars: a.Embedding.MaxChars,
		Timeout:  a.Timeout,
	}
}
