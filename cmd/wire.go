package cmd

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/geospy/geospy-api/internal/ai"
	"github.com/geospy/geospy-api/internal/config"
	"github.com/geospy/geospy-api/internal/crawler"
	"github.com/geospy/geospy-api/internal/metrics"
)

// buildCompleter returns a nil Completer when no AI key is configured, so the
// API can start and report the missing credential per request.
func buildCompleter(cfg *config.AIConfig, m *metrics.Metrics, logger *zap.Logger) (ai.Completer, error) {
	var (
		completer ai.Completer
		err       error
	)
	switch cfg.Provider {
	case config.AIProviderAnthropic:
		var c *ai.AnthropicCompleter
		if c, err = ai.NewAnthropicCompleter(cfg.Completion(), m); err == nil {
			completer = c
		}
	case config.AIProviderGateway:
		var c *ai.GatewayCompleter
		if c, err = ai.NewGatewayCompleter(cfg.Completion(), m); err == nil {
			completer = c
		}
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}

	if errors.Is(err, ai.ErrMissingCredential) {
		logger.Warn("AI_API_KEY is not set, answer generation is disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ai.NewRateLimitedCompleter(completer, cfg.RateLimit, cfg.Burst), nil
}

// buildEmbedder returns a nil Embedder when no embedding key is configured;
// analyses then report no semantic coverage.
func buildEmbedder(cfg *config.GlobalConfig, m *metrics.Metrics, logger *zap.Logger) (ai.Embedder, *redis.Client, error) {
	client, err := ai.NewEmbeddingClient(cfg.AI.EmbeddingClient(), m)
	if errors.Is(err, ai.ErrMissingCredential) {
		logger.Warn("no embedding key configured, semantic coverage is disabled")
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.Redis == nil || cfg.Redis.Addr == "" {
		return client, nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Info("embedding cache enabled", zap.String("redis", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))
	return ai.NewCachedEmbedder(client, rdb, client.Model(), cfg.Redis.TTL, logger), rdb, nil
}

func buildFetcher(cfg *config.ScraperConfig) (crawler.Fetcher, error) {
	switch cfg.Provider {
	case config.ScraperProviderService:
		return crawler.NewServiceFetcher(cfg.BaseURL, cfg.APIKey, cfg.Timeout), nil
	case config.ScraperProviderDirect:
		return crawler.NewDirectFetcher(cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown scraper provider %q", cfg.Provider)
	}
}
