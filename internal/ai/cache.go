package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const embeddingKeyPrefix = "embedding:"

// CachedEmbedder stores vectors in Redis so identical texts are embedded once.
// Cache failures never fail the call.
type CachedEmbedder struct {
	next   Embedder
	client *redis.Client
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedEmbedder wraps next. A nil client returns next unchanged.
func NewCachedEmbedder(next Embedder, client *redis.Client, model string, ttl time.Duration, logger *zap.Logger) Embedder {
	if client == nil {
		return next
	}
	return &CachedEmbedder{
		next:   next,
		client: client,
		model:  model,
		ttl:    ttl,
		logger: logger,
	}
}

// Embed returns the cached vector or computes and stores it.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := EmbeddingCacheKey(c.model, text)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var vector []float64
		if jsonErr := json.Unmarshal(raw, &vector); jsonErr == nil && len(vector) > 0 {
			return vector, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("embedding cache read failed", zap.Error(err))
	}

	vector, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if encoded, jsonErr := json.Marshal(vector); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.logger.Warn("embedding cache write failed", zap.Error(setErr))
		}
	}

	return vector, nil
}

// EmbeddingCacheKey derives the Redis key for a model/text pair.
func EmbeddingCacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "|" + text))
	return embeddingKeyPrefix + hex.EncodeToString(sum[:])
}
