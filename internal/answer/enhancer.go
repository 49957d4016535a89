package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/geospy/geospy-api/internal/ai"
)

// DefaultEnhanceTimeout bounds a single enhancement call.
const DefaultEnhanceTimeout = 10 * time.Second

var errEmptyEnhancement = errors.New("empty enhancement")

// QueryEnhancer rewrites terse queries into well-formed questions.
type QueryEnhancer struct {
	completer ai.Completer
	timeout   time.Duration
	logger    *zap.Logger
}

func NewQueryEnhancer(completer ai.Completer, timeout time.Duration, logger *zap.Logger) *QueryEnhancer {
	if timeout <= 0 {
		timeout = DefaultEnhanceTimeout
	}
	return &QueryEnhancer{completer: completer, timeout: timeout, logger: logger}
}

// Enhance returns the rewritten question. On timeout, upstream error or an empty
// reply the result is degraded and carries query unchanged.
func (e *QueryEnhancer) Enhance(ctx context.Context, query string) ai.Result[string] {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.completer.Complete(ctx, buildEnhancePrompt(query))
	if err != nil {
		e.logger.Warn("query enhancement failed", zap.String("query", query), zap.Error(err))
		return ai.Degraded(query, err)
	}

	enhanced := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'“”‘’`))
	if enhanced == "" {
		e.logger.Warn("query enhancement returned nothing", zap.String("query", query))
		return ai.Degraded(query, errEmptyEnhancement)
	}

	return ai.Ok(enhanced)
}

func buildEnhancePrompt(query string) string {
	return fmt.Sprintf(`Rewrite the search query below as one clear, complete question a person would ask an AI assistant.
Return only the question, without quotes or any preamble.

Query: %s`, query)
}
