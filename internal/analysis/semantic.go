package analysis

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"
)

var errDimensionMismatch = errors.New("embedding dimensions differ")

// CosineSimilarity of two equally sized vectors. Zero vectors yield 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errDimensionMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// SemanticPercentage maps a cosine similarity onto 0-100 with one decimal.
func SemanticPercentage(similarity float64) float64 {
	return math.Round(clamp(similarity, 0, 1)*1000) / 10
}

// semanticCoverage returns nil whenever a figure cannot be computed.
func (a *Analyzer) semanticCoverage(ctx context.Context, targetBody, answerText string) *float64 {
	if a.embedder == nil || strings.TrimSpace(targetBody) == "" || strings.TrimSpace(answerText) == "" {
		return nil
	}

	targetVec, err := a.embedder.Embed(ctx, targetBody)
	if err != nil {
		a.logger.Warn("semantic coverage skipped: target embedding failed", zap.Error(err))
		return nil
	}
	answerVec, err := a.embedder.Embed(ctx, answerText)
	if err != nil {
		a.logger.Warn("semantic coverage skipped: answer embedding failed", zap.Error(err))
		return nil
	}

	similarity, err := CosineSimilarity(targetVec, answerVec)
	if err != nil {
		a.logger.Warn("semantic coverage skipped", zap.Error(err))
		return nil
	}

	pct := SemanticPercentage(similarity)
	return &pct
}
