package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/geospy/geospy-api/internal/ai"
)

// Concepts are the topics and named entities mentioned in an answer.
type Concepts struct {
	Topics   []string `json:"topics"`
	Entities []string `json:"entities"`
}

// ConceptExtractor asks the completion service for the topics and entities of an answer.
type ConceptExtractor struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewConceptExtractor(completer ai.Completer, logger *zap.Logger) *ConceptExtractor {
	return &ConceptExtractor{completer: completer, logger: logger}
}

// Extract never fails. Upstream or parse errors yield a degraded result with empty lists.
func (e *ConceptExtractor) Extract(ctx context.Context, text string) ai.Result[Concepts] {
	empty := Concepts{Topics: []string{}, Entities: []string{}}

	raw, err := e.completer.Complete(ctx, buildConceptPrompt(text))
	if err != nil {
		e.logger.Warn("concept extraction failed", zap.Error(err))
		return ai.Degraded(empty, err)
	}

	concepts, err := parseConcepts(raw)
	if err != nil {
		e.logger.Warn("concept extraction returned invalid JSON", zap.Error(err))
		return ai.Degraded(empty, err)
	}

	return ai.Ok(concepts)
}

func buildConceptPrompt(text string) string {
	return fmt.Sprintf(`Extract the main topics and the named entities from the answer below.
Respond with strict JSON of the form {"topics": ["..."], "entities": ["..."]}.
Do not add any prose and do not wrap the JSON in code fences.

Answer:
%s`, text)
}

func parseConcepts(raw string) (Concepts, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &payload); err != nil {
		return Concepts{}, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	return Concepts{
		Topics:   nonEmpty(cast.ToStringSlice(payload["topics"])),
		Entities: nonEmpty(cast.ToStringSlice(payload["entities"])),
	}, nil
}

// cleanJSONResponse removes a markdown code fence around a JSON body.
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "json")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
