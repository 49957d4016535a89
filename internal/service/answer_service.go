package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/ai"
	"github.com/geospy/geospy-api/internal/answer"
	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/db"
)

const defaultAnswerConcurrency = 4

// Item statuses of an answer batch.
const (
	ItemSucceeded = "success"
	ItemFailed    = "failed"
)

// AnswerOutcome reports one query of an answer batch.
type AnswerOutcome struct {
	Query  string       `json:"query"`
	Status string       `json:"status"`
	Answer *db.AIAnswer `json:"answer,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// AnswerBatch reports a whole answer batch.
type AnswerBatch struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Items     []AnswerOutcome `json:"items"`
}

// AnswerService produces reference answers for a project's queries.
type AnswerService struct {
	db          *gorm.DB
	completer   ai.Completer
	enhancer    *answer.QueryEnhancer
	extractor   *answer.ConceptExtractor
	model       string
	concurrency int
	logger      *zap.Logger
}

func NewAnswerService(dbConn *gorm.DB, completer ai.Completer, enhancer *answer.QueryEnhancer, extractor *answer.ConceptExtractor, model string, logger *zap.Logger) *AnswerService {
	return &AnswerService{
		db:          dbConn,
		completer:   completer,
		enhancer:    enhancer,
		extractor:   extractor,
		model:       model,
		concurrency: defaultAnswerConcurrency,
		logger:      logger,
	}
}

// GenerateAnswers runs every query concurrently. Each query is enhanced,
// answered, classified and mined for concepts in sequence. A failed completion
// fails only its own item; a failed write fails the batch. A nil completer
// means no AI credential is configured.
func (s *AnswerService) GenerateAnswers(ctx context.Context, userID, projectID uint, queries []string) (*AnswerBatch, error) {
	cleaned := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "at least one query is required")
	}
	if s.completer == nil {
		return nil, ai.ErrMissingCredential
	}

	if _, err := GetProject(s.db, userID, projectID); err != nil {
		return nil, err
	}
	user, err := GetUserByID(s.db, userID)
	if err != nil {
		return nil, err
	}
	if err := billing.CheckQueries(user.Plan, len(cleaned)); err != nil {
		return nil, err
	}

	items := make([]AnswerOutcome, len(cleaned))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, q := range cleaned {
		g.Go(func() error {
			out, err := s.answerQuery(gctx, projectID, q)
			if err != nil {
				return err
			}
			items[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &AnswerBatch{Total: len(items), Items: items}
	for _, it := range items {
		if it.Status == ItemSucceeded {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	return batch, nil
}

// answerQuery returns an error only when persisting the answer fails.
func (s *AnswerService) answerQuery(ctx context.Context, projectID uint, query string) (AnswerOutcome, error) {
	logger := s.logger.With(zap.Uint("project_id", projectID), zap.String("query", query))

	enhanced := s.enhancer.Enhance(ctx, query)
	prompt := enhanced.OrElse(query)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("answer generation failed", zap.Error(err))
		return AnswerOutcome{Query: query, Status: ItemFailed, Error: "completion service unavailable"}, nil
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("answer generation returned an empty answer")
		return AnswerOutcome{Query: query, Status: ItemFailed, Error: "completion service returned an empty answer"}, nil
	}

	concepts := s.extractor.Extract(ctx, text)

	row := db.AIAnswer{
		ProjectID:   projectID,
		Query:       query,
		Answer:      text,
		Format:      answer.Classify(text),
		KeyConcepts: concepts.Value.Topics,
		Entities:    concepts.Value.Entities,
		Metadata: datatypes.JSONMap{
			"model":              s.model,
			"generated_at":       time.Now().UTC().Format(time.RFC3339),
			"query_enhanced":     !enhanced.Degraded,
			"concepts_extracted": !concepts.Degraded,
		},
	}
	if !enhanced.Degraded {
		row.EnhancedQuery = enhanced.Value
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return AnswerOutcome{}, errors.Wrap(err, "save answer")
	}

	logger.Debug("answer generated", zap.Uint("answer_id", row.ID), zap.String("format", string(row.Format)))
	return AnswerOutcome{Query: query, Status: ItemSucceeded, Answer: &row}, nil
}
