package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/analysis"
	"github.com/geospy/geospy-api/internal/answer"
	"github.com/geospy/geospy-api/internal/db"
	"github.com/geospy/geospy-api/internal/recommend"
)

// AnalysisOutcome is a stored analysis with the recommendations derived from it.
type AnalysisOutcome struct {
	Analysis        db.AnalysisResult   `json:"analysis"`
	Recommendations []db.Recommendation `json:"recommendations"`
}

// AnalysisService runs coverage analyses and stores their recommendations.
type AnalysisService struct {
	db        *gorm.DB
	analyzer  *analysis.Analyzer
	generator *recommend.Generator
	logger    *zap.Logger
}

func NewAnalysisService(dbConn *gorm.DB, analyzer *analysis.Analyzer, generator *recommend.Generator, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{db: dbConn, analyzer: analyzer, generator: generator, logger: logger}
}

// Analyze compares the project's pages against one of its answers. An
// answerID of zero selects the most recent answer. Every call stores a new
// analysis.
func (s *AnalysisService) Analyze(ctx context.Context, userID, projectID, answerID uint) (*AnalysisOutcome, error) {
	project, err := GetProject(s.db, userID, projectID)
	if err != nil {
		return nil, err
	}

	var ans *db.AIAnswer
	if answerID == 0 {
		ans, err = LatestAnswer(s.db, userID, projectID)
	} else {
		ans, err = GetAnswer(s.db, userID, projectID, answerID)
	}
	if err != nil {
		return nil, err
	}

	urlIDs := make([]uint, 0, len(project.URLs))
	for _, u := range project.URLs {
		urlIDs = append(urlIDs, u.ID)
	}
	scrapes, err := LatestSuccessfulScrapes(s.db, urlIDs)
	if err != nil {
		return nil, err
	}

	in := analysis.Input{
		AnswerText:   ans.Answer,
		AnswerFormat: ans.Format,
		KeyConcepts:  ans.KeyConcepts,
	}
	if in.AnswerFormat == "" {
		in.AnswerFormat = answer.Classify(ans.Answer)
	}
	for _, u := range project.URLs {
		sc, ok := scrapes[u.ID]
		if !ok {
			continue
		}
		p := analysis.Page{URL: u.Address, Structure: sc.Structure(), Body: sc.RawContent}
		if u.Role == db.RoleTarget {
			in.Targets = append(in.Targets, p)
		} else {
			in.Competitors = append(in.Competitors, p)
		}
	}

	start := time.Now()
	res, err := s.analyzer.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	row := db.AnalysisResult{
		ProjectID:          projectID,
		AIAnswerID:         ans.ID,
		TopicsPresent:      res.TopicsPresent,
		TopicsMissing:      res.TopicsMissing,
		TopicsWeak:         res.TopicsWeak,
		TopicDetails:       res.TopicDetails,
		StructuralPatterns: datatypes.NewJSONType(res.StructuralPatterns),
		DepthScore:         res.DepthScore,
		CompetitorCoverage: datatypes.NewJSONType(res.CompetitorCoverage),
	}

	generated := s.generator.Generate(res)
	recs := make([]db.Recommendation, 0, len(generated))
	for _, r := range generated {
		recs = append(recs, db.Recommendation{
			Priority:       r.Priority,
			Category:       r.Category,
			Title:          r.Title,
			Description:    r.Description,
			ActionItems:    r.ActionItems,
			ExpectedImpact: r.ExpectedImpact,
		})
	}

	if err := SaveAnalysis(s.db.WithContext(ctx), &row, recs); err != nil {
		return nil, err
	}

	s.logger.Info("analysis completed",
		zap.Uint("project_id", projectID),
		zap.Uint("answer_id", ans.ID),
		zap.Uint("analysis_id", row.ID),
		zap.Int("depth_score", row.DepthScore),
		zap.Int("recommendations", len(recs)),
		zap.Duration("duration", time.Since(start)))

	return &AnalysisOutcome{Analysis: row, Recommendations: recs}, nil
}
