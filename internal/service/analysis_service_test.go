package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/geospy/geospy-api/internal/analysis"
	"github.com/geospy/geospy-api/internal/answer"
	"github.com/geospy/geospy-api/internal/billing"
	"github.com/geospy/geospy-api/internal/db"
	"github.com/geospy/geospy-api/internal/recommend"
)

func newAnalysisService(t *testing.T, conn *gorm.DB) *AnalysisService {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewAnalysisService(conn,
		analysis.NewAnalyzer(analysis.DefaultConfig(), nil, logger),
		recommend.NewGenerator(recommend.DefaultConfig()),
		logger)
}

// preparedProject scrapes the shoe project and answers one query.
func preparedProject(t *testing.T, conn *gorm.DB) (*db.User, *db.Project) {
	t.Helper()
	user := newTestUser(t, conn, "alice", billing.PlanPro)
	project := newShoeProject(t, conn, user.ID)

	_, err := newScrapeService(t, conn, newShoeFetcher()).ScrapeProject(context.Background(), user.ID, project.ID)
	require.NoError(t, err)
	_, err = newAnswerService(t, conn).GenerateAnswers(context.Background(), user.ID, project.ID, []string{"best running shoes"})
	require.NoError(t, err)
	return user, project
}

func TestAnalyze(t *testing.T) {
	conn := newTestDB(t)
	svc := newAnalysisService(t, conn)
	user, project := preparedProject(t, conn)

	out, err := svc.Analyze(context.Background(), user.ID, project.ID, 0)
	require.NoError(t, err)

	assert.NotZero(t, out.Analysis.ID)
	assert.Contains(t, []string(out.Analysis.TopicsPresent), "cushioning")
	assert.Contains(t, []string(out.Analysis.TopicsMissing), "Sizing guide")
	assert.NotContains(t, []string(out.Analysis.TopicsPresent), "warranty")
	assert.Equal(t, 1, out.Analysis.CompetitorCoverage.Data().CompetitorCount)
	assert.Nil(t, out.Analysis.CompetitorCoverage.Data().SemanticCoverage)
	assert.Equal(t, string(answer.FormatStepByStep), out.Analysis.StructuralPatterns.Data().AnswerFormat)
	require.NotEmpty(t, out.Recommendations)
	for _, r := range out.Recommendations {
		assert.Equal(t, out.Analysis.ID, r.AnalysisResultID)
		assert.NotZero(t, r.ID)
	}

	stored, err := GetAnalysis(conn, user.ID, project.ID, out.Analysis.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Analysis.DepthScore, stored.DepthScore)
	assert.Equal(t, out.Analysis.TopicsMissing, stored.TopicsMissing)

	recs, err := ListRecommendations(conn, user.ID, project.ID, out.Analysis.ID)
	require.NoError(t, err)
	require.Len(t, recs, len(out.Recommendations))
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank())
	}
	assert.Equal(t, recommend.PriorityHigh, recs[0].Priority)

	groups := GroupByPriority(recs)
	assert.Equal(t, len(recs), groups.Total())
	assert.NotEmpty(t, groups.High)
}

func TestAnalyze_EachRunStored(t *testing.T) {
	conn := newTestDB(t)
	svc := newAnalysisService(t, conn)
	user, project := preparedProject(t, conn)

	first, err := svc.Analyze(context.Background(), user.ID, project.ID, 0)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), user.ID, project.ID, first.Analysis.AIAnswerID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Analysis.ID, second.Analysis.ID)

	history, err := ListAnalyses(conn, user.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	all, err := ListRecommendations(conn, user.ID, project.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, len(first.Recommendations)+len(second.Recommendations))
}

func TestAnalyze_Preconditions(t *testing.T) {
	conn := newTestDB(t)
	svc := newAnalysisService(t, conn)
	user := newTestUser(t, conn, "alice", billing.PlanPro)
	project := newShoeProject(t, conn, user.ID)

	_, err := svc.Analyze(context.Background(), user.ID, project.ID, 0)
	assert.ErrorIs(t, err, ErrNotFound, "no answer yet")

	_, err = newAnswerService(t, conn).GenerateAnswers(context.Background(), user.ID, project.ID, []string{"best running shoes"})
	require.NoError(t, err)

	_, err = svc.Analyze(context.Background(), user.ID, project.ID, 0)
	assert.ErrorIs(t, err, ErrNoTargetContent)

	_, err = svc.Analyze(context.Background(), user.ID, project.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupByPriority(t *testing.T) {
	groups := GroupByPriority([]db.Recommendation{
		{Title: "a", Priority: recommend.PriorityLow},
		{Title: "b", Priority: recommend.PriorityHigh},
		{Title: "c", Priority: recommend.PriorityHigh},
	})
	require.Len(t, groups.High, 2)
	assert.Equal(t, "b", groups.High[0].Title)
	assert.Empty(t, groups.Medium)
	assert.NotNil(t, groups.Medium)
	assert.Len(t, groups.Low, 1)
}
