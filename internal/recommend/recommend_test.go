package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geospy/geospy-api/internal/analysis"
)

func count(recs []Recommendation, p Priority) int {
	n := 0
	for _, r := range recs {
		if r.Priority == p {
			n++
		}
	}
	return n
}

func TestGenerate_MissingTopicsGrouped(t *testing.T) {
	res := &analysis.Result{
		TopicsMissing: []string{"warranty", "sizing guide"},
		TopicsWeak:    []string{},
	}

	recs := NewGenerator(DefaultConfig()).Generate(res)

	require.Len(t, recs, 1)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, CategoryMissingContent, recs[0].Category)
	assert.Contains(t, recs[0].Title, "warranty")
	assert.Contains(t, recs[0].Title, "sizing guide")
	assert.Zero(t, count(recs, PriorityLow))

	for i, item := range recs[0].ActionItems {
		assert.Equal(t, i+1, item.Step)
	}
}

func TestGenerate_GroupSize(t *testing.T) {
	missing := make([]string, 7)
	for i := range missing {
		missing[i] = fmt.Sprintf("topic %d", i)
	}

	recs := NewGenerator(Config{GroupSize: 3}).Generate(&analysis.Result{TopicsMissing: missing})

	require.Len(t, recs, 3)
	assert.Len(t, recs[2].ActionItems, 2)
}

func TestGenerate_NoGaps(t *testing.T) {
	res := &analysis.Result{
		TopicsPresent: []string{"cushioning"},
		StructuralPatterns: analysis.StructuralPatterns{
			AnswerFormat:   "paragraph",
			TargetH2Count:  3,
			TargetHasLists: true,
		},
	}

	assert.Empty(t, NewGenerator(DefaultConfig()).Generate(res))
	assert.Empty(t, NewGenerator(DefaultConfig()).Generate(nil))
}

func TestGenerate_WeakTopics(t *testing.T) {
	res := &analysis.Result{
		TopicsWeak: []string{"warranty", "price"},
		TopicDetails: []analysis.TopicDetail{
			{Topic: "warranty", Status: analysis.StatusWeak, MatchedBy: analysis.StrategyKeywordBody, CompetitorsCovering: 2, CompetitorAvgWords: 40},
			{Topic: "price", Status: analysis.StatusWeak, MatchedBy: analysis.StrategyExactHeading, MatchedHeading: "Price", TargetWords: 5, CompetitorAvgWords: 30.2},
		},
	}

	recs := NewGenerator(DefaultConfig()).Generate(res)

	require.Len(t, recs, 2)
	assert.Equal(t, PriorityMedium, recs[0].Priority)
	assert.Equal(t, CategoryStructural, recs[0].Category)
	assert.Equal(t, CategoryMissingContent, recs[1].Category)
	assert.Contains(t, recs[1].ActionItems[0].Action, "31 words")
}

func TestGenerate_MismatchPriority(t *testing.T) {
	patterns := analysis.StructuralPatterns{
		AnswerFormat:         "step_by_step",
		TargetH2Count:        0,
		AvgCompetitorH2Count: 3,
	}

	alone := NewGenerator(DefaultConfig()).Generate(&analysis.Result{StructuralPatterns: patterns})
	require.Len(t, alone, 2)
	assert.Equal(t, 2, count(alone, PriorityLow))
	assert.Equal(t, CategoryFormat, alone[0].Category)
	assert.Equal(t, FormatSteps, alone[0].ActionItems[1].Format)
	assert.Equal(t, CategoryStructural, alone[1].Category)

	withMissing := NewGenerator(DefaultConfig()).Generate(&analysis.Result{
		TopicsMissing:      []string{"warranty"},
		StructuralPatterns: patterns,
	})
	require.Len(t, withMissing, 3)
	assert.Equal(t, PriorityHigh, withMissing[0].Priority)
	assert.Zero(t, count(withMissing, PriorityLow))
	assert.Equal(t, 2, count(withMissing, PriorityMedium))
}

func TestSort(t *testing.T) {
	recs := []Recommendation{
		{Priority: PriorityLow, Title: "a"},
		{Priority: PriorityHigh, Title: "b"},
		{Priority: PriorityMedium, Title: "c"},
		{Priority: PriorityHigh, Title: "d"},
	}

	Sort(recs)

	var titles []string
	for _, r := range recs {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, titles)
}
