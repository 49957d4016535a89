// Package recommend turns coverage results into prioritised action items.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/geospy/geospy-api/internal/analysis"
	"github.com/geospy/geospy-api/internal/answer"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities high first. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type Category string

const (
	CategoryMissingContent Category = "missing_content"
	CategoryStructural     Category = "structural"
	CategoryFormat         Category = "format"
)

// Content formats an action item asks for.
const (
	FormatSection    = "h2_section"
	FormatSubsection = "h3_subsection"
	FormatParagraph  = "paragraph"
	FormatBulletList = "bullet_list"
	FormatSteps      = "step_by_step"
)

// DefaultGroupSize is how many missing topics share one recommendation.
const DefaultGroupSize = 5

// ActionItem is one numbered step of a recommendation.
type ActionItem struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Format string `json:"format"`
}

// Recommendation is a single prioritised change to the target page.
type Recommendation struct {
	Priority       Priority     `json:"priority"`
	Category       Category     `json:"category"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	ActionItems    []ActionItem `json:"actionItems"`
	ExpectedImpact string       `json:"expectedImpact"`
}

type Config struct {
	GroupSize int `yaml:"group_size"`
}

func DefaultConfig() Config {
	return Config{GroupSize: DefaultGroupSize}
}

// Generator derives recommendations deterministically from an analysis result.
type Generator struct {
	groupSize int
}

func NewGenerator(cfg Config) *Generator {
	if cfg.GroupSize <= 0 {
		cfg.GroupSize = DefaultGroupSize
	}
	return &Generator{groupSize: cfg.GroupSize}
}

// Generate returns recommendations sorted high to medium to low. A result
// without gaps or mismatches yields an empty slice.
func (g *Generator) Generate(res *analysis.Result) []Recommendation {
	recs := []Recommendation{}
	if res == nil {
		return recs
	}

	patterns := res.StructuralPatterns
	sectionFormat := contentFormat(answer.Format(patterns.AnswerFormat))

	for _, group := range chunk(res.TopicsMissing, g.groupSize) {
		recs = append(recs, missingTopics(group, sectionFormat))
	}

	details := make(map[string]analysis.TopicDetail, len(res.TopicDetails))
	for _, d := range res.TopicDetails {
		details[d.Topic] = d
	}
	for _, topic := range res.TopicsWeak {
		recs = append(recs, weakTopic(topic, details[topic], sectionFormat))
	}

	mismatch := PriorityLow
	if len(res.TopicsMissing) > 0 {
		mismatch = PriorityMedium
	}

	answerFormat := answer.Format(patterns.AnswerFormat)
	if answerFormat.IsList() && !patterns.TargetHasLists {
		recs = append(recs, formatMismatch(answerFormat, mismatch))
	}
	if patterns.TargetH2Count == 0 && patterns.AvgCompetitorH2Count >= 2 {
		recs = append(recs, structureMismatch(patterns, mismatch))
	}

	Sort(recs)
	return recs
}

// Sort orders recommendations by priority, keeping generation order within a bucket.
func Sort(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
}

func missingTopics(topics []string, format string) Recommendation {
	items := make([]ActionItem, 0, len(topics)+1)
	for i, topic := range topics {
		items = append(items, ActionItem{
			Step:   i + 1,
			Action: fmt.Sprintf("Add a section covering %q", topic),
			Format: FormatSection,
		})
	}
	items = append(items, ActionItem{
		Step:   len(topics) + 1,
		Action: "Open each new section with a direct one-sentence answer, then support it",
		Format: format,
	})

	return Recommendation{
		Priority:       PriorityHigh,
		Category:       CategoryMissingContent,
		Title:          "Cover missing topics: " + strings.Join(topics, ", "),
		Description:    fmt.Sprintf("AI answers and competing pages discuss %s, but the target page does not mention %s.", quoteList(topics), pronoun(len(topics))),
		ActionItems:    items,
		ExpectedImpact: "Pages that answer every sub-question of a topic are more likely to be cited in AI-generated answers.",
	}
}

func weakTopic(topic string, d analysis.TopicDetail, format string) Recommendation {
	target := int(math.Ceil(d.CompetitorAvgWords))

	if d.MatchedBy == analysis.StrategyKeywordBody {
		return Recommendation{
			Priority:    PriorityMedium,
			Category:    CategoryStructural,
			Title:       fmt.Sprintf("Give %q its own section", topic),
			Description: fmt.Sprintf("%q is only mentioned in passing, while %d competitor page(s) dedicate a heading to it.", topic, d.CompetitorsCovering),
			ActionItems: []ActionItem{
				{Step: 1, Action: fmt.Sprintf("Add an H2 heading for %q", topic), Format: FormatSection},
				{Step: 2, Action: fmt.Sprintf("Move the existing mention of %q under the new heading and expand it to about %d words", topic, target), Format: format},
			},
			ExpectedImpact: "A dedicated heading makes the passage easier for AI systems to locate and quote.",
		}
	}

	return Recommendation{
		Priority:    PriorityMedium,
		Category:    CategoryMissingContent,
		Title:       fmt.Sprintf("Expand the %q section", d.MatchedHeading),
		Description: fmt.Sprintf("The section on %q has %d words against a competitor average of %d.", topic, d.TargetWords, target),
		ActionItems: []ActionItem{
			{Step: 1, Action: fmt.Sprintf("Expand the %q section to about %d words", d.MatchedHeading, target), Format: format},
			{Step: 2, Action: "Split the expanded section with H3 subheadings for each sub-question", Format: FormatSubsection},
		},
		ExpectedImpact: "Deeper sections compete with the most thorough pages for citation.",
	}
}

func formatMismatch(f answer.Format, priority Priority) Recommendation {
	listFormat, noun := FormatBulletList, "bulleted list"
	if f == answer.FormatStepByStep {
		listFormat, noun = FormatSteps, "numbered list of steps"
	}

	return Recommendation{
		Priority:    priority,
		Category:    CategoryFormat,
		Title:       "Present key points as a " + noun,
		Description: fmt.Sprintf("The AI answer is structured as a %s, but the target page contains no lists.", noun),
		ActionItems: []ActionItem{
			{Step: 1, Action: "Identify the paragraphs that enumerate options, criteria or steps", Format: FormatParagraph},
			{Step: 2, Action: "Convert them to a " + noun, Format: listFormat},
		},
		ExpectedImpact: "Content shaped like the AI answer can be lifted into it with little rewriting.",
	}
}

func structureMismatch(p analysis.StructuralPatterns, priority Priority) Recommendation {
	return Recommendation{
		Priority:    priority,
		Category:    CategoryStructural,
		Title:       "Break the page into H2 sections",
		Description: fmt.Sprintf("The target page has no H2 headings; competitors average %.1f.", p.AvgCompetitorH2Count),
		ActionItems: []ActionItem{
			{Step: 1, Action: "Outline the page by the questions it answers", Format: FormatParagraph},
			{Step: 2, Action: "Add an H2 heading above each answer", Format: FormatSection},
		},
		ExpectedImpact: "Clear section headings help AI systems map passages to questions.",
	}
}

func contentFormat(f answer.Format) string {
	switch f {
	case answer.FormatStepByStep:
		return FormatSteps
	case answer.FormatBulletList:
		return FormatBulletList
	default:
		return FormatParagraph
	}
}

func chunk(items []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func pronoun(n int) string {
	if n == 1 {
		return "it"
	}
	return "them"
}
