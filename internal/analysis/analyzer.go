// Package analysis diffs a target page against its competitors and an AI answer.
package analysis

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/geospy/geospy-api/internal/ai"
	"github.com/geospy/geospy-api/internal/answer"
)

// ErrNoTargetContent is returned when none of the target URLs has scraped content.
var ErrNoTargetContent = errors.New("no scraped content for target page")

// Topic statuses.
const (
	StatusPresent = "present"
	StatusWeak    = "weak"
	StatusMissing = "missing"
)

// Config holds the tunable thresholds of the analyzer.
type Config struct {
	// WeakRatio is the share of the competitor average section length below which a covered topic is weak.
	WeakRatio float64 `yaml:"weak_ratio"`

	// KeywordThreshold is the share of topic keywords a heading or body must contain to match.
	KeywordThreshold float64 `yaml:"keyword_threshold"`

	DepthWeights DepthWeights `yaml:"depth_weights"`
}

// DefaultConfig returns the analyzer defaults.
func DefaultConfig() Config {
	return Config{
		WeakRatio:        0.5,
		KeywordThreshold: 0.6,
		DepthWeights:     DefaultDepthWeights(),
	}
}

// Input is everything one analysis run reads.
type Input struct {
	AnswerText   string
	AnswerFormat answer.Format
	KeyConcepts  []string
	Targets      []Page
	Competitors  []Page
}

// TopicDetail explains how one topic was classified.
type TopicDetail struct {
	Topic               string  `json:"topic"`
	Status              string  `json:"status"`
	MatchedBy           string  `json:"matchedBy,omitempty"`
	MatchedHeading      string  `json:"matchedHeading,omitempty"`
	TargetWords         int     `json:"targetWords"`
	CompetitorAvgWords  float64 `json:"competitorAvgWords"`
	CompetitorsCovering int     `json:"competitorsCovering"`
}

// StructuralPatterns summarises page shape on both sides.
type StructuralPatterns struct {
	AnswerFormat          string  `json:"answerFormat"`
	TargetHeadingCount    int     `json:"targetHeadingCount"`
	TargetH2Count         int     `json:"targetH2Count"`
	TargetHasLists        bool    `json:"targetHasLists"`
	AvgCompetitorHeadings float64 `json:"avgCompetitorHeadings"`
	AvgCompetitorH2Count  float64 `json:"avgCompetitorH2Count"`
	CompetitorsWithLists  int     `json:"competitorsWithLists"`
}

// CompetitorCoverage is the competitor baseline of a run.
type CompetitorCoverage struct {
	CompetitorCount  int      `json:"competitorCount"`
	AvgWordCount     float64  `json:"avgWordCount"`
	SemanticCoverage *float64 `json:"semanticCoverage"`
}

// Result is the outcome of one analysis run.
type Result struct {
	TopicsPresent      []string           `json:"topicsPresent"`
	TopicsMissing      []string           `json:"topicsMissing"`
	TopicsWeak         []string           `json:"topicsWeak"`
	TopicDetails       []TopicDetail      `json:"topicDetails"`
	StructuralPatterns StructuralPatterns `json:"structuralPatterns"`
	DepthScore         int                `json:"depthScore"`
	CompetitorCoverage CompetitorCoverage `json:"competitorCoverage"`
}

// Universe returns every topic considered, in first-seen order.
func (r *Result) Universe() []string {
	out := make([]string, 0, len(r.TopicDetails))
	for _, d := range r.TopicDetails {
		out = append(out, d.Topic)
	}
	return out
}

// Analyzer computes coverage results.
type Analyzer struct {
	cfg      Config
	matchers MatchChain
	embedder ai.Embedder
	logger   *zap.Logger
}

// Option customises an Analyzer.
type Option func(*Analyzer)

// WithMatchers replaces the default matcher chain.
func WithMatchers(chain MatchChain) Option {
	return func(a *Analyzer) { a.matchers = chain }
}

// NewAnalyzer creates an analyzer. A nil embedder disables semantic coverage.
func NewAnalyzer(cfg Config, embedder ai.Embedder, logger *zap.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:      cfg,
		matchers: DefaultMatchChain(cfg.KeywordThreshold),
		embedder: embedder,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies every topic of the universe against the target pages.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	targets := make([]Page, 0, len(in.Targets))
	for _, p := range in.Targets {
		if p.hasContent() {
			targets = append(targets, p)
		}
	}
	if len(targets) == 0 {
		return nil, ErrNoTargetContent
	}
	target := mergePages(targets)

	start := time.Now()
	universe := buildUniverse(in.KeyConcepts, in.Competitors)

	result := &Result{
		TopicsPresent: []string{},
		TopicsMissing: []string{},
		TopicsWeak:    []string{},
		TopicDetails:  make([]TopicDetail, 0, len(universe)),
	}

	headingChain := a.matchers.HeadingOnly()
	competitorSections := make([]Page, 0, len(in.Competitors))
	for _, c := range in.Competitors {
		competitorSections = append(competitorSections, c.sectionsOnly())
	}
	for _, topic := range universe {
		detail := a.classify(topic, target, competitorSections, headingChain)
		result.TopicDetails = append(result.TopicDetails, detail)
		switch detail.Status {
		case StatusPresent:
			result.TopicsPresent = append(result.TopicsPresent, topic)
		case StatusWeak:
			result.TopicsWeak = append(result.TopicsWeak, topic)
		default:
			result.TopicsMissing = append(result.TopicsMissing, topic)
		}
	}

	base := competitorBaseline(in.Competitors)
	result.StructuralPatterns = structuralPatterns(in.AnswerFormat, target, base)
	result.CompetitorCoverage = CompetitorCoverage{
		CompetitorCount: len(in.Competitors),
		AvgWordCount:    base.avgWords,
	}

	coverage := topicCoverage(len(result.TopicsPresent), len(result.TopicsWeak), len(universe))
	result.DepthScore = DepthScore(a.cfg.DepthWeights, DepthInputs{
		Words:         target.Structure.WordCount,
		Headings:      target.Structure.HeadingCount(),
		AvgWords:      base.avgWords,
		AvgHeadings:   base.avgHeadings,
		TopicCoverage: coverage,
	})

	result.CompetitorCoverage.SemanticCoverage = a.semanticCoverage(ctx, target.Body, in.AnswerText)

	a.logger.Debug("coverage analysed",
		zap.Int("topics", len(universe)),
		zap.Int("present", len(result.TopicsPresent)),
		zap.Int("weak", len(result.TopicsWeak)),
		zap.Int("missing", len(result.TopicsMissing)),
		zap.Int("depth_score", result.DepthScore),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// classify compares the target against competitor sections. competitors must
// carry no H1s, otherwise a title match would measure a whole page.
func (a *Analyzer) classify(topic string, target Page, competitors []Page, headingChain MatchChain) TopicDetail {
	detail := TopicDetail{Topic: topic, Status: StatusMissing}

	var (
		compWords    int
		compCovering int
	)
	for _, c := range competitors {
		if m, ok := headingChain.Match(topic, c); ok {
			compWords += m.Words
			compCovering++
		}
	}
	detail.CompetitorsCovering = compCovering
	if compCovering > 0 {
		detail.CompetitorAvgWords = float64(compWords) / float64(compCovering)
	}

	match, ok := a.matchers.Match(topic, target)
	if !ok {
		return detail
	}
	detail.MatchedBy = match.Strategy
	detail.MatchedHeading = match.Heading
	detail.TargetWords = match.Words

	switch {
	case match.InHeading && compCovering > 0 && float64(match.Words) < a.cfg.WeakRatio*detail.CompetitorAvgWords:
		detail.Status = StatusWeak
	case !match.InHeading && compCovering > 0:
		detail.Status = StatusWeak
	default:
		detail.Status = StatusPresent
	}
	return detail
}

// buildUniverse lists answer concepts, then competitor H2 and H3 headings,
// deduplicated on their normalised form.
func buildUniverse(concepts []string, competitors []Page) []string {
	seen := make(map[string]struct{})
	universe := make([]string, 0, len(concepts))
	add := func(topic string) {
		key := Normalize(topic)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		universe = append(universe, topic)
	}

	for _, c := range concepts {
		add(c)
	}
	for _, p := range competitors {
		for _, s := range p.Structure.Sections {
			add(s.Heading)
			for _, h3 := range s.SubHeadings {
				add(h3)
			}
		}
	}
	return universe
}

type baseline struct {
	avgWords    float64
	avgHeadings float64
	avgH2s      float64
	withLists   int
}

func competitorBaseline(competitors []Page) baseline {
	var b baseline
	if len(competitors) == 0 {
		return b
	}
	var words, headings, h2s int
	for _, c := range competitors {
		words += c.Structure.WordCount
		headings += c.Structure.HeadingCount()
		h2s += len(c.Structure.H2s)
		if hasList(c.Body) {
			b.withLists++
		}
	}
	n := float64(len(competitors))
	b.avgWords = float64(words) / n
	b.avgHeadings = float64(headings) / n
	b.avgH2s = float64(h2s) / n
	return b
}

func structuralPatterns(format answer.Format, target Page, b baseline) StructuralPatterns {
	return StructuralPatterns{
		AnswerFormat:          string(format),
		TargetHeadingCount:    target.Structure.HeadingCount(),
		TargetH2Count:         len(target.Structure.H2s),
		TargetHasLists:        hasList(target.Body),
		AvgCompetitorHeadings: b.avgHeadings,
		AvgCompetitorH2Count:  b.avgH2s,
		CompetitorsWithLists:  b.withLists,
	}
}

func hasList(body string) bool {
	return answer.Classify(body).IsList()
}

func topicCoverage(present, weak, total int) float64 {
	if total == 0 {
		return 1
	}
	return (float64(present) + 0.5*float64(weak)) / float64(total)
}
