package analysis

// Strategy names reported in topic details.
const (
	StrategyExactHeading   = "exact_heading"
	StrategyKeywordHeading = "keyword_heading"
	StrategyKeywordBody    = "keyword_body"
)

// Match describes where a topic was found on a page.
type Match struct {
	Strategy string
	Heading  string
	// Words is the size of the section holding the heading, or of the whole page for body matches.
	Words     int
	InHeading bool
}

// Matcher locates a topic on a page.
type Matcher interface {
	Name() string
	Match(topic string, page Page) (Match, bool)
}

// MatchChain tries matchers in order and returns the first hit.
type MatchChain []Matcher

// DefaultMatchChain is exact heading, then keyword heading, then keyword body.
func DefaultMatchChain(threshold float64) MatchChain {
	return MatchChain{
		ExactHeadingMatcher{},
		KeywordHeadingMatcher{Threshold: threshold},
		KeywordBodyMatcher{Threshold: threshold},
	}
}

func (c MatchChain) Match(topic string, page Page) (Match, bool) {
	for _, m := range c {
		if match, ok := m.Match(topic, page); ok {
			return match, true
		}
	}
	return Match{}, false
}

// HeadingOnly returns the subset of the chain that matches on headings.
func (c MatchChain) HeadingOnly() MatchChain {
	out := make(MatchChain, 0, len(c))
	for _, m := range c {
		if _, body := m.(KeywordBodyMatcher); !body {
			out = append(out, m)
		}
	}
	return out
}

// ExactHeadingMatcher matches a heading equal to the topic after normalisation.
type ExactHeadingMatcher struct{}

func (ExactHeadingMatcher) Name() string { return StrategyExactHeading }

func (ExactHeadingMatcher) Match(topic string, page Page) (Match, bool) {
	key := Normalize(topic)
	if key == "" {
		return Match{}, false
	}
	for _, h := range page.headings() {
		if Normalize(h.Text) == key {
			return Match{Strategy: StrategyExactHeading, Heading: h.Text, Words: h.Words, InHeading: true}, true
		}
	}
	return Match{}, false
}

// KeywordHeadingMatcher matches the heading sharing the largest share of topic
// keywords, provided the share reaches Threshold. Ties go to the earlier heading.
type KeywordHeadingMatcher struct {
	Threshold float64
}

func (KeywordHeadingMatcher) Name() string { return StrategyKeywordHeading }

func (m KeywordHeadingMatcher) Match(topic string, page Page) (Match, bool) {
	keywords := Keywords(topic)
	if len(keywords) == 0 {
		return Match{}, false
	}

	var (
		best      heading
		bestShare float64
	)
	for _, h := range page.headings() {
		if share := keywordShare(keywords, tokenSet(h.Text)); share > bestShare {
			best, bestShare = h, share
		}
	}
	if bestShare == 0 || bestShare < m.Threshold {
		return Match{}, false
	}
	return Match{Strategy: StrategyKeywordHeading, Heading: best.Text, Words: best.Words, InHeading: true}, true
}

// KeywordBodyMatcher matches when the page text holds at least Threshold of the topic keywords.
type KeywordBodyMatcher struct {
	Threshold float64
}

func (KeywordBodyMatcher) Name() string { return StrategyKeywordBody }

func (m KeywordBodyMatcher) Match(topic string, page Page) (Match, bool) {
	keywords := Keywords(topic)
	if len(keywords) == 0 {
		return Match{}, false
	}
	share := keywordShare(keywords, tokenSet(page.Body))
	if share == 0 || share < m.Threshold {
		return Match{}, false
	}
	return Match{Strategy: StrategyKeywordBody, Words: page.Structure.WordCount}, true
}
