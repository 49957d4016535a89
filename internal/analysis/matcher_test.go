package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchChain_Precedence(t *testing.T) {
	p := page("t", "## Best running shoes for flat feet\n"+words(12)+"\n## Running Shoes\n"+words(4)+"\nwaterproof trail")
	chain := DefaultMatchChain(0.6)

	m, ok := chain.Match("running shoes", p)
	assert.True(t, ok)
	assert.Equal(t, StrategyExactHeading, m.Strategy)
	assert.Equal(t, "Running Shoes", m.Heading)
	assert.Equal(t, 6, m.Words)

	m, ok = chain.Match("shoes for flat feet", p)
	assert.True(t, ok)
	assert.Equal(t, StrategyKeywordHeading, m.Strategy)
	assert.Equal(t, "Best running shoes for flat feet", m.Heading)

	m, ok = chain.Match("waterproof trails", p)
	assert.True(t, ok)
	assert.Equal(t, StrategyKeywordBody, m.Strategy)
	assert.False(t, m.InHeading)

	_, ok = chain.Match("warranty", p)
	assert.False(t, ok)
}

func TestKeywordHeadingMatcher_Threshold(t *testing.T) {
	p := page("t", "## Shoe sizing\nbody")

	_, ok := KeywordHeadingMatcher{Threshold: 0.6}.Match("shoe sizing chart for kids", p)
	assert.False(t, ok)

	m, ok := KeywordHeadingMatcher{Threshold: 0.5}.Match("shoe sizing chart for kids", p)
	assert.True(t, ok)
	assert.Equal(t, "Shoe sizing", m.Heading)
}

func TestMatchChain_HeadingOnly(t *testing.T) {
	chain := DefaultMatchChain(0.6).HeadingOnly()
	assert.Len(t, chain, 2)

	_, ok := chain.Match("waterproof", page("t", "## Intro\nwaterproof"))
	assert.False(t, ok)
}

func TestNormalizeAndKeywords(t *testing.T) {
	assert.Equal(t, "care cleaning", Normalize("  Care & Cleaning! "))
	assert.Equal(t, []string{"running", "shoe", "flat", "feet"}, Keywords("Running shoes for flat feet"))
	assert.Equal(t, []string{"how", "to"}, Keywords("How to"))
	assert.Equal(t, "glass", stem("glass"))
}
