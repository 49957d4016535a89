package analysis

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {}, "can": {},
	"do": {}, "does": {}, "for": {}, "from": {}, "how": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "the": {}, "to": {}, "what": {}, "when": {}, "which": {},
	"why": {}, "with": {}, "you": {}, "your": {},
}

// Normalize lowercases s, replaces punctuation with spaces and collapses whitespace.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// Keywords returns the stemmed content words of s. If s only holds
// stopwords they are kept, so short topics like "how to" still match.
func Keywords(s string) []string {
	tokens := strings.Fields(Normalize(s))
	keywords := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, skip := stopwords[t]; !skip {
			keywords = append(keywords, stem(t))
		}
	}
	if len(keywords) == 0 {
		for _, t := range tokens {
			keywords = append(keywords, stem(t))
		}
	}
	return keywords
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(Normalize(s)) {
		set[stem(t)] = struct{}{}
	}
	return set
}

// stem folds simple plurals.
func stem(word string) string {
	if len(word) > 3 && strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}
	return word
}

func keywordShare(keywords []string, set map[string]struct{}) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, k := range keywords {
		if _, ok := set[k]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
}
