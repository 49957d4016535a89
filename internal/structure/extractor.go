// Package structure turns scraped markdown into a heading outline and word counts.
package structure

import (
	"regexp"
	"strings"
)

var (
	h1Pattern = regexp.MustCompile(`^#\s+(\S.*)$`)
	h2Pattern = regexp.MustCompile(`^##\s+(\S.*)$`)
	h3Pattern = regexp.MustCompile(`^###\s+(\S.*)$`)
)

// Section is one level-2 heading and what sits under it until the next level-2 heading.
type Section struct {
	Heading     string   `json:"h2"`
	SubHeadings []string `json:"h3s"`
	WordCount   int      `json:"wordCount"`
}

// Structure is the outline of a single page.
type Structure struct {
	H1s       []string  `json:"h1s"`
	H2s       []string  `json:"h2s"`
	H3s       []string  `json:"h3s"`
	WordCount int       `json:"word_count"`
	Sections  []Section `json:"hierarchy"`
}

// HeadingCount returns the number of H1, H2 and H3 headings combined.
func (s Structure) HeadingCount() int {
	return len(s.H1s) + len(s.H2s) + len(s.H3s)
}

// Extract parses markdown-like text. It never fails: lines that match no
// pattern only contribute to word counts.
func Extract(markdown string) Structure {
	result := Structure{
		H1s:       []string{},
		H2s:       []string{},
		H3s:       []string{},
		WordCount: CountWords(markdown),
		Sections:  []Section{},
	}

	var current *Section
	var sectionText strings.Builder

	closeSection := func() {
		if current == nil {
			return
		}
		current.WordCount = CountWords(sectionText.String())
		result.Sections = append(result.Sections, *current)
		current = nil
		sectionText.Reset()
	}

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimRight(raw, "\r")

		if m := h2Pattern.FindStringSubmatch(line); m != nil {
			heading := strings.TrimSpace(m[1])
			result.H2s = append(result.H2s, heading)
			closeSection()
			current = &Section{Heading: heading, SubHeadings: []string{}}
			continue
		}

		if m := h3Pattern.FindStringSubmatch(line); m != nil {
			heading := strings.TrimSpace(m[1])
			result.H3s = append(result.H3s, heading)
			if current != nil {
				current.SubHeadings = append(current.SubHeadings, heading)
			}
		} else if m := h1Pattern.FindStringSubmatch(line); m != nil {
			result.H1s = append(result.H1s, strings.TrimSpace(m[1]))
		}

		if current != nil {
			sectionText.WriteString(line)
			sectionText.WriteByte('\n')
		}
	}
	closeSection()

	return result
}

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
