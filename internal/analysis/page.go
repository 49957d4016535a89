package analysis

import (
	"strings"

	"github.com/geospy/geospy-api/internal/structure"
)

// Page is the scraped view of one URL.
type Page struct {
	URL       string
	Structure structure.Structure
	Body      string
}

// heading is one heading of a page together with the words it governs.
type heading struct {
	Text  string
	Level int
	Words int
}

// headings lists H1s (governing the whole page), then each H2 section
// followed by its H3s, which share the word count of their section.
func (p Page) headings() []heading {
	out := make([]heading, 0, p.Structure.HeadingCount())
	for _, h := range p.Structure.H1s {
		out = append(out, heading{Text: h, Level: 1, Words: p.Structure.WordCount})
	}
	for _, s := range p.Structure.Sections {
		out = append(out, heading{Text: s.Heading, Level: 2, Words: s.WordCount})
		for _, h3 := range s.SubHeadings {
			out = append(out, heading{Text: h3, Level: 3, Words: s.WordCount})
		}
	}
	return out
}

// sectionsOnly drops the H1s so that matches land on a section rather than the whole page.
func (p Page) sectionsOnly() Page {
	p.Structure.H1s = nil
	return p
}

func (p Page) hasContent() bool {
	return p.Structure.WordCount > 0 || strings.TrimSpace(p.Body) != ""
}

// mergePages joins several pages of the same site into one view.
func mergePages(pages []Page) Page {
	if len(pages) == 1 {
		return pages[0]
	}
	merged := Page{}
	bodies := make([]string, 0, len(pages))
	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		urls = append(urls, p.URL)
		bodies = append(bodies, p.Body)
		merged.Structure.H1s = append(merged.Structure.H1s, p.Structure.H1s...)
		merged.Structure.H2s = append(merged.Structure.H2s, p.Structure.H2s...)
		merged.Structure.H3s = append(merged.Structure.H3s, p.Structure.H3s...)
		merged.Structure.Sections = append(merged.Structure.Sections, p.Structure.Sections...)
		merged.Structure.WordCount += p.Structure.WordCount
	}
	merged.URL = strings.Join(urls, ",")
	merged.Body = strings.Join(bodies, "\n\n")
	return merged
}
