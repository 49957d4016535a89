package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const userAgent = "GEOspy-Crawler/1.0"

// DirectFetcher downloads pages itself and renders the main article as markdown.
type DirectFetcher struct {
	httpClient *http.Client
}

func NewDirectFetcher(timeout time.Duration) *DirectFetcher {
	return &DirectFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Fetch downloads address and converts it to markdown.
func (f *DirectFetcher) Fetch(ctx context.Context, address string) (string, error) {
	pageURL, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	parser := readability.NewParser()
	article, err := parser.Parse(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}

	return HTMLToMarkdown(article.Title, article.Content)
}

// HTMLToMarkdown renders h1-h4, paragraphs and list items of html as markdown.
// title becomes the H1 when the content has none.
func HTMLToMarkdown(title, html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	if doc.Find("h1").Length() == 0 {
		if t := normalizeText(title); t != "" {
			b.WriteString("# " + t + "\n\n")
		}
	}

	doc.Find("h1,h2,h3,h4,p,li").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if tag == "p" && s.ParentsFiltered("li").Length() > 0 {
			return
		}
		text := normalizeText(s.Text())
		if text == "" {
			return
		}

		switch tag {
		case "h1":
			b.WriteString("# " + text + "\n\n")
		case "h2":
			b.WriteString("## " + text + "\n\n")
		case "h3":
			b.WriteString("### " + text + "\n\n")
		case "h4":
			b.WriteString("#### " + text + "\n\n")
		case "li":
			if s.ParentsFiltered("ol").Length() > 0 {
				b.WriteString(fmt.Sprintf("%d. %s\n", s.Index()+1, text))
			} else {
				b.WriteString("- " + text + "\n")
			}
		default:
			b.WriteString(text + "\n\n")
		}
	})

	return strings.TrimSpace(b.String()), nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
