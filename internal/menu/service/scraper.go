package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"orderline_backend/platform/apperr"
	"orderline_backend/platform/config"
)

const (
	scraperUserAgent = "Mozilla/5.0 (compatible; OrderlineBot/1.0; menu import)"
	minUsefulText    = 50
	maxResponseBytes = 2 << 20 // 2 MiB
)

// Scraper fetches a restaurant website and reduces it to visible text for the
// menu extractor.
type Scraper struct {
	client   *http.Client
	maxChars int
}

// NewScraper creates a scraper with timeouts from config.
func NewScraper(cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		client:   &http.Client{Timeout: cfg.GetScrapeTimeout()},
		maxChars: cfg.GetScrapeMaxChars(),
	}
}

// FetchText downloads the page and returns its visible text, whitespace
// collapsed and capped at the configured length. Script and style contents
// are dropped.
func (s *Scraper) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", apperr.BadRequest("invalid website URL")
	}
	req.Header.Set("User-Agent", scraperUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperr.BadRequest(fmt.Sprintf("could not reach website: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.BadRequest(fmt.Sprintf("website returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read website body: %w", err)
	}

	text := visibleText(string(body))
	if len(text) < minUsefulText {
		return "", apperr.BadRequest("website returned too little text to extract a menu from")
	}
	if len(text) > s.maxChars {
		text = text[:s.maxChars]
	}
	return text, nil
}

// visibleText walks the HTML tree collecting text nodes, emitting newlines at
// block element boundaries so the extractor sees one logical line per element.
func visibleText(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "iframe", "svg",
				"nav", "header", "footer":
				return
			}
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				b.WriteString(trimmed)
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlockElement(n.Data) {
			b.WriteByte('\n')
		}
	}
	walk(doc)

	return strings.TrimSpace(b.String())
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "table", "tr", "td", "th",
		"h1", "h2", "h3", "h4", "h5", "h6", "br", "section", "article",
		"header", "footer", "dt", "dd":
		return true
	}
	return false
}
