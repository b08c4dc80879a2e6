// Package search provides best-effort web search for the research agent.
package search

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher returns up to max results for a query. Implementations must return
// an empty slice, never an error, when search is unavailable.
type Searcher interface {
	Search(ctx context.Context, query string, max int) []Result
}

// DuckDuckGo queries the DuckDuckGo HTML endpoint. No API key required.
type DuckDuckGo struct {
	httpClient *http.Client
	endpoint   string
}

var _ Searcher = (*DuckDuckGo)(nil)

// NewDuckDuckGo creates a DuckDuckGo searcher.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   "https://html.duckduckgo.com/html/",
	}
}

// Search returns up to max results. Any failure (network, status, parse)
// yields an empty result set so the research agent can proceed without
// search context.
func (d *DuckDuckGo) Search(ctx context.Context, query string, max int) []Result {
	if query == "" || max <= 0 {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		d.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		slog.Debug("web search unavailable", "error", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("web search returned non-OK status", "status", resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(s.Find("a.result__snippet").First().Text())
		if snippet == "" {
			snippet = strings.TrimSpace(s.Find("div.result__snippet").First().Text())
		}
		if title == "" || href == "" {
			return true
		}
		results = append(results, Result{
			Title:   title,
			URL:     cleanRedirect(href),
			Snippet: snippet,
		})
		return len(results) < max
	})
	return results
}

// cleanRedirect unwraps DuckDuckGo's /l/?uddg=... redirect links.
func cleanRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
