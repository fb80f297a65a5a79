// Package search runs web searches against DuckDuckGo's HTML endpoint and
// renders the hits as a short Markdown list.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/flynn-ai/baymax/internal/errors"
)

const (
	// DefaultBaseURL is DuckDuckGo's no-JavaScript search page.
	DefaultBaseURL = "https://html.duckduckgo.com/html/"

	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxPageBytes = 1 << 20
	redirectPath = "//duckduckgo.com/l/?uddg="
)

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
}

// Client searches the web.
type Client struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
}

// New creates a search client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Search returns the formatted results for query.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	results, err := c.Results(ctx, query)
	if err != nil {
		return "", err
	}
	return Format(results), nil
}

// Results fetches and parses the raw hits for query.
func (c *Client) Results(ctx context.Context, query string) ([]Result, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigInvalid, "invalid search base url", errors.CategoryUser)
	}
	q := endpoint.Query()
	q.Set("q", query)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCapabilityFailed, "failed to create search request", errors.CategorySystem)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNetworkUnavailable, "search service unreachable", errors.CategoryTemporary)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeCapabilityFailed, fmt.Sprintf("search service returned HTTP %d", resp.StatusCode), errors.CategoryTemporary)
	}

	return parseResults(io.LimitReader(resp.Body, maxPageBytes), c.maxResults)
}

func parseResults(r io.Reader, limit int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCapabilityFailed, "failed to parse search results", errors.CategoryTemporary)
	}

	converter := md.NewConverter("", true, nil)

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}

		link := s.Find("a.result__a").First()
		href, _ := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		if href == "" || title == "" {
			return true
		}

		res := Result{Title: title, URL: resolveRedirect(href)}
		if html, err := s.Find(".result__snippet").First().Html(); err == nil && html != "" {
			if snippet, err := converter.ConvertString(html); err == nil {
				res.Snippet = strings.Join(strings.Fields(snippet), " ")
			}
		}

		results = append(results, res)
		return len(results) < limit
	})

	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's click-tracking links.
func resolveRedirect(href string) string {
	if !strings.HasPrefix(href, redirectPath) {
		return href
	}
	target := strings.TrimPrefix(href, redirectPath)
	if idx := strings.Index(target, "&"); idx > 0 {
		target = target[:idx]
	}
	if decoded, err := url.QueryUnescape(target); err == nil {
		return decoded
	}
	return href
}

// Format renders results as a numbered Markdown list.
func Format(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. **%s**\n   %s", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			sb.WriteString("\n   ")
			sb.WriteString(r.Snippet)
		}
	}
	return sb.String()
}
