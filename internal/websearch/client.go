// Package websearch implements the web research boundary used by the market
// worker. The engine only depends on the Searcher interface; the default
// implementation talks to a Tavily-style JSON search API and can optionally
// fetch result pages to extract readable text.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Himanshusheo/Market-Lens/internal/types"
)

// Search error codes.
const (
	ErrSearchFailed    types.ErrorCode = "SEARCH_REQUEST_FAILED"
	ErrSearchDecode    types.ErrorCode = "SEARCH_DECODE_FAILED"
	ErrSearchRateLimit types.ErrorCode = "SEARCH_RATE_LIMITED"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Response is a completed search.
type Response struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
}

// Markdown renders the response as a markdown digest for prompt inclusion.
func (r Response) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Search Results for: %s\n\n", r.Query)
	for _, res := range r.Results {
		title := res.Title
		if title == "" {
			title = "No Title"
		}
		fmt.Fprintf(&b, "#### %s\n", title)
		fmt.Fprintf(&b, "%s\n", res.Content)
		fmt.Fprintf(&b, "Source: [%s](%s)\n\n", res.URL, res.URL)
	}
	return b.String()
}

// Searcher executes web searches. Implementations must be safe for
// concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string) (Response, error)
}

// Config holds search client settings.
type Config struct {
	Endpoint   string
	APIKey     string
	MaxResults int
	FetchPages bool
	Timeout    time.Duration
}

// Client is the default Searcher backed by an HTTP search API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a search client with the given configuration.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// searchRequest mirrors the Tavily search API payload.
type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

// Search executes the query against the configured endpoint.
func (c *Client) Search(ctx context.Context, query string) (Response, error) {
	payload, err := json.Marshal(searchRequest{
		APIKey:      c.cfg.APIKey,
		Query:       query,
		MaxResults:  c.cfg.MaxResults,
		SearchDepth: "advanced",
	})
	if err != nil {
		return Response{}, types.WrapError(ErrSearchFailed, "failed to encode search request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, types.WrapError(ErrSearchFailed, "failed to build search request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &types.LensError{
			Code:      ErrSearchFailed,
			Message:   "search request failed",
			Retryable: true,
			Cause:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Response{}, types.NewRetryableError(ErrSearchRateLimit, "search API rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Response{}, types.NewError(ErrSearchFailed,
			fmt.Sprintf("search API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, types.WrapError(ErrSearchDecode, "failed to decode search response", err)
	}
	if out.Query == "" {
		out.Query = query
	}
	if len(out.Results) > c.cfg.MaxResults {
		out.Results = out.Results[:c.cfg.MaxResults]
	}

	c.logger.DebugContext(ctx, "search completed",
		"query", query,
		"results", len(out.Results),
		"elapsed", time.Since(start),
	)

	if c.cfg.FetchPages {
		c.enrichResults(ctx, out.Results)
	}

	return out, nil
}

// enrichResults fetches each result page and replaces thin snippets with
// text extracted from the page body. Fetch failures leave the original
// snippet in place.
func (c *Client) enrichResults(ctx context.Context, results []Result) {
	for i := range results {
		if results[i].URL == "" {
			continue
		}
		text, err := c.fetchPageText(ctx, results[i].URL)
		if err != nil {
			c.logger.DebugContext(ctx, "page fetch failed", "url", results[i].URL, "error", err)
			continue
		}
		if len(text) > len(results[i].Content) {
			results[i].Content = text
		}
	}
}

// maxPageText caps extracted page text so one verbose page cannot dominate
// the worker prompt.
const maxPageText = 2000

// fetchPageText retrieves a page and extracts its readable paragraph text.
func (c *Client) fetchPageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, nav, footer").Remove()

	var parts []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 40 {
			parts = append(parts, text)
		}
	})

	text := strings.Join(parts, "\n")
	if len(text) > maxPageText {
		text = text[:maxPageText]
	}
	return text, nil
}
