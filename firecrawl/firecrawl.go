// Package firecrawl is the client for the hosted scrape API. One call
// scrapes one URL and returns the page as markdown plus metadata; the
// caller decides what a missing body means. Failures here are per-site
// events for the fetch loop, never pipeline-terminal.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production scrape API endpoint.
const DefaultBaseURL = "https://api.firecrawl.dev/v1"

// Document is a scraped page.
type Document struct {
	Markdown string
	Title    string
}

// Scraper fetches one URL as markdown. Satisfied by *Client and by test
// stubs.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Document, error)
}

// Client talks to the scrape API over HTTP.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option customises the client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(url string) Option { return func(c *Client) { c.baseURL = url } }

// WithTimeout sets the per-request timeout. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// NewClient creates a scrape API client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("firecrawl: API key is required")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
	Timeout int      `json:"timeout"` // milliseconds, enforced server-side
}

type scrapeResponse struct {
	Success bool       `json:"success"`
	Data    scrapeData `json:"data"`
	// Some deployments return the payload at the top level.
	Markdown string         `json:"markdown"`
	Metadata scrapeMetadata `json:"metadata"`
}

type scrapeData struct {
	Markdown string         `json:"markdown"`
	Metadata scrapeMetadata `json:"metadata"`
}

type scrapeMetadata struct {
	Title string `json:"title"`
}

// Scrape fetches url through the scrape API and returns its markdown
// body and title. A response without a markdown body yields a Document
// with empty Markdown, not an error.
func (c *Client) Scrape(ctx context.Context, url string) (*Document, error) {
	payload, err := json.Marshal(scrapeRequest{
		URL:     url,
		Formats: []string{"markdown"},
		Timeout: int(c.http.Timeout / time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("firecrawl: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("firecrawl: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firecrawl: scrape %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn("firecrawl: non-OK response",
			"url", url,
			"status", resp.StatusCode,
			"duration", time.Since(start))
		return nil, fmt.Errorf("firecrawl: scrape %s: status %d: %s", url, resp.StatusCode, bytes.TrimSpace(body))
	}

	var parsed scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("firecrawl: decode response for %s: %w", url, err)
	}

	doc := &Document{Markdown: parsed.Data.Markdown, Title: parsed.Data.Metadata.Title}
	if doc.Markdown == "" {
		doc.Markdown = parsed.Markdown
		doc.Title = parsed.Metadata.Title
	}
	if doc.Title == "" {
		doc.Title = url
	}

	c.logger.Debug("firecrawl: scraped",
		"url", url,
		"markdown_len", len(doc.Markdown),
		"duration", time.Since(start))
	return doc, nil
}
