// Package interregs is the client for the licensed regulation database
// used as the secondary data source. Access is session-based: a form
// login establishes a cookie session, then searches return regulation
// documents as HTML which are sanitized and converted to markdown so
// the shared extraction logic can consume them.
//
// The whole package is a fallback collaborator: every failure is
// reported to the caller as an error and treated upstream as "no
// fallback data", never as a pipeline abort.
package interregs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultBaseURL is the production database endpoint.
const DefaultBaseURL = "https://www.interregs.net"

// Result is one regulation document returned by a search.
type Result struct {
	Text  string
	URL   string
	Title string
}

// Searcher is the search surface consumed by the source fetcher.
type Searcher interface {
	Search(ctx context.Context, query, region, category string) ([]Result, error)
}

// Client is a session-holding database client.
type Client struct {
	baseURL   string
	email     string
	password  string
	http      *http.Client
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
	maxHits   int

	// loginMu serializes the login check-and-set; one client is shared
	// by every concurrent request.
	loginMu  sync.Mutex
	loggedIn bool
}

// Option customises the client.
type Option func(*Client)

// WithBaseURL overrides the endpoint (used in tests).
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithTimeout sets the per-request timeout. Default: 15s.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.http.Timeout = d } }

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// WithMaxResults caps how many search hits are expanded. Default: 5.
func WithMaxResults(n int) Option { return func(c *Client) { c.maxHits = n } }

// NewClient creates a database client. Credentials are required.
func NewClient(email, password string, opts ...Option) (*Client, error) {
	if email == "" || password == "" {
		return nil, errors.New("interregs: credentials are required")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("interregs: cookie jar: %w", err)
	}
	c := &Client{
		baseURL:   DefaultBaseURL,
		email:     email,
		password:  password,
		http:      &http.Client{Timeout: 15 * time.Second, Jar: jar},
		sanitizer: bluemonday.UGCPolicy(),
		logger:    slog.Default(),
		maxHits:   5,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// sessionIndicators in a response body mean an authenticated session.
var sessionIndicators = []string{"welcome", "dashboard", "logout", "profile"}

// Login establishes a session. Idempotent and safe for concurrent use:
// a client that already holds a session returns immediately, and only
// one caller performs the form login at a time.
func (c *Client) Login(ctx context.Context) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if c.loggedIn {
		return nil
	}

	body, _, err := c.get(ctx, c.baseURL+"/db/index.php")
	if err != nil {
		return fmt.Errorf("interregs: reach database: %w", err)
	}
	if containsAnyFold(body, sessionIndicators) {
		c.loggedIn = true
		c.logger.Debug("interregs: session already active")
		return nil
	}

	form := url.Values{
		"email":    {c.email},
		"password": {c.password},
	}
	for _, endpoint := range []string{"/login.php", "/db/login.php"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			continue
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Referer", c.baseURL+"/db/index.php")

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Debug("interregs: login attempt failed", "endpoint", endpoint, "error", err)
			continue
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			continue
		}

		text := strings.ToLower(string(data))
		if containsAnyFold(text, sessionIndicators) ||
			(!strings.Contains(text, "error") && !strings.Contains(text, "invalid")) {
			c.loggedIn = true
			c.logger.Info("interregs: logged in", "endpoint", endpoint)
			return nil
		}
	}
	return errors.New("interregs: login rejected by all endpoints")
}

// Search runs an authenticated search and expands each hit into its
// full document text.
func (c *Client) Search(ctx context.Context, query, region, category string) ([]Result, error) {
	if err := c.Login(ctx); err != nil {
		return nil, err
	}

	q := url.Values{
		"search":   {query},
		"region":   {region},
		"category": {category},
		"action":   {"search"},
	}
	searchURL := c.baseURL + "/db/search.php?" + q.Encode()
	body, finalURL, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("interregs: search: %w", err)
	}

	hits := parseSearchResults(body, c.baseURL)
	if len(hits) > c.maxHits {
		hits = hits[:c.maxHits]
	}

	var results []Result
	for _, hit := range hits {
		if hit.href != "" {
			text, err := c.documentText(ctx, hit.href)
			if err != nil {
				c.logger.Warn("interregs: document fetch failed", "url", hit.href, "error", err)
			} else if text != "" {
				results = append(results, Result{Text: text, URL: hit.href, Title: hit.title})
			}
		}
		// Substantial summaries from the result listing count as content
		// in their own right.
		if len(hit.summary) > 100 {
			results = append(results, Result{
				Text:  "Summary: " + hit.summary,
				URL:   finalURL,
				Title: hit.title + " - Summary",
			})
		}
	}

	c.logger.Info("interregs: search complete", "query", query, "results", len(results))
	return results, nil
}

// documentText fetches a regulation document and reduces it to clean
// markdown-ish text.
func (c *Client) documentText(ctx context.Context, docURL string) (string, error) {
	body, _, err := c.get(ctx, docURL)
	if err != nil {
		return "", err
	}

	content := extractMainContent(body)
	if content == "" {
		return "", nil
	}

	sanitized := c.sanitizer.Sanitize(content)
	markdown, err := htmltomarkdown.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("convert document: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

func (c *Client) get(ctx context.Context, u string) (body, finalURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("status %d for %s", resp.StatusCode, u)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", "", err
	}
	return string(data), resp.Request.URL.String(), nil
}

func containsAnyFold(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
