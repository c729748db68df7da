// Package learncache tracks which website domains produced cited
// answers. Counts feed back into website ordering so sources that
// helped before are scraped first. State is a single JSON file that is
// loaded once at startup and rewritten whole after each update.
package learncache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// fileState is the on-disk shape.
type fileState struct {
	WebsiteSuccessRates map[string]int `json:"website_success_rates"`
}

// Cache holds per-domain success counts. Safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	path   string
	counts map[string]int
	logger *slog.Logger
}

// Load reads the cache file at path, creating an empty cache when the
// file does not exist. A corrupt file is an error so bad state is not
// silently overwritten.
func Load(path string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{path: path, counts: make(map[string]int), logger: logger}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("learncache: starting empty", "path", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("learncache: read %s: %w", path, err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("learncache: parse %s: %w", path, err)
	}
	if state.WebsiteSuccessRates != nil {
		c.counts = state.WebsiteSuccessRates
	}
	logger.Info("learncache: loaded", "path", path, "domains", len(c.counts))
	return c, nil
}

// Count returns the success count for a domain.
func (c *Cache) Count(domain string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[domain]
}

// Prioritize reorders urls by descending success count of their
// domains. The sort is stable, so urls with equal counts keep their
// incoming order. The input slice is not modified.
func (c *Cache) Prioritize(urls []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(urls))
	copy(out, urls)
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[domainOf(out[i])] > c.counts[domainOf(out[j])]
	})
	return out
}

// RecordCitations increments the domain count for every cited source
// index that falls inside sourceURLs, then persists. Out-of-range
// indices are dropped. Persistence failure is reported but the
// in-memory counts keep the increment.
func (c *Cache) RecordCitations(sourceURLs []string, cited []int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var updated bool
	for _, idx := range cited {
		if idx < 0 || idx >= len(sourceURLs) {
			continue
		}
		domain := domainOf(sourceURLs[idx])
		if domain == "" {
			continue
		}
		c.counts[domain]++
		updated = true
	}
	if !updated {
		return nil
	}
	return c.persistLocked()
}

// Persist writes current counts to disk.
func (c *Cache) Persist() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked()
}

func (c *Cache) persistLocked() error {
	data, err := json.MarshalIndent(fileState{WebsiteSuccessRates: c.counts}, "", "  ")
	if err != nil {
		return fmt.Errorf("learncache: encode: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("learncache: create dir: %w", err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("learncache: write %s: %w", c.path, err)
	}
	return nil
}

// domainOf reduces a URL to its host for counting. Bare hosts without
// a scheme pass through unchanged. Non-web schemes such as the
// built-in fallback's internal:// marker are not real domains and
// yield nothing, keeping synthetic sources out of the counts.
func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host != "" {
		return u.Host
	}
	return raw
}
