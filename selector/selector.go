// Package selector chooses which regulatory websites to query for a
// question. The primary path asks the hosted model to pick catalog keys;
// any malformed or empty response falls back to a deterministic
// region/category keyword heuristic. Selection never fails: the worst
// case is the static global source list.
package selector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/catalog"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/llm"
)

// Selector picks regulatory source URLs for a query.
type Selector struct {
	llm      llm.Client
	maxSites int
	logger   *slog.Logger
}

// New creates a Selector. maxSites <= 0 defaults to 3. A nil client
// skips the model path entirely and always selects heuristically.
func New(client llm.Client, maxSites int, logger *slog.Logger) *Selector {
	if maxSites <= 0 {
		maxSites = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{llm: client, maxSites: maxSites, logger: logger}
}

// Select returns up to maxSites website URLs for the query, best first.
func (s *Selector) Select(ctx context.Context, query string) []string {
	if s.llm != nil {
		if urls, ok := s.selectWithModel(ctx, query); ok {
			return urls
		}
	}
	return s.Heuristic(query)
}

// selectWithModel asks the hosted model to pick catalog keys. The
// second return is false whenever the model call or the best-effort
// parse fails; the caller recovers locally.
func (s *Selector) selectWithModel(ctx context.Context, query string) ([]string, bool) {
	resp, err := s.llm.Complete(ctx, llm.Request{
		Prompt:      selectionPrompt(query, s.maxSites),
		Temperature: 0.1,
		MaxTokens:   100,
	})
	if err != nil {
		s.logger.Warn("selector: model selection failed, using heuristic", "error", err)
		return nil, false
	}

	keys, ok := ParseSelection(resp)
	if !ok {
		s.logger.Warn("selector: no valid catalog keys in model response", "response_len", len(resp))
		return nil, false
	}

	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		if u, found := catalog.URL(key); found {
			urls = append(urls, u)
		}
		if len(urls) == s.maxSites {
			break
		}
	}
	s.logger.Info("selector: model selected sites", "keys", keys)
	return urls, len(urls) > 0
}

// ParseSelection scans a free-form model response for catalog keys.
// Order of first appearance is order of preference. Returns false when
// no key is found. Malformed output is expected, not exceptional.
func ParseSelection(response string) ([]string, bool) {
	var keys []string
	seen := make(map[string]bool)
	for _, key := range catalog.Keys() {
		idx := strings.Index(response, key)
		if idx < 0 || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, false
	}
	// Re-order by position of first appearance in the response.
	sortByPosition(keys, response)
	return keys, true
}

func sortByPosition(keys []string, response string) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && strings.Index(response, keys[j]) < strings.Index(response, keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

// Heuristic is the deterministic fallback: region and category keyword
// tables matched against the query, defaulting to the global sources.
func (s *Selector) Heuristic(query string) []string {
	lower := strings.ToLower(query)

	var keys []string
	seen := make(map[string]bool)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	for _, region := range catalog.Regions() {
		if containsWord(lower, region) {
			for _, key := range catalog.RegionKeys(region) {
				add(key)
			}
		}
	}
	for _, category := range catalog.Categories() {
		if strings.Contains(lower, category) {
			for _, key := range catalog.CategoryKeys(category) {
				add(key)
			}
		}
	}
	if len(keys) == 0 {
		for _, key := range catalog.GlobalKeys() {
			add(key)
		}
	}

	urls := make([]string, 0, s.maxSites)
	for _, key := range keys {
		if u, ok := catalog.URL(key); ok {
			urls = append(urls, u)
		}
		if len(urls) == s.maxSites {
			break
		}
	}
	return urls
}

// containsWord matches a region term on word boundaries so that "us"
// does not fire inside "exhaust".
func containsWord(text, term string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// selectionPrompt enumerates the catalog for the model and instructs a
// bare comma-separated key response.
func selectionPrompt(query string, n int) string {
	var b strings.Builder
	b.WriteString("You are an automotive regulatory expert. Given the user query, select the ")
	fmt.Fprintf(&b, "%d most appropriate regulatory websites to search from this list:\n\n", n)
	for _, site := range catalog.All() {
		fmt.Fprintf(&b, "- %s: %s\n", site.Key, site.URL)
	}
	fmt.Fprintf(&b, "\nQuery: %q\n\n", query)
	b.WriteString("Consider:\n")
	b.WriteString("- Geographic regions mentioned (US, EU, Japan, etc.)\n")
	b.WriteString("- Regulation categories (emissions, safety, homologation, etc.)\n")
	b.WriteString("- Specific agencies or standards mentioned\n\n")
	fmt.Fprintf(&b, "Respond with ONLY the website keys (e.g., US_NHTSA, EU_COMMISSION, UNECE) separated by commas, in order of relevance.")
	return b.String()
}
