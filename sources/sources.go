// Package sources orchestrates regulation data collection. The primary
// path scrapes each selected website through the hosted scrape API;
// when that yields fewer than two usable fragments a licensed-database
// search runs as backup, and built-in topic text stands in as the very
// last resort so the pipeline degrades instead of failing.
package sources

import (
	"context"
	"log/slog"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/extract"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/firecrawl"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/interregs"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/regquery"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/relevance"
)

// minFragments is the yield below which the backup database is tried.
const minFragments = 2

// minSubstantialLen gates what counts as usable extracted content.
const minSubstantialLen = 100

// Fetcher collects regulation fragments for a query.
type Fetcher struct {
	scraper firecrawl.Scraper
	backup  interregs.Searcher
	extract extract.Options
	logger  *slog.Logger
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithBackup wires the licensed-database fallback. Optional: without
// it the chain goes straight from the scrape loop to built-in text.
func WithBackup(s interregs.Searcher) Option { return func(f *Fetcher) { f.backup = s } }

// WithExtractOptions overrides content extraction tuning.
func WithExtractOptions(o extract.Options) Option { return func(f *Fetcher) { f.extract = o } }

// WithLogger sets the fetcher logger.
func WithLogger(l *slog.Logger) Option { return func(f *Fetcher) { f.logger = l } }

// NewFetcher creates a Fetcher over the given scrape client.
func NewFetcher(scraper firecrawl.Scraper, opts ...Option) *Fetcher {
	f := &Fetcher{scraper: scraper, logger: slog.Default()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch runs the full collection chain for query against the selected
// site URLs. It always returns at least one fragment: when every
// upstream source comes back empty, built-in topic text is returned
// attributed to the internal fallback source.
func (f *Fetcher) Fetch(ctx context.Context, query string, sites []string) []relevance.Fragment {
	terms := regquery.SearchTerms(query)

	var fragments []relevance.Fragment
	for _, site := range sites {
		doc, err := f.scraper.Scrape(ctx, site)
		if err != nil {
			f.logger.Warn("sources: scrape failed", "url", site, "error", err)
			continue
		}
		if doc == nil || doc.Markdown == "" {
			f.logger.Debug("sources: no content from site", "url", site)
			continue
		}

		relevant := extract.Relevant(doc.Markdown, terms, f.extract)
		if len(relevant) <= minSubstantialLen {
			f.logger.Debug("sources: content below substantial threshold", "url", site)
			continue
		}
		fragments = append(fragments, relevance.Fragment{
			Text:        relevant,
			SourceURL:   site,
			SourceTitle: doc.Title,
		})
	}

	if len(fragments) < minFragments && f.backup != nil {
		fragments = append(fragments, f.searchBackup(ctx, query)...)
	}

	if len(fragments) == 0 {
		f.logger.Warn("sources: all upstream sources empty, using built-in text", "query", query)
		fragments = append(fragments, fallbackFragment(query))
	}

	f.logger.Info("sources: collection complete", "query", query, "fragments", len(fragments))
	return fragments
}

func (f *Fetcher) searchBackup(ctx context.Context, query string) []relevance.Fragment {
	region := regquery.Region(query)
	category := regquery.Category(query)

	results, err := f.backup.Search(ctx, query, region, category)
	if err != nil {
		f.logger.Warn("sources: backup search failed", "error", err)
		return nil
	}

	var fragments []relevance.Fragment
	for _, r := range results {
		cleaned := extract.CleanText(r.Text)
		if len(cleaned) <= minSubstantialLen {
			continue
		}
		fragments = append(fragments, relevance.Fragment{
			Text:        cleaned,
			SourceURL:   r.URL,
			SourceTitle: r.Title,
		})
	}
	f.logger.Info("sources: backup results added", "count", len(fragments))
	return fragments
}
