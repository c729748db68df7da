// Package advisor wires the full question-answering pipeline: website
// selection, source collection with fallbacks, relevance ranking,
// answer synthesis with citations, the learning cache and the query
// log. It exposes the pipeline over HTTP and MCP.
package advisor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/dbopen"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/firecrawl"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/interregs"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/kit"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/learncache"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/llm"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/observability"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/querylog"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/regquery"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/relevance"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/selector"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/sources"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/synth"
)

// Source attributes part of an answer.
type Source struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Response is one answered query.
type Response struct {
	SessionID    string            `json:"session_id"`
	Query        string            `json:"query"`
	Answer       string            `json:"answer"`
	Topic        string            `json:"topic"`
	Sources      []Source          `json:"sources"`
	SourceCount  int               `json:"source_count"`
	Metadata     regquery.Metadata `json:"metadata"`
	ResponseTime time.Duration     `json:"response_time"`
}

// Service runs the pipeline. Build one with New; tests assemble the
// fields directly around stubbed clients.
type Service struct {
	selector    *selector.Selector
	fetcher     *sources.Fetcher
	scorer      *relevance.Scorer
	synthesizer *synth.Synthesizer
	cache       *learncache.Cache
	qlog        *querylog.Log
	metrics     *observability.MetricsManager
	db          *sql.DB
	logger      *slog.Logger
}

// New builds a Service from configuration. The caller owns the query
// log database lifetime through Close.
func New(cfg *Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := llm.New(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}

	scrapeOpts := []firecrawl.Option{
		firecrawl.WithTimeout(cfg.Scrape.Timeout),
		firecrawl.WithLogger(logger),
	}
	if cfg.Scrape.BaseURL != "" {
		scrapeOpts = append(scrapeOpts, firecrawl.WithBaseURL(cfg.Scrape.BaseURL))
	}
	scraper, err := firecrawl.NewClient(cfg.Scrape.APIKey, scrapeOpts...)
	if err != nil {
		return nil, err
	}

	fetchOpts := []sources.Option{sources.WithLogger(logger)}
	if cfg.Interregs.Email != "" {
		dbOpts := []interregs.Option{interregs.WithLogger(logger)}
		if cfg.Interregs.BaseURL != "" {
			dbOpts = append(dbOpts, interregs.WithBaseURL(cfg.Interregs.BaseURL))
		}
		backup, err := interregs.NewClient(cfg.Interregs.Email, cfg.Interregs.Password, dbOpts...)
		if err != nil {
			return nil, err
		}
		fetchOpts = append(fetchOpts, sources.WithBackup(backup))
	} else {
		logger.Info("advisor: licensed database backup disabled, no credentials")
	}

	cache, err := learncache.Load(cfg.Data.LearningCache, logger)
	if err != nil {
		return nil, err
	}

	db, err := dbopen.Open(cfg.Data.QueryLogDB,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(querylog.Schema),
		dbopen.WithSchema(observability.Schema))
	if err != nil {
		return nil, err
	}

	return &Service{
		selector:    selector.New(model, cfg.MaxWebsites, logger),
		fetcher:     sources.NewFetcher(scraper, fetchOpts...),
		scorer:      relevance.NewScorer(relevance.DefaultWeights()),
		synthesizer: synth.New(model, synth.WithLogger(logger)),
		cache:       cache,
		qlog:        querylog.New(db),
		metrics:     observability.NewMetricsManager(db, 100, 5*time.Second),
		db:          db,
		logger:      logger,
	}, nil
}

// Close flushes pending metrics and releases the database.
func (s *Service) Close() error {
	if s.metrics != nil {
		s.metrics.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ask answers one query end to end. Every call is logged, failed ones
// included; cache and log problems never fail the answer.
func (s *Service) Ask(ctx context.Context, query string) (*Response, error) {
	start := time.Now()
	// A session id carried on the context keeps log entries from the
	// same user session correlated; callers without one get a fresh id.
	sessionID := kit.GetSessionID(ctx)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	resp, err := s.answer(ctx, query)
	elapsed := time.Since(start)

	entry := querylog.Entry{
		SessionID:    sessionID,
		Query:        query,
		ResponseTime: elapsed,
	}
	if err != nil {
		entry.Topic = errorCategory(err)
		entry.Response = err.Error()
	} else {
		resp.SessionID = sessionID
		resp.ResponseTime = elapsed
		entry.Success = true
		entry.Topic = resp.Topic
		entry.Response = resp.Answer
		entry.SourceCount = resp.SourceCount
	}
	if s.qlog != nil {
		if logErr := s.qlog.Append(ctx, entry); logErr != nil {
			s.logger.Warn("advisor: query log append failed", "error", logErr)
		}
	}
	if s.metrics != nil {
		s.metrics.RecordSimple(observability.MetricQueryDurationMs, float64(elapsed.Milliseconds()), "milliseconds")
		if err != nil {
			s.metrics.RecordSimple(observability.MetricQueriesFailed, 1, "count")
		} else {
			s.metrics.RecordSimple(observability.MetricFragmentsCollected, float64(resp.SourceCount), "count")
			s.metrics.RecordSimple(observability.MetricSourcesCited, float64(len(resp.Sources)), "count")
		}
	}

	if err != nil {
		s.logger.Error("advisor: query failed", "session", sessionID, "error", err)
		return nil, err
	}
	s.logger.Info("advisor: query answered",
		"session", sessionID, "topic", resp.Topic,
		"sources", len(resp.Sources), "elapsed", elapsed)
	return resp, nil
}

func (s *Service) answer(ctx context.Context, query string) (*Response, error) {
	sites := s.selector.Select(ctx, query)
	if s.cache != nil {
		sites = s.cache.Prioritize(sites)
	}

	fragments := s.fetcher.Fetch(ctx, query, sites)
	ranked := relevance.Rank(s.scorer.ScoreFragments(query, fragments))
	if len(ranked) == 0 {
		return nil, ErrNoData
	}

	ans, err := s.synthesizer.Synthesize(ctx, query, ranked)
	if err != nil {
		if errors.Is(err, synth.ErrNoFragments) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("%w: %v", ErrSynthesisUnavailable, err)
	}

	// Citation indices refer to the prompt's fragment order. The prompt
	// can hold fewer fragments than were ranked, so the valid range is
	// ans.Sources, not len(ranked); anything past it is model noise.
	bound := len(ranked)
	if ans.Sources < bound {
		bound = ans.Sources
	}
	var cited []Source
	citedURLs := make([]string, bound)
	for i := range citedURLs {
		citedURLs[i] = ranked[i].SourceURL
	}
	for _, idx := range ans.Cited {
		if idx < 0 || idx >= bound {
			continue
		}
		cited = append(cited, Source{URL: ranked[idx].SourceURL, Title: ranked[idx].SourceTitle})
	}

	if s.cache != nil {
		if err := s.cache.RecordCitations(citedURLs, ans.Cited); err != nil {
			s.logger.Warn("advisor: learning cache update failed", "error", err)
		}
	}

	return &Response{
		Query:       query,
		Answer:      ans.Text,
		Topic:       regquery.Topic(query, ans.Text),
		Sources:     cited,
		SourceCount: len(ranked),
		Metadata:    regquery.ExtractMetadata(ans.Text),
	}, nil
}

// Stats exposes query log aggregates.
func (s *Service) Stats(ctx context.Context) (querylog.Stats, error) {
	return s.qlog.Stats(ctx)
}

func errorCategory(err error) string {
	switch {
	case errors.Is(err, ErrNoData):
		return "NoDataFound"
	case errors.Is(err, ErrSynthesisUnavailable):
		return "ModelUnavailable"
	default:
		return "Error"
	}
}
