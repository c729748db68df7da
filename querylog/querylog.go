// Package querylog is the append-only record of every answered (or
// failed) query, backed by SQLite. Appends are best-effort from the
// caller's point of view; aggregation over the log drives the
// statistics surface.
package querylog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/dbopen"
)

// Schema creates the query log table. Passed to dbopen.Open by the
// service wiring and to dbopen.OpenMemory in tests.
const Schema = `
CREATE TABLE IF NOT EXISTS query_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id    TEXT NOT NULL,
	ts            TEXT NOT NULL,
	query         TEXT NOT NULL,
	response      TEXT NOT NULL,
	topic         TEXT NOT NULL,
	source_count  INTEGER NOT NULL,
	response_time REAL NOT NULL,
	success       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_log_ts ON query_log(ts);
CREATE INDEX IF NOT EXISTS idx_query_log_topic ON query_log(topic);
`

// Entry is one logged query.
type Entry struct {
	SessionID    string
	Timestamp    time.Time
	Query        string
	Response     string
	Topic        string
	SourceCount  int
	ResponseTime time.Duration
	Success      bool
}

// Stats aggregates the whole log.
type Stats struct {
	TotalQueries        int            `json:"total_queries"`
	SuccessfulQueries   int            `json:"successful_queries"`
	SuccessRate         float64        `json:"success_rate"`
	AvgResponseTime     float64        `json:"average_response_time_seconds"`
	TopRegulationTopics []TopicCount   `json:"top_regulation_topics"`
	QueriesPerDay       map[string]int `json:"queries_per_day"`
}

// TopicCount is one row of the topic leaderboard.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Log writes and aggregates query entries.
type Log struct {
	db *sql.DB
}

// New wraps an opened database. The schema must already be applied.
func New(db *sql.DB) *Log { return &Log{db: db} }

// Append records one entry. Timestamps default to now.
func (l *Log) Append(ctx context.Context, e Entry) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	success := 0
	if e.Success {
		success = 1
	}
	_, err := dbopen.Exec(ctx, l.db, `
		INSERT INTO query_log (session_id, ts, query, response, topic, source_count, response_time, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, ts.Format(time.RFC3339), e.Query, e.Response,
		e.Topic, e.SourceCount, e.ResponseTime.Seconds(), success)
	if err != nil {
		return fmt.Errorf("querylog: append: %w", err)
	}
	return nil
}

// topTopicsLimit caps the topic leaderboard.
const topTopicsLimit = 10

// Stats aggregates the full log. An empty log returns zero values, not
// an error.
func (l *Log) Stats(ctx context.Context) (Stats, error) {
	var s Stats

	row := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(success), 0), COALESCE(AVG(response_time), 0)
		FROM query_log`)
	if err := row.Scan(&s.TotalQueries, &s.SuccessfulQueries, &s.AvgResponseTime); err != nil {
		return Stats{}, fmt.Errorf("querylog: totals: %w", err)
	}
	if s.TotalQueries > 0 {
		s.SuccessRate = float64(s.SuccessfulQueries) / float64(s.TotalQueries)
	}

	topics, err := l.db.QueryContext(ctx, `
		SELECT topic, COUNT(*) n FROM query_log
		GROUP BY topic ORDER BY n DESC, topic ASC LIMIT ?`, topTopicsLimit)
	if err != nil {
		return Stats{}, fmt.Errorf("querylog: topics: %w", err)
	}
	defer topics.Close()
	for topics.Next() {
		var tc TopicCount
		if err := topics.Scan(&tc.Topic, &tc.Count); err != nil {
			return Stats{}, fmt.Errorf("querylog: scan topic: %w", err)
		}
		s.TopRegulationTopics = append(s.TopRegulationTopics, tc)
	}
	if err := topics.Err(); err != nil {
		return Stats{}, fmt.Errorf("querylog: topics: %w", err)
	}

	days, err := l.db.QueryContext(ctx, `
		SELECT substr(ts, 1, 10) day, COUNT(*) FROM query_log GROUP BY day`)
	if err != nil {
		return Stats{}, fmt.Errorf("querylog: per day: %w", err)
	}
	defer days.Close()
	s.QueriesPerDay = make(map[string]int)
	for days.Next() {
		var day string
		var n int
		if err := days.Scan(&day, &n); err != nil {
			return Stats{}, fmt.Errorf("querylog: scan day: %w", err)
		}
		s.QueriesPerDay[day] = n
	}
	if err := days.Err(); err != nil {
		return Stats{}, fmt.Errorf("querylog: per day: %w", err)
	}

	return s, nil
}

// Recent returns the most recent entries, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT session_id, ts, query, response, topic, source_count, response_time, success
		FROM query_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querylog: recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			ts      string
			seconds float64
			success int
		)
		if err := rows.Scan(&e.SessionID, &ts, &e.Query, &e.Response, &e.Topic, &e.SourceCount, &seconds, &success); err != nil {
			return nil, fmt.Errorf("querylog: scan entry: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339, ts)
		e.ResponseTime = time.Duration(seconds * float64(time.Second))
		e.Success = success == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
