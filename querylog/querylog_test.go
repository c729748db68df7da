package querylog_test

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/dbopen"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/querylog"
)

func newLog(t *testing.T) *querylog.Log {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(querylog.Schema))
	return querylog.New(db)
}

func entry(topic string, success bool, rt time.Duration) querylog.Entry {
	return querylog.Entry{
		SessionID:    "sess-1",
		Query:        "what are the NOx limits",
		Response:     "The limit is 80 mg/km.",
		Topic:        topic,
		SourceCount:  3,
		ResponseTime: rt,
		Success:      success,
	}
}

func TestAppendAndRecent(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	if err := l.Append(ctx, entry("Emissions Standards", true, 2*time.Second)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := l.Append(ctx, entry("Safety Requirements", false, time.Second)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Topic != "Safety Requirements" {
		t.Errorf("first entry topic = %q, want the later append", entries[0].Topic)
	}
	if entries[0].Success {
		t.Error("failed query round-tripped as successful")
	}
	if entries[1].ResponseTime != 2*time.Second {
		t.Errorf("response time = %v, want 2s", entries[1].ResponseTime)
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp not defaulted on append")
	}
}

func TestStatsEmptyLog(t *testing.T) {
	l := newLog(t)
	s, err := l.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats on empty log: %v", err)
	}
	if s.TotalQueries != 0 || s.SuccessRate != 0 || s.AvgResponseTime != 0 {
		t.Errorf("empty log stats = %+v, want zeros", s)
	}
}

func TestStatsAggregation(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Append(ctx, entry("Emissions Standards", true, 2*time.Second)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := l.Append(ctx, entry("Safety Requirements", false, 4*time.Second)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	s, err := l.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.TotalQueries != 4 {
		t.Errorf("TotalQueries = %d, want 4", s.TotalQueries)
	}
	if s.SuccessfulQueries != 3 {
		t.Errorf("SuccessfulQueries = %d, want 3", s.SuccessfulQueries)
	}
	if s.SuccessRate != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", s.SuccessRate)
	}
	if s.AvgResponseTime != 2.5 {
		t.Errorf("AvgResponseTime = %v, want 2.5", s.AvgResponseTime)
	}
	if len(s.TopRegulationTopics) != 2 || s.TopRegulationTopics[0].Topic != "Emissions Standards" {
		t.Errorf("TopRegulationTopics = %+v", s.TopRegulationTopics)
	}
	if s.TopRegulationTopics[0].Count != 3 {
		t.Errorf("top topic count = %d, want 3", s.TopRegulationTopics[0].Count)
	}

	day := time.Now().UTC().Format("2006-01-02")
	if s.QueriesPerDay[day] != 4 {
		t.Errorf("QueriesPerDay[%s] = %d, want 4", day, s.QueriesPerDay[day])
	}
}

func TestAppendExplicitTimestamp(t *testing.T) {
	l := newLog(t)
	ctx := context.Background()

	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e := entry("General", true, time.Second)
	e.Timestamp = ts
	if err := l.Append(ctx, e); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if !entries[0].Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", entries[0].Timestamp, ts)
	}

	s, err := l.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.QueriesPerDay["2026-05-01"] != 1 {
		t.Errorf("QueriesPerDay = %v", s.QueriesPerDay)
	}
}
