package firecrawl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestScrape_ParsesNestedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: %q", got)
		}
		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.URL != "https://example.gov/regs" {
			t.Errorf("request url: %q", req.URL)
		}
		if len(req.Formats) != 1 || req.Formats[0] != "markdown" {
			t.Errorf("request formats: %v", req.Formats)
		}
		w.Write([]byte(`{"success":true,"data":{"markdown":"# Regs\n\nbody","metadata":{"title":"Regulations"}}}`))
	}))
	defer srv.Close()

	c, err := NewClient("test-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := c.Scrape(context.Background(), "https://example.gov/regs")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if doc.Title != "Regulations" {
		t.Errorf("title: %q", doc.Title)
	}
	if !strings.Contains(doc.Markdown, "body") {
		t.Errorf("markdown: %q", doc.Markdown)
	}
}

func TestScrape_FlatPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"markdown":"flat body","metadata":{"title":"Flat"}}`))
	}))
	defer srv.Close()

	c, _ := NewClient("k", WithBaseURL(srv.URL))
	doc, err := c.Scrape(context.Background(), "https://example.gov")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if doc.Markdown != "flat body" || doc.Title != "Flat" {
		t.Errorf("doc: %+v", doc)
	}
}

func TestScrape_MissingBodyIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"metadata":{}}}`))
	}))
	defer srv.Close()

	c, _ := NewClient("k", WithBaseURL(srv.URL))
	doc, err := c.Scrape(context.Background(), "https://example.gov")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if doc.Markdown != "" {
		t.Errorf("markdown: %q, want empty", doc.Markdown)
	}
	// Title falls back to the URL so fragments stay attributable.
	if doc.Title != "https://example.gov" {
		t.Errorf("title: %q", doc.Title)
	}
}

func TestScrape_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, _ := NewClient("k", WithBaseURL(srv.URL))
	if _, err := c.Scrape(context.Background(), "https://example.gov"); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error for empty key")
	}
}
