package regquery

import (
	"strings"
	"testing"
)

func TestSearchTerms_DropsStopWords(t *testing.T) {
	terms := SearchTerms("What are the emissions regulations for electric vehicles in the EU?")

	for _, want := range []string{"emissions", "regulations", "electric", "vehicles", "eu"} {
		if !contains(terms, want) {
			t.Errorf("terms missing %q: %v", want, terms)
		}
	}
	for _, banned := range []string{"what", "are", "the", "for", "in"} {
		if contains(terms, banned) {
			t.Errorf("stop word %q survived: %v", banned, terms)
		}
	}
}

func TestSearchTerms_NeverEmpty(t *testing.T) {
	terms := SearchTerms("what is the for")
	if len(terms) == 0 {
		t.Fatal("stop-word-only query produced empty term set")
	}
	if !contains(terms, "regulation") {
		t.Errorf("static vocabulary not unioned in: %v", terms)
	}
}

func TestSearchTerms_RegulationCodes(t *testing.T) {
	terms := SearchTerms("What does ECE-R100 require for battery systems?")
	if !contains(terms, "ece-r100") {
		t.Errorf("regulation code not extracted: %v", terms)
	}
}

func TestSearchTerms_Deduplicated(t *testing.T) {
	terms := SearchTerms("emissions emissions emissions")
	count := 0
	for _, term := range terms {
		if term == "emissions" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("emissions appears %d times, want 1", count)
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"What are US crash test rules?", "US"},
		{"diesel limits in europe", "EU"},
		{"Japan lighting requirements", "Japan"},
		{"vehicle import rules for india", "India"},
		{"noise limits for motorcycles", "Global"},
	}
	for _, tt := range tests {
		if got := Region(tt.query); got != tt.want {
			t.Errorf("Region(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"NOx emission limits for diesel cars", "Emissions"},
		{"crash protection requirements", "Safety"},
		{"type approval process in the EU", "Homologation"},
		{"battery requirements for electric cars", "Electric Vehicles"},
		{"pass-by noise limits", "Noise"},
		{"seat dimensions", "General"},
	}
	for _, tt := range tests {
		if got := Category(tt.query); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestTopic_ChecksQueryAndAnswer(t *testing.T) {
	if got := Topic("tell me about cars", "The recall procedure requires..."); got != "Recalls" {
		t.Errorf("topic from answer: got %q, want Recalls", got)
	}
	if got := Topic("emissions limits?", ""); got != "Emissions Standards" {
		t.Errorf("topic from query: got %q, want Emissions Standards", got)
	}
	if got := Topic("hello", "world"); got != "General" {
		t.Errorf("no match: got %q, want General", got)
	}
}

func TestExtractMetadata(t *testing.T) {
	text := "ECE-R100 applies in the European Union since Jan 1, 2021. " +
		"It covers battery and charging safety for electric vehicles."
	md := ExtractMetadata(text)

	if !contains(md.RegulationNumbers, "ECE-R100") {
		t.Errorf("regulation numbers: %v", md.RegulationNumbers)
	}
	if len(md.Dates) == 0 {
		t.Errorf("no dates found in %q", text)
	}
	if !contains(md.Regions, "European Union") {
		t.Errorf("regions: %v", md.Regions)
	}
	if !contains(md.Categories, "Electric Vehicles") {
		t.Errorf("categories: %v", md.Categories)
	}
}

func TestContainsAnyTerm(t *testing.T) {
	if !ContainsAnyTerm("The NOx limit is strict", []string{"nox"}) {
		t.Error("case-insensitive match failed")
	}
	if ContainsAnyTerm("nothing here", []string{"emissions"}) {
		t.Error("false positive")
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
