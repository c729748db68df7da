// Package regquery derives search structure from a free-text regulation
// question: keyword sets for content matching, region and category hints
// for the licensed-database fallback, topic labels for the query log,
// and regulation metadata found in arbitrary text.
package regquery

import (
	"regexp"
	"sort"
	"strings"
)

// stopWords are dropped from query tokens before keyword matching.
var stopWords = map[string]bool{
	"what": true, "is": true, "are": true, "the": true, "for": true,
	"a": true, "an": true, "in": true, "on": true, "about": true,
	"how": true, "can": true, "do": true, "does": true,
}

// vocabulary is the static regulation-domain term set unioned into every
// search-term set, so extraction never comes back empty.
var vocabulary = []string{
	"regulation", "standard", "directive", "requirement", "law",
	"homologation", "type approval",
}

// regionTerms are region names always worth matching in scraped content.
var regionTerms = []string{
	"eu", "european", "us", "united states", "uk", "japan", "china",
	"global", "international",
}

// regCodePattern matches regulation codes like ECE-R100 or UN-155.
var regCodePattern = regexp.MustCompile(`[A-Z]{1,5}-[A-Z]?\d{1,4}`)

// SearchTerms derives the lowercase, deduplicated keyword set for a
// query. The static vocabulary and region terms are always included, so
// the result is non-empty even for queries made entirely of stop words.
func SearchTerms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, tok := range strings.Fields(strings.ToLower(query)) {
		tok = strings.Trim(tok, `.,;:!?"'()`)
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		add(tok)
	}
	for _, term := range vocabulary {
		add(term)
	}
	for _, term := range regionTerms {
		add(term)
	}
	for _, code := range regCodePattern.FindAllString(query, -1) {
		add(code)
	}

	sort.Strings(terms)
	return terms
}

// ContainsAnyTerm reports whether text contains at least one of the
// given terms, case-insensitively.
func ContainsAnyTerm(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
