// Package extract reduces a scraped page (markdown or plain text) to
// the sections most relevant to a search-term set, within a total
// length budget.
//
// Selection runs in three passes of decreasing strictness: scored
// markdown sections above an admission threshold, then individual
// paragraphs containing any search term, then the first raw paragraphs
// unfiltered. The output is cleaned of navigation boilerplate, link
// syntax, and whitespace noise. Extraction is deterministic: identical
// input always yields identical output.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Options tunes section admission and output size.
type Options struct {
	// SectionThreshold is the minimum coarse score for a section to be
	// admitted in the first pass (default 2.0).
	SectionThreshold float64

	// MaxLen is the total output budget in characters (default 3000).
	MaxLen int

	// RawParagraphs is how many leading paragraphs the last-resort pass
	// returns (default 3).
	RawParagraphs int
}

func (o *Options) defaults() {
	if o.SectionThreshold <= 0 {
		o.SectionThreshold = 2.0
	}
	if o.MaxLen <= 0 {
		o.MaxLen = 3000
	}
	if o.RawParagraphs <= 0 {
		o.RawParagraphs = 3
	}
}

var headerPattern = regexp.MustCompile(`(?m)^#{1,6}\s+`)

// regulatoryIndicators used for coarse section scoring. A cheaper
// signal set than the full relevance scorer: this only filters
// sections, it never decides final ranking.
var regulatoryIndicators = []string{
	"shall", "must", "compliance", "certification", "requirement",
	"approval", "directive", "annex",
}

var regulationNumberPattern = regexp.MustCompile(
	`(?i)(regulation|directive|standard)\s+(no\.?\s*)?[A-Z]{0,5}[-/]?\d{1,4}`)

// Relevant returns the cleaned, trimmed subset of content that matches
// the search terms. The result may be empty only when content itself is
// effectively empty.
func Relevant(content string, terms []string, opts Options) string {
	opts.defaults()
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	sections := splitSections(content)

	type scored struct {
		text  string
		score float64
		order int
	}
	var admitted []scored
	for i, sec := range sections {
		s := sectionScore(sec, terms)
		if s >= opts.SectionThreshold {
			admitted = append(admitted, scored{text: sec, score: s, order: i})
		}
	}
	sort.SliceStable(admitted, func(i, j int) bool {
		return admitted[i].score > admitted[j].score
	})

	if len(admitted) > 0 {
		var parts []string
		total := 0
		for _, sec := range admitted {
			cleaned := CleanText(sec.text)
			if cleaned == "" {
				continue
			}
			if total+len(cleaned) > opts.MaxLen && total > 0 {
				break
			}
			if len(cleaned) > opts.MaxLen {
				cleaned = truncateAtBoundary(cleaned, opts.MaxLen)
			}
			parts = append(parts, cleaned)
			total += len(cleaned)
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n\n")
		}
	}

	// Second pass: any paragraph mentioning a search term.
	var matched []string
	total := 0
	for _, para := range splitParagraphs(content) {
		if !containsAny(para, terms) {
			continue
		}
		cleaned := CleanText(para)
		if cleaned == "" {
			continue
		}
		if total+len(cleaned) > opts.MaxLen && total > 0 {
			break
		}
		matched = append(matched, cleaned)
		total += len(cleaned)
	}
	if len(matched) > 0 {
		return strings.Join(matched, "\n\n")
	}

	// Last resort: leading paragraphs, unfiltered.
	var leading []string
	for _, para := range splitParagraphs(content) {
		cleaned := CleanText(para)
		if cleaned == "" {
			continue
		}
		leading = append(leading, cleaned)
		if len(leading) >= opts.RawParagraphs {
			break
		}
	}
	out := strings.Join(leading, "\n\n")
	if len(out) > opts.MaxLen {
		out = truncateAtBoundary(out, opts.MaxLen)
	}
	return out
}

// splitSections breaks markdown content on headers. Content before the
// first header forms its own section.
func splitSections(content string) []string {
	locs := headerPattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return []string{content}
	}
	var sections []string
	if locs[0][0] > 0 {
		if head := strings.TrimSpace(content[:locs[0][0]]); head != "" {
			sections = append(sections, head)
		}
	}
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if sec := strings.TrimSpace(content[loc[0]:end]); sec != "" {
			sections = append(sections, sec)
		}
	}
	return sections
}

func splitParagraphs(content string) []string {
	var paras []string
	for _, p := range strings.Split(content, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// sectionScore is the coarse admission score: one point per distinct
// search term present, half a point per distinct regulatory indicator,
// one point for an explicitly cited regulation number.
func sectionScore(section string, terms []string) float64 {
	lower := strings.ToLower(section)
	var score float64
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			score += 1.0
		}
	}
	for _, ind := range regulatoryIndicators {
		if strings.Contains(lower, ind) {
			score += 0.5
		}
	}
	if regulationNumberPattern.MatchString(section) {
		score += 1.0
	}
	return score
}

func containsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// truncateAtBoundary cuts text at the last sentence or word boundary
// before max.
func truncateAtBoundary(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := text[:max]
	if i := strings.LastIndex(cut, ". "); i > max/2 {
		return cut[:i+1]
	}
	if i := strings.LastIndex(cut, " "); i > 0 {
		return cut[:i]
	}
	return cut
}
