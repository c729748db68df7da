package relevance

import (
	"regexp"
	"strings"
)

// Weights holds the tunable scoring parameters. The relative ordering
// of importance (lexical > overlap > density > bonuses) is part of the
// scoring contract; the exact values are heuristic.
type Weights struct {
	Lexical               float64 // cosine TF-IDF weight
	KeywordOverlap        float64 // query-token coverage weight
	RegulatoryDensityStep float64 // per regulatory indicator word
	RegulatoryDensityMax  float64
	RegulationNumberBonus float64 // flat, when a cited regulation number appears
	NumericStep           float64 // per numeric limit / date / currency occurrence
	NumericMax            float64
	CategoryStep          float64 // per matched domain term within a query category
	CategoryMax           float64 // cap per category
	ShortTextLen          int     // below this, apply ShortPenalty
	TinyTextLen           int     // below this, apply TinyPenalty instead
	ShortPenalty          float64
	TinyPenalty           float64
	MaxScore              float64
}

// DefaultWeights returns the reference parameter set.
func DefaultWeights() Weights {
	return Weights{
		Lexical:               1.0,
		KeywordOverlap:        0.5,
		RegulatoryDensityStep: 0.05,
		RegulatoryDensityMax:  0.3,
		RegulationNumberBonus: 0.2,
		NumericStep:           0.05,
		NumericMax:            0.2,
		CategoryStep:          0.05,
		CategoryMax:           0.15,
		ShortTextLen:          200,
		TinyTextLen:           100,
		ShortPenalty:          0.7,
		TinyPenalty:           0.4,
		MaxScore:              2.0,
	}
}

// Scorer computes the composite relevance of a text against a query.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer. Zero-valued weights fields fall back to
// the defaults.
func NewScorer(w Weights) *Scorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// regulatoryIndicators signal regulatory language in a text body.
var regulatoryIndicators = []string{
	"shall", "must", "compliance", "certification", "article", "annex",
	"approval", "mandatory", "prohibited", "directive", "amendment",
	"enforcement",
}

// regulationNumberPattern matches an explicitly cited instrument, e.g.
// "Regulation No. 100", "Directive 2018/858", "standard ECE-R100".
var regulationNumberPattern = regexp.MustCompile(
	`(?i)(regulation|directive|standard)\s+(no\.?\s*)?[A-Z]{0,5}[-/]?\d{1,4}(/\d{1,4})?`)

// numericLimitPattern matches technical limits, dates, and monetary
// amounts: the hard numbers that distinguish normative text from prose.
var numericLimitPattern = regexp.MustCompile(
	`(?i)\d+(\.\d+)?\s*(mg/km|g/km|db|%|ppm|bar|kpa|mph|km/h)|\b(19|20)\d{2}\b|[€$£]\s?\d+`)

// categoryTerms maps a query category keyword to the domain terms whose
// presence in the text earns partial credit for that category.
var categoryTerms = map[string][]string{
	"emissions":  {"co2", "nox", "particulate", "exhaust", "pollutant", "euro"},
	"safety":     {"crash", "airbag", "braking", "collision", "restraint", "protection"},
	"fuel":       {"consumption", "economy", "efficiency", "mpg"},
	"electric":   {"battery", "charging", "voltage", "range", "plug"},
	"autonomous": {"self-driving", "automated", "adas", "sensor", "driver assistance"},
}

// Score rates text against query. The result is always in [0, MaxScore].
func (s *Scorer) Score(query, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	w := s.weights
	lowerText := strings.ToLower(text)

	score := w.Lexical * cosineTFIDF(query, text)
	score += w.KeywordOverlap * keywordOverlap(query, text)

	var density float64
	for _, ind := range regulatoryIndicators {
		if strings.Contains(lowerText, ind) {
			density += w.RegulatoryDensityStep
		}
	}
	score += min(density, w.RegulatoryDensityMax)

	if regulationNumberPattern.MatchString(text) {
		score += w.RegulationNumberBonus
	}

	numeric := float64(len(numericLimitPattern.FindAllString(text, -1))) * w.NumericStep
	score += min(numeric, w.NumericMax)

	lowerQuery := strings.ToLower(query)
	for keyword, terms := range categoryTerms {
		if !strings.Contains(lowerQuery, keyword) {
			continue
		}
		var bonus float64
		for _, term := range terms {
			if strings.Contains(lowerText, term) {
				bonus += w.CategoryStep
			}
		}
		score += min(bonus, w.CategoryMax)
	}

	// Length penalties are exclusive: only the stricter one applies.
	switch {
	case len(text) < w.TinyTextLen:
		score *= w.TinyPenalty
	case len(text) < w.ShortTextLen:
		score *= w.ShortPenalty
	}

	return min(score, w.MaxScore)
}

// ScoreFragments scores and ranks a batch of fragments against a query.
func (s *Scorer) ScoreFragments(query string, fragments []Fragment) []Fragment {
	scored := make([]Fragment, len(fragments))
	for i, f := range fragments {
		f.Score = s.Score(query, f.Text)
		scored[i] = f
	}
	return Rank(scored)
}

// keywordOverlap is the fraction of content-bearing query tokens that
// appear in the text. Zero when the query has no content tokens.
func keywordOverlap(query, text string) float64 {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := make(map[string]bool)
	for _, t := range tokenize(text) {
		textTokens[t] = true
	}
	matched := 0
	seen := make(map[string]bool)
	total := 0
	for _, qt := range queryTokens {
		if seen[qt] {
			continue
		}
		seen[qt] = true
		total++
		if textTokens[qt] {
			matched++
		}
	}
	return float64(matched) / float64(total)
}
