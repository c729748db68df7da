package regquery

import (
	"regexp"
	"strings"
)

// Metadata is the regulation structure found in a piece of text.
type Metadata struct {
	RegulationNumbers []string
	Dates             []string
	Regions           []string
	Categories        []string
}

var (
	regNumberPattern = regexp.MustCompile(`[A-Z]{1,5}[-/]?[A-Z]?\d{1,4}|Regulation\s+(?:No\.\s+)?\d+`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
		regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
		regexp.MustCompile(`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4}`),
	}
)

// regionIndicators maps a display region to the word patterns that
// signal it. Matching is whole-word and case-insensitive.
var regionIndicators = map[string][]string{
	"European Union": {"EU", "European Union", "Europe", "UNECE", "ECE"},
	"United States":  {"US", "USA", "United States", "FMVSS", "NHTSA", "EPA"},
	"China":          {"China", "Chinese"},
	"Japan":          {"Japan", "Japanese", "TRIAS"},
	"Global":         {"Global", "International", "Worldwide", "UN"},
	"United Kingdom": {"UK", "United Kingdom", "Britain", "British"},
	"India":          {"India", "Indian", "ARAI"},
	"Brazil":         {"Brazil", "Brazilian"},
	"Russia":         {"Russia", "Russian"},
	"Australia":      {"Australia", "Australian"},
}

// categoryIndicators maps a display category to its word stems.
var categoryIndicators = map[string][]string{
	"Emissions":         {"emission", "exhaust", "CO2", "carbon dioxide", "pollutant"},
	"Safety":            {"safety", "crash", "collision", "protection", "restraint"},
	"Homologation":      {"homologation", "type approval", "certification"},
	"Electric Vehicles": {"electric", "EV", "battery", "charging"},
	"Autonomous":        {"autonomous", "self-driving", "automated", "driver assistance"},
	"Noise":             {"noise", "sound", "acoustic"},
	"Lighting":          {"light", "lamp", "illumination"},
	"Fuel Efficiency":   {"fuel", "consumption", "efficiency", "economy"},
	"Tires":             {"tyre", "tire", "wheel"},
}

// ExtractMetadata pulls regulation numbers, dates, regions, and
// categories out of arbitrary regulation text.
func ExtractMetadata(text string) Metadata {
	var md Metadata

	for _, num := range regNumberPattern.FindAllString(text, -1) {
		md.RegulationNumbers = appendUnique(md.RegulationNumbers, num)
	}
	for _, pat := range datePatterns {
		for _, d := range pat.FindAllString(text, -1) {
			md.Dates = appendUnique(md.Dates, d)
		}
	}
	for region, patterns := range regionIndicators {
		if matchesAnyWord(text, patterns, false) {
			md.Regions = appendUnique(md.Regions, region)
		}
	}
	for category, patterns := range categoryIndicators {
		if matchesAnyWord(text, patterns, true) {
			md.Categories = appendUnique(md.Categories, category)
		}
	}
	return md
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// matchesAnyWord tests whole-word, case-insensitive presence of any
// pattern; stem mode allows trailing letters (emission -> emissions).
func matchesAnyWord(text string, patterns []string, stem bool) bool {
	for _, p := range patterns {
		suffix := `\b`
		if stem {
			suffix = `[a-z]*\b`
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(p)) + suffix)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
