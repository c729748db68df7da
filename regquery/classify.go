package regquery

import "strings"

// Region infers the regulatory region a query is about, for the
// licensed-database search filter. Defaults to "Global".
func Region(query string) string {
	q := " " + strings.ToLower(query) + " "
	contains := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(q, " "+t+" ") || strings.Contains(q, " "+t+"?") ||
				strings.Contains(q, " "+t+",") || strings.Contains(q, " "+t+".") {
				return true
			}
		}
		return false
	}

	switch {
	case contains("us", "usa", "united states", "america", "american"):
		return "US"
	case contains("eu", "europe", "european"):
		return "EU"
	case contains("japan", "japanese"):
		return "Japan"
	case contains("china", "chinese"):
		return "China"
	case contains("uk", "britain", "british"):
		return "UK"
	case contains("india", "indian"):
		return "India"
	case contains("australia", "australian"):
		return "Australia"
	default:
		return "Global"
	}
}

// Category infers the regulation category of a query, for the
// licensed-database search filter and the static fallback texts.
// Defaults to "General".
func Category(query string) string {
	q := strings.ToLower(query)
	contains := func(terms ...string) bool {
		for _, t := range terms {
			if strings.Contains(q, t) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("emission", "exhaust", "co2", "nox", "pollution"):
		return "Emissions"
	case contains("safety", "crash", "protection"):
		return "Safety"
	case contains("homologation", "type approval", "certification"):
		return "Homologation"
	case contains("electric", " ev ", "battery"):
		return "Electric Vehicles"
	case contains("fuel", "gasoline", "diesel"):
		return "Fuel"
	case contains("noise", "sound"):
		return "Noise"
	case contains("light", "lamp", "illumination"):
		return "Lighting"
	default:
		return "General"
	}
}

// topicKeywords maps query/answer keywords to log topics, checked in
// order so the more specific labels win.
var topicKeywords = []struct {
	keyword string
	topic   string
}{
	{"emissions", "Emissions Standards"},
	{"safety", "Safety Requirements"},
	{"fuel", "Fuel Efficiency"},
	{"electric", "Electric Vehicles"},
	{"autonomous", "Autonomous Driving"},
	{"homologation", "Homologation"},
	{"type approval", "Type Approval"},
	{"certification", "Certification"},
	{"recall", "Recalls"},
	{"import", "Import Regulations"},
}

// Topic classifies an answered query for the query log by keyword match
// against the query and the generated answer. Returns "General" when
// nothing matches.
func Topic(query, answer string) string {
	q := strings.ToLower(query)
	a := strings.ToLower(answer)
	for _, tk := range topicKeywords {
		if strings.Contains(q, tk.keyword) || strings.Contains(a, tk.keyword) {
			return tk.topic
		}
	}
	return "General"
}
