// Package catalog holds the static set of known regulatory websites and
// the keyword tables used for heuristic source selection.
//
// The catalog is fixed at process start: keys are short stable
// identifiers (US_EPA, UNECE, ...) and the mapping from key to URL never
// changes during a session. Region and category tables map lowercase
// query substrings to catalog keys.
package catalog

import "sort"

// Site is one regulatory website entry.
type Site struct {
	Key string
	URL string
}

// sites maps catalog keys to the canonical landing URL for each source.
var sites = map[string]string{
	"US_NHTSA":                 "https://www.nhtsa.gov/laws-regulations",
	"US_EPA":                   "https://www.epa.gov/regulations-emissions-vehicles-and-engines",
	"EU_COMMISSION":            "https://ec.europa.eu/growth/sectors/automotive-industry_en",
	"UNECE":                    "https://unece.org/transport/vehicle-regulations",
	"ACEA":                     "https://www.acea.auto/publication/automotive-regulatory-guide-2023/",
	"UK_VCA":                   "https://www.vehicle-certification-agency.gov.uk/",
	"JAPAN_MLIT":               "https://www.mlit.go.jp/en/",
	"INDIA_MORTH":              "https://morth.nic.in/",
	"AUSTRALIA_INFRASTRUCTURE": "https://www.infrastructure.gov.au/infrastructure-transport-vehicles/vehicles/vehicle-design-regulation",
}

// regionKeys maps region terms (matched as substrings of the lowercase
// query) to catalog keys.
var regionKeys = map[string][]string{
	"us":            {"US_NHTSA", "US_EPA"},
	"usa":           {"US_NHTSA", "US_EPA"},
	"united states": {"US_NHTSA", "US_EPA"},
	"eu":            {"EU_COMMISSION", "UNECE"},
	"europe":        {"EU_COMMISSION", "UNECE"},
	"european":      {"EU_COMMISSION", "UNECE"},
	"uk":            {"UK_VCA", "UNECE"},
	"japan":         {"JAPAN_MLIT", "UNECE"},
	"india":         {"INDIA_MORTH"},
	"australia":     {"AUSTRALIA_INFRASTRUCTURE"},
	"global":        {"UNECE", "ACEA"},
}

// categoryKeys maps regulation categories to the catalog keys most
// likely to carry material for them.
var categoryKeys = map[string][]string{
	"emissions":         {"US_EPA", "EU_COMMISSION", "UNECE"},
	"safety":            {"US_NHTSA", "UNECE", "EU_COMMISSION"},
	"homologation":      {"EU_COMMISSION", "UNECE", "UK_VCA"},
	"type approval":     {"EU_COMMISSION", "UNECE"},
	"electric vehicles": {"US_EPA", "EU_COMMISSION", "UNECE"},
	"fuel":              {"US_EPA", "EU_COMMISSION"},
	"lighting":          {"UNECE", "EU_COMMISSION"},
	"noise":             {"UNECE", "EU_COMMISSION"},
}

// globalKeys is the default selection when nothing in the query matches
// a region or category.
var globalKeys = []string{"UNECE", "EU_COMMISSION", "US_EPA"}

// URL returns the URL for a catalog key.
func URL(key string) (string, bool) {
	u, ok := sites[key]
	return u, ok
}

// Keys returns all catalog keys in deterministic order.
func Keys() []string {
	keys := make([]string, 0, len(sites))
	for k := range sites {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns every catalog entry in deterministic key order.
func All() []Site {
	keys := Keys()
	out := make([]Site, 0, len(keys))
	for _, k := range keys {
		out = append(out, Site{Key: k, URL: sites[k]})
	}
	return out
}

// RegionKeys returns the catalog keys associated with a region term.
func RegionKeys(region string) []string {
	return regionKeys[region]
}

// CategoryKeys returns the catalog keys associated with a category term.
func CategoryKeys(category string) []string {
	return categoryKeys[category]
}

// Regions returns all region terms in deterministic order.
func Regions() []string {
	terms := make([]string, 0, len(regionKeys))
	for t := range regionKeys {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Categories returns all category terms in deterministic order.
func Categories() []string {
	terms := make([]string, 0, len(categoryKeys))
	for t := range categoryKeys {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// GlobalKeys returns the default fallback catalog keys.
func GlobalKeys() []string {
	out := make([]string, len(globalKeys))
	copy(out, globalKeys)
	return out
}
