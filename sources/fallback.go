package sources

import (
	"strings"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/relevance"
)

// FallbackSourceURL identifies built-in text in fragment attribution.
const FallbackSourceURL = "internal://regulatory-overview"

// fallbackTopic pairs query keywords with canned overview text.
type fallbackTopic struct {
	keywords []string
	title    string
	text     string
}

// fallbackTopics is checked in order; the first keyword match wins and
// the last entry has no keywords so it always matches.
var fallbackTopics = []fallbackTopic{
	{
		keywords: []string{"emission", "nox", "co2", "pollut", "exhaust"},
		title:    "Emissions Standards Overview",
		text: "Automotive emissions regulations set limits on pollutants " +
			"such as NOx, particulate matter, CO and hydrocarbons. Major " +
			"frameworks include the Euro standards in the European Union, " +
			"EPA Tier standards in the United States, and equivalent " +
			"national schemes elsewhere. Diesel vehicles face strict NOx " +
			"limits, and real-world driving emissions testing supplements " +
			"laboratory cycles. Manufacturers must demonstrate compliance " +
			"during type approval and maintain conformity of production. " +
			"Consult the official regulatory body for your market for " +
			"current limit values and implementation dates.",
	},
	{
		keywords: []string{"safety", "crash", "braking", "airbag", "seatbelt"},
		title:    "Vehicle Safety Requirements Overview",
		text: "Vehicle safety regulations cover active and passive safety " +
			"systems, including crashworthiness, advanced emergency " +
			"braking, lane keeping assistance and occupant protection. " +
			"UN Regulations under the 1958 Agreement, the EU General " +
			"Safety Regulation and FMVSS in the United States define " +
			"crash test performance standards and mandatory equipment. " +
			"New vehicle types must pass the applicable test procedures " +
			"before approval. Consult the official regulatory body for " +
			"your market for the requirements applying to your vehicle " +
			"category.",
	},
	{
		keywords: []string{"homologation", "type approval", "certification", "conformity"},
		title:    "Type Approval and Homologation Overview",
		text: "Type approval, or homologation, is the process by which a " +
			"vehicle type is certified to meet the regulatory " +
			"requirements of a market before sale. The EU whole vehicle " +
			"type approval framework, UNECE mutual recognition under the " +
			"1958 Agreement, and self-certification under FMVSS in the " +
			"United States are the principal regimes. The process covers " +
			"technical requirements, testing procedures, conformity of " +
			"production and market surveillance. Approval authorities " +
			"and designated technical services carry out the assessments.",
	},
	{
		title: "Automotive Regulatory Framework Overview",
		text: "Automotive regulations form a framework covering safety, " +
			"emissions and market access. Key elements include type " +
			"approval requirements, conformity of production and market " +
			"surveillance procedures. International harmonisation is " +
			"driven by the UNECE World Forum for Harmonization of " +
			"Vehicle Regulations, while regional bodies such as the " +
			"European Commission, NHTSA and EPA in the United States, " +
			"and national transport ministries administer their own " +
			"schemes. Consult the official regulatory body for your " +
			"market for authoritative and current requirements.",
	},
}

// fallbackFragment returns built-in overview text matched to the
// query's topic. It always yields a non-empty fragment.
func fallbackFragment(query string) relevance.Fragment {
	lower := strings.ToLower(query)
	for _, topic := range fallbackTopics {
		if len(topic.keywords) == 0 || containsAny(lower, topic.keywords) {
			return relevance.Fragment{
				Text:        topic.text,
				SourceURL:   FallbackSourceURL,
				SourceTitle: topic.title,
			}
		}
	}
	// Unreachable: the final table entry matches everything.
	return relevance.Fragment{}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
