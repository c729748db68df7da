// Package relevance scores extracted regulation text against a user
// query and ranks the resulting fragments. The composite score is the
// sole sort key for everything downstream of extraction.
package relevance

import "sort"

// Fragment is one scored unit of extracted regulatory text tied to a
// single source.
type Fragment struct {
	Text        string
	SourceURL   string
	SourceTitle string
	Score       float64
}

// Rank returns fragments sorted by descending score, ties keeping their
// original discovery order. Fragments scoring zero are dropped: they
// carry no signal and must never reach the synthesizer.
func Rank(fragments []Fragment) []Fragment {
	ranked := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Score > 0 {
			ranked = append(ranked, f)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
