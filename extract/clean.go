package extract

import (
	"regexp"
	"strings"
)

var (
	markdownLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownImage    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	markdownEmphasis = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	headerMarks      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bareURL          = regexp.MustCompile(`https?://\S+`)
	spaceRuns        = regexp.MustCompile(`[ \t]{2,}`)
	blankRuns        = regexp.MustCompile(`\n{3,}`)
)

// boilerplateMarkers identify navigation, footer, and consent lines
// that carry no regulatory content.
var boilerplateMarkers = []string{
	"cookie", "privacy policy", "terms of use", "all rights reserved",
	"skip to main content", "skip to content", "sign in", "log in",
	"subscribe", "newsletter", "follow us", "share this", "back to top",
	"©", "javascript",
}

// CleanText normalizes extracted content: markdown syntax unwrapped,
// boilerplate lines dropped, stray URLs removed, whitespace and
// punctuation runs collapsed.
func CleanText(text string) string {
	text = markdownImage.ReplaceAllString(text, "")
	text = markdownLink.ReplaceAllString(text, "$1")
	text = markdownEmphasis.ReplaceAllString(text, "$1")
	text = headerMarks.ReplaceAllString(text, "")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, "")
			continue
		}
		if isBoilerplateLine(trimmed) {
			continue
		}
		trimmed = bareURL.ReplaceAllString(trimmed, "")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	text = strings.Join(kept, "\n")

	text = collapsePunctuationRuns(text)
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// collapsePunctuationRuns reduces a run of three or more identical
// punctuation characters to a single one. Pairs ("--", "..") survive.
// RE2 has no backreferences, so this is a plain scan.
func collapsePunctuationRuns(text string) string {
	const punctuation = ".!?,;:-=*_#"

	var b strings.Builder
	b.Grow(len(text))
	var prev rune
	run := 0
	flush := func() {
		n := run
		if n >= 3 {
			n = 1
		}
		for i := 0; i < n; i++ {
			b.WriteRune(prev)
		}
		run = 0
	}
	for _, r := range text {
		if strings.ContainsRune(punctuation, r) {
			if r != prev {
				flush()
				prev = r
			}
			run++
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// isBoilerplateLine reports whether a line is navigation or footer
// chrome. Short lines dominated by a marker term are dropped; long
// lines are kept even if a marker appears, since regulation text can
// legitimately mention privacy or subscription rules.
func isBoilerplateLine(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) && len(line) < 120 {
			return true
		}
	}
	return false
}
