package extract

import (
	"strings"
	"testing"
)

const samplePage = `# Vehicle Regulations Portal

[Skip to main content](https://example.gov/main)

## Emission requirements

All diesel passenger cars shall comply with Regulation No. 715/2007.
The NOx emission limit is 80 mg/km and compliance must be demonstrated
before type approval is granted.

## Site map

About us. Contact. Privacy policy. Cookie settings.

## Unrelated announcement

The cafeteria reopens on Monday with a new menu.`

func TestRelevant_KeepsScoredSections(t *testing.T) {
	terms := []string{"emission", "diesel", "nox", "regulation"}
	got := Relevant(samplePage, terms, Options{})

	if !strings.Contains(got, "80 mg/km") {
		t.Errorf("emission section missing from output:\n%s", got)
	}
	if strings.Contains(got, "cafeteria") {
		t.Errorf("unrelated section leaked into output:\n%s", got)
	}
}

func TestRelevant_Idempotent(t *testing.T) {
	terms := []string{"emission", "diesel"}
	first := Relevant(samplePage, terms, Options{})
	second := Relevant(samplePage, terms, Options{})
	if first != second {
		t.Error("extraction is not deterministic across identical inputs")
	}
}

func TestRelevant_ParagraphFallback(t *testing.T) {
	// No section clears the admission bar, but one paragraph mentions a
	// search term.
	content := "Opening remarks about the event.\n\n" +
		"The homologation desk is open on weekdays.\n\n" +
		"Closing remarks and thanks."
	got := Relevant(content, []string{"homologation"}, Options{})
	if !strings.Contains(got, "homologation desk") {
		t.Errorf("paragraph fallback missed matching paragraph:\n%s", got)
	}
	if strings.Contains(got, "Opening remarks") {
		t.Errorf("non-matching paragraph admitted:\n%s", got)
	}
}

func TestRelevant_RawFallback(t *testing.T) {
	content := "First paragraph of an unrelated page.\n\n" +
		"Second paragraph, also unrelated.\n\n" +
		"Third paragraph.\n\nFourth paragraph never returned."
	got := Relevant(content, []string{"zzz-no-match"}, Options{})
	if got == "" {
		t.Fatal("raw fallback returned nothing")
	}
	if !strings.Contains(got, "First paragraph") {
		t.Errorf("raw fallback should start from the top:\n%s", got)
	}
	if strings.Contains(got, "Fourth paragraph") {
		t.Errorf("raw fallback exceeded paragraph budget:\n%s", got)
	}
}

func TestRelevant_EmptyContent(t *testing.T) {
	if got := Relevant("   \n\n  ", []string{"x"}, Options{}); got != "" {
		t.Errorf("empty content: got %q, want empty", got)
	}
}

func TestRelevant_RespectsBudget(t *testing.T) {
	section := "## Requirements\n\nThe directive requirement shall apply to emission compliance. " +
		strings.Repeat("Detail sentence about emission requirement compliance. ", 20)
	content := section + "\n\n" + section + "\n\n" + section
	got := Relevant(content, []string{"emission", "requirement"}, Options{MaxLen: 500})
	if len(got) > 700 {
		t.Errorf("output length %d far exceeds 500-char budget", len(got))
	}
}

func TestCleanText_StripsMarkdownAndBoilerplate(t *testing.T) {
	in := "**Bold claim** about [limits](https://example.org/x).\n" +
		"Skip to main content\n" +
		"Visit https://example.org/tracker for more....\n" +
		"Normal   text    here"
	got := CleanText(in)

	for _, banned := range []string{"**", "](", "Skip to main", "https://"} {
		if strings.Contains(got, banned) {
			t.Errorf("cleaned text still contains %q:\n%s", banned, got)
		}
	}
	if !strings.Contains(got, "Bold claim") {
		t.Errorf("emphasis content lost:\n%s", got)
	}
	if !strings.Contains(got, "limits") {
		t.Errorf("link text lost:\n%s", got)
	}
	if strings.Contains(got, "   ") {
		t.Errorf("space runs not collapsed:\n%s", got)
	}
	if strings.Contains(got, "....") {
		t.Errorf("punctuation runs not collapsed:\n%s", got)
	}
}

func TestCollapsePunctuationRuns(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"wait....", "wait."},
		{"section 4.2 applies", "section 4.2 applies"},
		{"see pp. 12--14", "see pp. 12--14"},
		{"=====\nAnnex", "=\nAnnex"},
		{"no!!! ...really??", "no! .really??"},
		{"", ""},
	}
	for _, c := range cases {
		if got := collapsePunctuationRuns(c.in); got != c.want {
			t.Errorf("collapsePunctuationRuns(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanText_KeepsLongLinesMentioningMarkers(t *testing.T) {
	line := "Article 12 requires manufacturers to publish a privacy policy describing the telematics data " +
		"collected from the vehicle and retained for conformity verification purposes."
	if got := CleanText(line); !strings.Contains(got, "Article 12") {
		t.Errorf("substantive line dropped as boilerplate:\n%s", got)
	}
}

func TestSectionScore(t *testing.T) {
	sec := "Diesel emission compliance shall follow Regulation No. 715/2007."
	score := sectionScore(sec, []string{"diesel", "emission", "absent-term"})
	// 2 terms + 2 indicators (shall, compliance) * 0.5 + 1 regulation number.
	if score < 3.9 || score > 4.1 {
		t.Errorf("section score %f, want 4.0", score)
	}
}
