// Package synth turns ranked regulation fragments into an answer.
// Fragments are numbered into the prompt as [Source i] blocks and the
// model is instructed to cite them; citations are then parsed back out
// of the completion so callers can attribute the answer.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Pivot12/SimFreeAutoRegAdvisor2/llm"
	"github.com/Pivot12/SimFreeAutoRegAdvisor2/relevance"
)

// ErrNoFragments means synthesis was asked to answer from nothing.
var ErrNoFragments = errors.New("synth: no fragments to answer from")

// Answer is a synthesized response with the source indices it cites.
// Cited holds zero-based fragment indices in first-appearance order;
// the model can hallucinate indices, so entries may be out of range
// and consumers bound-check before dereferencing. Sources is how many
// fragments were numbered into the prompt, which can be fewer than the
// caller passed in: a cited index is valid only below that bound.
type Answer struct {
	Text    string
	Cited   []int
	Sources int
}

// Synthesizer generates answers through the completion client.
type Synthesizer struct {
	llm         llm.Client
	maxSources  int
	temperature float64
	maxTokens   int64
	logger      *slog.Logger
}

// Option customises a Synthesizer.
type Option func(*Synthesizer)

// WithMaxSources caps how many fragments enter the prompt. Default: 5.
func WithMaxSources(n int) Option { return func(s *Synthesizer) { s.maxSources = n } }

// WithLogger sets the synthesizer logger.
func WithLogger(l *slog.Logger) Option { return func(s *Synthesizer) { s.logger = l } }

// New creates a Synthesizer over the given completion client.
func New(client llm.Client, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		llm:         client,
		maxSources:  5,
		temperature: 0.1,
		maxTokens:   2048,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize answers query from the given fragments, best first. The
// completion error is returned as-is so callers can distinguish model
// unavailability from an empty evidence base.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, fragments []relevance.Fragment) (Answer, error) {
	if len(fragments) == 0 {
		return Answer{}, ErrNoFragments
	}
	if len(fragments) > s.maxSources {
		fragments = fragments[:s.maxSources]
	}

	prompt := buildPrompt(query, fragments)
	text, err := s.llm.Complete(ctx, llm.Request{
		Prompt:      prompt,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("synth: completion: %w", err)
	}

	cited := SourceIndices(text)
	s.logger.Debug("synth: answer generated", "sources_in_prompt", len(fragments), "cited", len(cited))
	return Answer{Text: text, Cited: cited, Sources: len(fragments)}, nil
}

func buildPrompt(query string, fragments []relevance.Fragment) string {
	var sb strings.Builder
	for i, f := range fragments {
		fmt.Fprintf(&sb, "[Source %d] %s\n%s\n\n", i, f.SourceTitle, f.Text)
	}
	context := strings.TrimSpace(sb.String())

	return fmt.Sprintf(`You are an Automotive Regulatory Expert assistant. Answer the user's question about automotive regulations using the sources below.

Instructions:
1. ONLY use information from the provided sources. Do not invent regulations, limit values or dates.
2. Cite sources inline as [Source N] wherever you use them.
3. If the sources do not contain the answer, say so and suggest consulting the official regulatory body.
4. Be precise about which region and vehicle category each requirement applies to.

Sources:
%s

Question: %s

Answer:`, context, query)
}

var sourceIndexPattern = regexp.MustCompile(`\[Source (\d+)\]`)

// SourceIndices extracts the distinct source indices cited in text, in
// order of first appearance. Indices are not range-checked here.
func SourceIndices(text string) []int {
	var indices []int
	seen := make(map[int]bool)
	for _, m := range sourceIndexPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		indices = append(indices, n)
	}
	return indices
}
