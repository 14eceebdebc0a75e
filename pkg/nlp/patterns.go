package nlp

import (
	"strings"

	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

// Matcher scores utterances against intent example patterns by word
// overlap. It serves two roles: fallback classifier when the statistical
// classifier is unsure, and suggestion engine for feedback triage.
type Matcher struct {
	normalizer *Normalizer
}

func NewMatcher(normalizer *Normalizer) *Matcher {
	return &Matcher{normalizer: normalizer}
}

// Score returns the share of the pattern's words present in the utterance:
// |words(utterance) ∩ words(pattern)| / max(|words(pattern)|, 1).
// Both sides are normalized before comparison.
func (m *Matcher) Score(utterance, pattern string) float64 {
	utteranceWords := wordSet(m.normalizer.Normalize(utterance))
	patternTokens := strings.Fields(m.normalizer.Normalize(pattern))

	common := map[string]struct{}{}
	for _, w := range patternTokens {
		if _, ok := utteranceWords[w]; ok {
			common[w] = struct{}{}
		}
	}

	denominator := len(patternTokens)
	if denominator < 1 {
		denominator = 1
	}
	return float64(len(common)) / float64(denominator)
}

// Match returns the tag of the intent owning the highest-scoring pattern
// strictly exceeding threshold, or "" if none does. Ties resolve to the
// first intent in corpus order. Empty corpora and patterns are tolerated.
func (m *Matcher) Match(utterance string, corpus *models.IntentCorpus, threshold float64) string {
	if corpus == nil {
		return ""
	}

	bestTag := ""
	bestScore := threshold
	for i := range corpus.Intents {
		intent := &corpus.Intents[i]
		for _, pattern := range intent.Patterns {
			if score := m.Score(utterance, pattern); score > bestScore {
				bestScore = score
				bestTag = intent.Tag
			}
		}
	}
	return bestTag
}

func wordSet(text string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, w := range strings.Fields(text) {
		words[w] = struct{}{}
	}
	return words
}
