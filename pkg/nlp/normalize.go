package nlp

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Abbreviation is one whole-word substitution applied during normalization.
type Abbreviation struct {
	Short string
	Full  string
}

// DefaultAbbreviations expands the chat shorthand commonly seen in
// Vietnamese customer messages. Order matters: longer forms are listed
// before their substrings so "xin chao" wins over "chao".
var DefaultAbbreviations = []Abbreviation{
	{"xin chao", "chào"},
	{"hello", "chào"},
	{"helo", "chào"},
	{"hiii", "chào"},
	{"chao", "chào"},
	{"hey", "chào"},
	{"alo", "chào"},
	{"hi", "chào"},
	{"hok", "không"},
	{"ko", "không"},
	{"k", "không"},
	{"mk", "mình"},
	{"bt", "bình thường"},
	{"j", "gì"},
	{"z", "vậy"},
	{"vs", "với"},
	{"dc", "được"},
	{"oke", "okay"},
	{"ok", "okay"},
}

// strip everything that is not a letter, digit, underscore, whitespace or #
var punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s#]+`)

// Normalizer canonicalizes raw utterances: lower-case, Unicode NFC,
// whole-word abbreviation expansion, punctuation strip, trim. Normalizing
// an already-normalized string returns it unchanged.
type Normalizer struct {
	substitutions []substitution
}

type substitution struct {
	short []string
	full  []string
}

// NewNormalizer creates a Normalizer with the given abbreviation table.
// Pass nil to use DefaultAbbreviations.
func NewNormalizer(abbreviations []Abbreviation) *Normalizer {
	if abbreviations == nil {
		abbreviations = DefaultAbbreviations
	}
	subs := make([]substitution, len(abbreviations))
	for i, a := range abbreviations {
		subs[i] = substitution{
			short: strings.Fields(a.Short),
			full:  strings.Fields(a.Full),
		}
	}
	return &Normalizer{substitutions: subs}
}

// Normalize canonicalizes text. Empty input yields empty output.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ToLower(text)
	text = norm.NFC.String(text)
	text = punctuationRe.ReplaceAllString(text, "")

	// Substitutions are applied token-wise so that a match is always a
	// whole word, including for Unicode letters that RE2 word boundaries
	// do not cover.
	tokens := strings.Fields(text)
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		sub, width := n.matchAt(tokens, i)
		if sub == nil {
			out = append(out, tokens[i])
			i++
			continue
		}
		out = append(out, sub.full...)
		i += width
	}
	return strings.Join(out, " ")
}

// matchAt returns the first substitution whose short form matches the
// tokens starting at position i, and its token length.
func (n *Normalizer) matchAt(tokens []string, i int) (*substitution, int) {
	for s := range n.substitutions {
		sub := &n.substitutions[s]
		if i+len(sub.short) > len(tokens) {
			continue
		}
		matched := true
		for j, w := range sub.short {
			if tokens[i+j] != w {
				matched = false
				break
			}
		}
		if matched {
			return sub, len(sub.short)
		}
	}
	return nil, 0
}
