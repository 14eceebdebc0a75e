package nlp

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultStopwords are tokens that never belong to a book title. Captured
// phrases are trimmed against this list and candidate phrases are split on
// it.
var DefaultStopwords = []string{
	"sách", "cuốn", "quyển", "truyện", "tập",
	"giá", "bao", "nhiêu", "tiền",
	"tìm", "mua", "đặt", "xem", "hỏi", "cần", "muốn",
	"cho", "mình", "tôi", "bạn", "em", "anh", "chị", "shop",
	"của", "là", "về", "với", "và", "có", "không", "gì", "vậy",
	"nhé", "nha", "ạ", "ơi", "đi", "giúp", "được",
}

// bookRules capture the phrase users attach to a trigger word. Ordered
// cheapest and most precise first; the first rule with a non-empty capture
// wins.
var bookRules = []*regexp.Regexp{
	regexp.MustCompile(`(?:sách|cuốn|quyển|truyện)\s+(.+)$`),
	regexp.MustCompile(`giá(?:\s+của)?\s+(.+)$`),
	regexp.MustCompile(`(?:tìm|mua|đặt)\s+(.+)$`),
}

// orderRules capture an order code. The keyword rule demands a digit in the
// code so that the ASCII prefix of a following Vietnamese word ("đơn hàng
// của ...") is never mistaken for one.
var orderRules = []*regexp.Regexp{
	regexp.MustCompile(`(?:mã\s+đơn(?:\s+hàng)?|đơn\s+hàng|đơn)\s*#?\s*([a-z]*[0-9][a-z0-9]*)`),
	regexp.MustCompile(`#([a-z0-9]+)`),
}

// fragment marker left by sub-word tokenization
const fragmentSuffix = "@@"

// SlotExtractor pulls a domain entity out of a normalized utterance using
// an ordered chain of strategies, each tried only if the prior one yields
// nothing:
//
//  1. regex rules around trigger words, with stopword stripping of the
//     captured phrase;
//  2. token assembly that merges sub-word fragments back into whole tokens
//     and keeps the longest non-stopword phrase;
//  3. a plain whitespace split with the same stopword filter.
//
// No single heuristic generalizes across the irregular ways users name
// books in free text, hence the chain.
type SlotExtractor struct {
	stopwords map[string]struct{}
	title     cases.Caser
}

// NewSlotExtractor creates a SlotExtractor. Pass nil to use
// DefaultStopwords.
func NewSlotExtractor(stopwords []string) *SlotExtractor {
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[w] = struct{}{}
	}
	return &SlotExtractor{
		stopwords: set,
		title:     cases.Title(language.Vietnamese),
	}
}

// ExtractBookName returns the book title mentioned in the normalized
// utterance, title-cased, or "" if no strategy succeeds.
func (e *SlotExtractor) ExtractBookName(text string) string {
	if phrase := e.extractByRules(text); phrase != "" {
		return e.title.String(phrase)
	}
	if phrase := e.extractByTokenMerge(text); phrase != "" {
		return e.title.String(phrase)
	}
	if phrase := e.extractBySplit(text); phrase != "" {
		return e.title.String(phrase)
	}
	return ""
}

// ExtractOrderID returns an order code mentioned in the normalized
// utterance, or "".
func (e *SlotExtractor) ExtractOrderID(text string) string {
	for _, rule := range orderRules {
		if m := rule.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func (e *SlotExtractor) extractByRules(text string) string {
	for _, rule := range bookRules {
		m := rule.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if phrase := e.trimStopwords(strings.Fields(m[1])); phrase != "" {
			return phrase
		}
	}
	return ""
}

func (e *SlotExtractor) extractByTokenMerge(text string) string {
	return e.longestPhrase(mergeFragments(strings.Fields(text)))
}

func (e *SlotExtractor) extractBySplit(text string) string {
	return e.longestPhrase(strings.Fields(text))
}

// trimStopwords drops stopword tokens from both ends of the captured
// phrase, preserving interior words.
func (e *SlotExtractor) trimStopwords(tokens []string) string {
	start, end := 0, len(tokens)
	for start < end {
		if _, ok := e.stopwords[tokens[start]]; !ok {
			break
		}
		start++
	}
	for end > start {
		if _, ok := e.stopwords[tokens[end-1]]; !ok {
			break
		}
		end--
	}
	return strings.Join(tokens[start:end], " ")
}

// longestPhrase returns the longest contiguous run of non-stopword tokens.
func (e *SlotExtractor) longestPhrase(tokens []string) string {
	var best, current []string
	for _, token := range tokens {
		if _, ok := e.stopwords[token]; ok {
			if len(current) > len(best) {
				best = current
			}
			current = nil
			continue
		}
		current = append(current, token)
	}
	if len(current) > len(best) {
		best = current
	}
	return strings.Join(best, " ")
}

// mergeFragments reassembles marked syllable fragments ("dế@@ mèn" style
// leftovers from the classifier's tokenizer) into one token per word.
// Vietnamese words are space-separated syllables, so the fragment and its
// continuation keep their separator.
func mergeFragments(tokens []string) []string {
	merged := make([]string, 0, len(tokens))
	pending := ""
	for _, token := range tokens {
		if strings.HasSuffix(token, fragmentSuffix) {
			pending = joinSyllables(pending, strings.TrimSuffix(token, fragmentSuffix))
			continue
		}
		merged = append(merged, joinSyllables(pending, token))
		pending = ""
	}
	if pending != "" {
		merged = append(merged, pending)
	}
	return merged
}

func joinSyllables(pending, token string) string {
	if pending == "" {
		return token
	}
	return pending + " " + token
}
