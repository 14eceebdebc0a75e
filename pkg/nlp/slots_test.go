package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBookName(t *testing.T) {
	extractor := NewSlotExtractor(nil)
	normalizer := NewNormalizer(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Trailing phrase after trigger word",
			input:    "tìm sách Dế Mèn",
			expected: "Dế Mèn",
		},
		{
			name:     "Trigger word with trailing noise",
			input:    "giá sách Dế Mèn bao nhiêu vậy",
			expected: "Dế Mèn",
		},
		{
			name:     "Price question without trigger noun",
			input:    "giá Đắc Nhân Tâm bao nhiêu",
			expected: "Đắc Nhân Tâm",
		},
		{
			name:     "Bare title falls through to split strategy",
			input:    "Nhà Giả Kim",
			expected: "Nhà Giả Kim",
		},
		{
			name:     "Only stopwords yields nothing",
			input:    "giá bao nhiêu",
			expected: "",
		},
		{
			name:     "Empty input yields nothing",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.ExtractBookName(normalizer.Normalize(tt.input)))
		})
	}
}

func TestExtractBookNameMergesTokenFragments(t *testing.T) {
	extractor := NewSlotExtractor(nil)

	// Tokenizer-assisted assembly: syllable fragments come back from the
	// classifier's tokenizer with a trailing marker and are rejoined with
	// their space separator.
	assert.Equal(t, "Dế Mèn Phiêu Lưu Ký",
		extractor.ExtractBookName("dế@@ mèn phiêu lưu ký"))
	assert.Equal(t, "Đắc Nhân Tâm",
		extractor.ExtractBookName("đắc@@ nhân@@ tâm"))
}

func TestMergeFragments(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected []string
	}{
		{
			name:     "Fragment merges into following token",
			tokens:   []string{"dế@@", "mèn", "phiêu"},
			expected: []string{"dế mèn", "phiêu"},
		},
		{
			name:     "Chained fragments form one word",
			tokens:   []string{"đắc@@", "nhân@@", "tâm"},
			expected: []string{"đắc nhân tâm"},
		},
		{
			name:     "Dangling fragment kept",
			tokens:   []string{"nhà", "giả@@"},
			expected: []string{"nhà", "giả"},
		},
		{
			name:     "No fragments pass through",
			tokens:   []string{"nhà", "giả", "kim"},
			expected: []string{"nhà", "giả", "kim"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mergeFragments(tt.tokens))
		})
	}
}

func TestExtractOrderID(t *testing.T) {
	extractor := NewSlotExtractor(nil)
	normalizer := NewNormalizer(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Order code after keyword",
			input:    "kiểm tra đơn hàng 12345",
			expected: "12345",
		},
		{
			name:     "Hash-prefixed code",
			input:    "đơn #ab123 tới đâu rồi",
			expected: "ab123",
		},
		{
			name:     "No order code",
			input:    "chào shop",
			expected: "",
		},
		{
			name:     "Keyword followed by plain words is not a code",
			input:    "đơn hàng của mình sao rồi",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractor.ExtractOrderID(normalizer.Normalize(tt.input)))
		})
	}
}
