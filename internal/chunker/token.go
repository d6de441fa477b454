package chunker

import (
	"strings"
	"unicode/utf8"
)

// EstimateTokens gives a rough token count for budget checks when no
// tokenizer is available. It takes the larger of a word-based estimate
// (~1.33 tokens per English word) and a character-based one (~4 chars per
// token) so long unspaced runs are not undercounted.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	byWords := int(float64(len(strings.Fields(text))) * 1.33)
	byChars := (utf8.RuneCountInString(text) + 3) / 4
	tokens := max(byWords, byChars)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
