package output

import (
	"strings"
	"unicode"
)

// EstimateTokens approximates the LLM token count of text: about 1.3 tokens
// per word plus one per two punctuation marks. Downstream chunkers use it to
// size section content without a model-specific tokenizer.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	punct := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punct++
		}
	}
	return int(float64(words)*1.3) + punct/2
}
