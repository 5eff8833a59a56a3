// Package tokens estimates LLM token counts for optimized prompts.
//
// DESIGN: The engine budgets in characters; this package reports the
// approximate token cost alongside, so operators can relate character
// budgets to model context windows. Uses tiktoken's cl100k_base when
// the encoding loads, with a chars/4 heuristic as fallback.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const charsPerTokenFallback = 4

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// Estimate returns an approximate token count for text.
func Estimate(text string) int {
	if text == "" {
		return 0
	}

	encodingOnce.Do(func() {
		// Encoding data may be unavailable offline; fall back silently.
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})

	if encoding != nil {
		return len(encoding.Encode(text, nil, nil))
	}
	return EstimateFallback(text)
}

// EstimateFallback is the heuristic used when no encoding is loaded.
func EstimateFallback(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + charsPerTokenFallback - 1) / charsPerTokenFallback
}
