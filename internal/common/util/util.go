// Package util provides shared helpers for AgentGram, currently
// tiktoken-based token counting for conversation statistics.
package util

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackCharsPerToken is the rough characters-per-token ratio used to
// estimate counts when the tokenizer is unavailable.
const fallbackCharsPerToken = 4

var (
	tokenizer     *tiktoken.Tiktoken
	tokenizerOnce sync.Once
	tokenizerErr  error
)

// GetTokenizer returns the shared tiktoken tokenizer (cl100k_base).
// The encoding is resolved once; subsequent calls reuse the result.
func GetTokenizer() (*tiktoken.Tiktoken, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = tiktoken.GetEncoding("cl100k_base")
		if tokenizerErr != nil {
			slog.Error("failed to initialize tokenizer", "error", tokenizerErr)
		}
	})

	return tokenizer, tokenizerErr
}

// CountTokens returns the number of tokens in text. When the tokenizer
// cannot be initialized it falls back to a character-based estimate, so
// the result is always usable for display purposes.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}

	tk, err := GetTokenizer()
	if err != nil {
		return estimateTokens(text)
	}

	return len(tk.Encode(text, nil, nil))
}

func estimateTokens(text string) int {
	return len(text) / fallbackCharsPerToken
}
