package telegram

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxMessageLength is Telegram's maximum message text length. Longer
// replies are split into multiple physical messages representing one
// logical reply.
const MaxMessageLength = 4096

// separators are tried in order of preference when looking for a clean
// split point: paragraph break, line break, word break.
var separators = []string{"\n\n", "\n", " "}

// SplitMessage splits text into chunks that each fit within Telegram's
// message length limit. Split points prefer paragraph, then line, then
// word boundaries, but only when the boundary lands past the middle of
// the window; otherwise the text is cut hard at the limit.
func SplitMessage(text string) []string {
	return splitMessage(text, MaxMessageLength)
}

func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string

	remaining := text
	for remaining != "" {
		if len(remaining) <= limit {
			chunks = append(chunks, remaining)
			break
		}

		window := remaining[:limit]

		pos := -1
		for _, sep := range separators {
			if p := strings.LastIndex(window, sep); p > limit/2 {
				pos = p
				break
			}
		}

		if pos >= 0 {
			chunks = append(chunks, strings.TrimRightFunc(remaining[:pos], unicode.IsSpace))
			remaining = strings.TrimLeftFunc(remaining[pos:], unicode.IsSpace)
			continue
		}

		// No acceptable boundary; cut at the limit without breaking a
		// multi-byte rune.
		cut := limit
		for cut > 0 && !utf8.RuneStart(remaining[cut]) {
			cut--
		}

		chunks = append(chunks, remaining[:cut])
		remaining = remaining[cut:]
	}

	return chunks
}
