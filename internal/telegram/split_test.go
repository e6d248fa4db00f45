package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessage_ShortMessageUnchanged(t *testing.T) {
	t.Parallel()

	chunks := SplitMessage("hello world")
	if len(chunks) != 1 || chunks[0] != "hello world" {
		t.Fatalf("expected single unchanged chunk, got %q", chunks)
	}
}

func TestSplitMessage_ExactLimitUnchanged(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", MaxMessageLength)
	chunks := SplitMessage(text)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected single chunk at exact limit, got %d chunks", len(chunks))
	}
}

func TestSplitMessage_PrefersParagraphBoundary(t *testing.T) {
	t.Parallel()

	first := strings.Repeat("a", 100)
	second := strings.Repeat("b", 100)

	chunks := splitMessage(first+"\n\n"+second, 150)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}

	if chunks[0] != first {
		t.Errorf("first chunk = %q", chunks[0])
	}

	if chunks[1] != second {
		t.Errorf("second chunk = %q", chunks[1])
	}
}

func TestSplitMessage_FallsBackToLineBoundary(t *testing.T) {
	t.Parallel()

	first := strings.Repeat("a", 100)
	second := strings.Repeat("b", 100)

	chunks := splitMessage(first+"\n"+second, 150)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if chunks[0] != first || chunks[1] != second {
		t.Errorf("chunks = %q", chunks)
	}
}

func TestSplitMessage_FallsBackToWordBoundary(t *testing.T) {
	t.Parallel()

	first := strings.Repeat("a", 100)
	second := strings.Repeat("b", 100)

	chunks := splitMessage(first+" "+second, 150)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if chunks[0] != first || chunks[1] != second {
		t.Errorf("chunks = %q", chunks)
	}
}

func TestSplitMessage_RejectsEarlyBoundary(t *testing.T) {
	t.Parallel()

	// The only space sits in the first half of the window, so the
	// splitter must cut hard at the limit instead of using it.
	text := "hi " + strings.Repeat("a", 200)

	chunks := splitMessage(text, 100)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	if chunks[0] != "hi "+strings.Repeat("a", 97) {
		t.Errorf("first chunk should be a hard cut, got %q", chunks[0])
	}

	if strings.Join(chunks, "") != text {
		t.Error("hard cuts must not lose text")
	}
}

func TestSplitMessage_BoundaryMustPassMidpoint(t *testing.T) {
	t.Parallel()

	// Space at index 5 with limit 10: not strictly past the midpoint,
	// so it is ignored.
	chunks := splitMessage("abcde fghijklmno", 10)
	if len(chunks) != 2 || chunks[0] != "abcde fghi" {
		t.Fatalf("expected hard cut, got %q", chunks)
	}

	// Space at index 6 is past the midpoint and wins.
	chunks = splitMessage("abcdef ghijklmnop", 10)
	if len(chunks) != 2 || chunks[0] != "abcdef" || chunks[1] != "ghijklmnop" {
		t.Fatalf("expected word-boundary split, got %q", chunks)
	}
}

func TestSplitMessage_TrimsWhitespaceAroundBoundary(t *testing.T) {
	t.Parallel()

	first := strings.Repeat("a", 80) + "  "
	second := strings.Repeat("b", 100)

	chunks := splitMessage(first+"\n\n"+second, 150)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if chunks[0] != strings.Repeat("a", 80) {
		t.Errorf("trailing whitespace should be trimmed, got %q", chunks[0])
	}

	if chunks[1] != second {
		t.Errorf("leading whitespace should be trimmed, got %q", chunks[1])
	}
}

func TestSplitMessage_HardCutKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("é", 60) // 2 bytes per rune

	chunks := splitMessage(text, 99)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}

	if strings.Join(chunks, "") != text {
		t.Error("chunks must reassemble to the original text")
	}
}

func TestSplitMessage_AllChunksWithinLimit(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString("The quick brown fox jumps over the lazy dog. ")
		if i%7 == 0 {
			sb.WriteString("\n\n")
		}
	}

	const limit = 200

	chunks := splitMessage(sb.String(), limit)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c) > limit {
			t.Errorf("chunk %d exceeds limit: %d > %d", i, len(c), limit)
		}

		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}
