package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// whisper runs the OpenAI whisper CLI on a file and reads the text
// output it writes. The binary is resolved lazily on first use so the
// bot can start even when transcription is never exercised.
type whisper struct {
	bin    string
	model  string
	logger *slog.Logger

	resolveOnce sync.Once
	resolvedBin string
	resolveErr  error
}

func newWhisper(bin, model string, logger *slog.Logger) *whisper {
	return &whisper{bin: bin, model: model, logger: logger}
}

func (w *whisper) binary() (string, error) {
	w.resolveOnce.Do(func() {
		w.resolvedBin, w.resolveErr = exec.LookPath(w.bin)
		if w.resolveErr == nil {
			w.logger.Info("whisper binary resolved", "bin", w.resolvedBin, "model", w.model)
		}
	})

	return w.resolvedBin, w.resolveErr
}

// Transcribe invokes whisper with txt output into a scratch directory
// and returns the trimmed transcript. An empty transcript is not an
// error; silence is a valid recording.
func (w *whisper) Transcribe(ctx context.Context, path string) (string, error) {
	bin, err := w.binary()
	if err != nil {
		return "", fmt.Errorf("whisper binary %q not found: %w", w.bin, err)
	}

	outDir, err := os.MkdirTemp("", "agentgram_whisper_")
	if err != nil {
		return "", fmt.Errorf("create whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	cmd := exec.CommandContext(ctx, bin, path,
		"--model", w.model,
		"--output_format", "txt",
		"--output_dir", outDir,
		"--verbose", "False",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if detail := lastLine(stderr.String()); detail != "" {
			return "", fmt.Errorf("run whisper: %w: %s", err, detail)
		}

		return "", fmt.Errorf("run whisper: %w", err)
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	out, err := os.ReadFile(filepath.Join(outDir, stem+".txt"))
	if err != nil {
		return "", fmt.Errorf("read whisper transcript: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")

	return strings.TrimSpace(lines[len(lines)-1])
}
