// Package tempfile manages the scratch files downloaded media passes
// through before transcription. Every file carries the same name
// prefix so periodic cleanup can find leftovers from crashed runs.
package tempfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const filePrefix = "agentgram_"

// mimeExtensions maps common Telegram media MIME types to file
// extensions. The filename's own extension takes priority when present.
var mimeExtensions = map[string]string{
	"audio/ogg":        ".ogg",
	"audio/mpeg":       ".mp3",
	"audio/mp4":        ".m4a",
	"audio/wav":        ".wav",
	"audio/webm":       ".webm",
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"application/pdf":  ".pdf",
	"application/zip":  ".zip",
	"application/json": ".json",
	"text/plain":       ".txt",
	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
}

// Extension picks a file extension for downloaded media: the
// filename's suffix if it has one, then the MIME mapping, then ".bin".
func Extension(mimeType, filename string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return ext
	}

	if ext, ok := mimeExtensions[mimeType]; ok {
		return ext
	}

	return ".bin"
}

// Manager creates and cleans up scratch files inside one directory.
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager ensures dir exists and returns a Manager bound to it. An
// empty dir falls back to the system temp directory.
func NewManager(dir string, logger *slog.Logger) (*Manager, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir %q: %w", dir, err)
	}

	return &Manager{dir: dir, logger: logger}, nil
}

// Dir returns the directory the manager writes into.
func (m *Manager) Dir() string {
	return m.dir
}

// Save writes data to a fresh scratch file with the managed prefix and
// the given extension, returning its path.
func (m *Manager) Save(data []byte, ext string) (string, error) {
	f, err := os.CreateTemp(m.dir, filePrefix+"*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())

		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())

		return "", fmt.Errorf("close temp file: %w", err)
	}

	return f.Name(), nil
}

// Remove deletes a scratch file. Missing files are fine; anything else
// is logged and swallowed since cleanup will retry later.
func (m *Manager) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("failed to remove temp file", "path", path, "error", err)
	}
}

// CleanupOlderThan removes managed files whose modification time is
// older than maxAge and reports how many were removed.
func (m *Manager) CleanupOlderThan(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir %q: %w", m.dir, err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			m.logger.Warn("failed to remove stale temp file", "path", path, "error", err)

			continue
		}

		removed++
	}

	return removed, nil
}
