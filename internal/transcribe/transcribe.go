// Package transcribe converts voice and audio files into text. The
// local backend shells out to a whisper CLI; the cloud backend is a
// placeholder that reports itself as unimplemented.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNotImplemented is returned by backends that can be configured but
// are not available yet.
var ErrNotImplemented = errors.New("transcription backend not implemented")

// Service turns an audio file on disk into text.
type Service interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// New selects a backend by name. The empty name and "none" disable
// transcription entirely, returning a nil Service.
func New(service, bin, model string, logger *slog.Logger) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(service)) {
	case "", "none":
		return nil, nil
	case "local":
		return newWhisper(bin, model, logger), nil
	case "cloud", "openai":
		logger.Warn("cloud transcription is not implemented, voice messages will fail", "service", service)

		return cloudStub{}, nil
	default:
		return nil, fmt.Errorf("unknown transcription service %q", service)
	}
}

type cloudStub struct{}

func (cloudStub) Transcribe(context.Context, string) (string, error) {
	return "", ErrNotImplemented
}
