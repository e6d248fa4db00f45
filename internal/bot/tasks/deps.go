// Package tasks implements the scheduled background tasks of the
// agentgram bot, along with their dependencies and registration.
package tasks

import (
	"log/slog"

	"github.com/agentgram/agentgram/internal/config"
	"github.com/agentgram/agentgram/internal/tempfile"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Files  *tempfile.Manager
}
