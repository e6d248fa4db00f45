package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/agentgram/agentgram/internal/access"
	"github.com/agentgram/agentgram/internal/agent"
	"github.com/agentgram/agentgram/internal/config"
	"github.com/agentgram/agentgram/internal/history"
	"github.com/agentgram/agentgram/internal/tempfile"
	"github.com/agentgram/agentgram/internal/transcribe"
)

// HandlerDeps provides dependencies for Telegram command and message
// handlers. Transcriber is nil when transcription is disabled.
type HandlerDeps struct {
	Logger      *slog.Logger
	Config      *config.Config
	Agent       agent.Agent
	History     *history.Store
	Access      *access.Filter
	Transcriber transcribe.Service
	Files       *tempfile.Manager
}

// chatAPI is the subset of the bot client the handlers call. *bot.Bot
// satisfies it.
type chatAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

var _ chatAPI = (*bot.Bot)(nil)
