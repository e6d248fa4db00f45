package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTokensHandler returns a handler for the /tokens command, which
// reports the message and token counts of the chat's history window.
func NewTokensHandler(deps HandlerDeps) bot.HandlerFunc {
	return tokensHandler{deps}.Handle
}

type tokensHandler struct {
	deps HandlerDeps
}

func (h tokensHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h tokensHandler) handle(ctx context.Context, api chatAPI, update *models.Update) {
	log := h.deps.Logger.With("handler", "tokens")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Tokens handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	messages, tokens := h.deps.History.Stats(chatID)
	log.InfoContext(ctx, "Handling /tokens command", "chat_id", chatID, "messages", messages, "tokens", tokens)

	_, err := api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            fmt.Sprintf(h.deps.Config.Messages.Stats, messages, tokens),
		ReplyParameters: &models.ReplyParameters{MessageID: update.Message.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send stats message", "error", err, "chat_id", chatID)
	}
}
