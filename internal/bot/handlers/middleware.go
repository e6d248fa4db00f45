// Package handlers contains Telegram bot command and message handlers,
// along with their registration metadata and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Authorized creates a middleware that checks the message sender against
// the configured chat and username allow-lists. Denied senders receive a
// rejection reply and processing stops before any handler runs.
func Authorized(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if allowUpdate(ctx, b, deps, update) {
				next(ctx, b, update)
			}
		}
	}
}

// allowUpdate reports whether the update may reach handlers. Denied
// messages get the rejection reply here.
func allowUpdate(ctx context.Context, api chatAPI, deps HandlerDeps, update *models.Update) bool {
	// Only message updates carry a sender identity to check.
	if update.Message == nil {
		return true
	}

	msg := update.Message
	var username string
	if msg.From != nil {
		username = msg.From.Username
	}

	if deps.Access.Allowed(msg.Chat.ID, username) {
		return true
	}

	log := deps.Logger.With("middleware", "authorized")
	log.WarnContext(ctx, "Unauthorized access attempt", "chat_id", msg.Chat.ID, "username", username)

	_, err := api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            deps.Config.Messages.NotAuthorized,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", msg.Chat.ID)
	}

	return false
}
