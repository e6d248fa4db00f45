package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/agentgram/agentgram/internal/history"
	"github.com/agentgram/agentgram/internal/telegram"
)

// Markers that tag transcribed media in the prompt.
const (
	voiceTranscriptionMarker = "[Voice transcription]: "
	audioTranscriptionMarker = "[Audio transcription]: "
	audioMetadataMarker      = "[Audio metadata]: "
)

type chatHandler struct {
	deps  HandlerDeps
	locks chatLocks
}

// NewChatHandler creates the default handler: every non-command message
// becomes one conversation turn against the wrapped agent.
func NewChatHandler(deps HandlerDeps) bot.HandlerFunc {
	h := &chatHandler{
		deps:  deps,
		locks: chatLocks{chats: make(map[int64]*sync.Mutex)},
	}

	return h.Handle
}

func (h *chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handle(ctx, b, update)
}

func (h *chatHandler) handle(ctx context.Context, api chatAPI, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.DebugContext(ctx, "Ignoring update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := msg.Chat.ID

	// Updates are dispatched concurrently; serialize per chat so turns
	// land in history in arrival order.
	unlock := h.locks.lock(chatID)
	defer unlock()

	if cmd, ok := unknownCommand(msg.Text); ok {
		log.InfoContext(ctx, "Unknown command", "chat_id", chatID, "command", cmd)
		h.sendReply(ctx, api, chatID, msg.ID, fmt.Sprintf(deps.Config.Messages.UnknownCommand, cmd))
		return
	}

	_, _ = api.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})

	prompt, notice := h.extractPrompt(ctx, api, msg)
	if notice != "" {
		h.sendReply(ctx, api, chatID, msg.ID, notice)
		return
	}
	if strings.TrimSpace(prompt) == "" {
		h.sendReply(ctx, api, chatID, msg.ID, deps.Config.Messages.EmptyMessage)
		return
	}

	log.DebugContext(ctx, "Handling chat message", "chat_id", chatID, "message_id", msg.ID)

	fullPrompt := buildPrompt(deps.History.Get(chatID), prompt)

	aiCtx, cancel := context.WithTimeout(ctx, aiProcessingTimeout)
	reply, err := deps.Agent.Run(aiCtx, fullPrompt)
	cancel()

	if err != nil {
		log.ErrorContext(ctx, "Agent run failed", "error", err, "chat_id", chatID)
		deps.History.Append(chatID, history.RoleUser, prompt)
		h.sendReply(ctx, api, chatID, msg.ID, deps.Config.Messages.GeneralError)
		return
	}
	if strings.TrimSpace(reply) == "" {
		log.WarnContext(ctx, "Agent returned an empty reply", "chat_id", chatID)
		deps.History.Append(chatID, history.RoleUser, prompt)
		h.sendReply(ctx, api, chatID, msg.ID, deps.Config.Messages.GeneralError)
		return
	}

	deps.History.Append(chatID, history.RoleUser, prompt)
	deps.History.Append(chatID, history.RoleAssistant, reply)

	h.sendChunkedReply(ctx, api, chatID, msg.ID, reply)
}

// extractPrompt normalizes the incoming message into agent prompt text.
// A non-empty notice means the message cannot become a prompt and the
// notice should be sent back instead.
func (h *chatHandler) extractPrompt(ctx context.Context, api chatAPI, msg *models.Message) (prompt, notice string) {
	deps := h.deps
	log := deps.Logger.With("handler", "chat")

	switch {
	case msg.Text != "":
		return msg.Text, ""

	case msg.Voice != nil:
		if deps.Transcriber == nil {
			return "", deps.Config.Messages.VoiceNotSupported
		}

		transcript, err := h.transcribeMedia(ctx, api, msg.Voice.FileID, msg.Voice.MimeType, "")
		if err != nil {
			log.ErrorContext(ctx, "Voice transcription failed", "error", err, "chat_id", msg.Chat.ID)
			return "", deps.Config.Messages.TranscriptionFailed
		}

		if msg.Caption != "" {
			return msg.Caption + "\n\n" + voiceTranscriptionMarker + transcript, ""
		}

		return transcript, ""

	case msg.Audio != nil:
		if deps.Transcriber == nil {
			return "", deps.Config.Messages.VoiceNotSupported
		}

		transcript, err := h.transcribeMedia(ctx, api, msg.Audio.FileID, msg.Audio.MimeType, msg.Audio.FileName)
		if err != nil {
			log.ErrorContext(ctx, "Audio transcription failed", "error", err, "chat_id", msg.Chat.ID)
			return "", deps.Config.Messages.TranscriptionFailed
		}

		parts := make([]string, 0, 3)
		if msg.Caption != "" {
			parts = append(parts, msg.Caption)
		}
		if meta := audioMetadata(msg.Audio); meta != "" {
			parts = append(parts, audioMetadataMarker+meta)
		}
		parts = append(parts, audioTranscriptionMarker+transcript)

		return strings.Join(parts, "\n\n"), ""

	case msg.Caption != "":
		return msg.Caption, ""

	case hasMedia(msg):
		return "", deps.Config.Messages.CaptionOnlyMedia

	default:
		return "", ""
	}
}

func (h *chatHandler) sendReply(ctx context.Context, api chatAPI, chatID int64, replyTo int, text string) {
	log := h.deps.Logger.With("handler", "chat")

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := api.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: replyTo},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// sendChunkedReply splits text to fit the transport's message size limit
// and sends the chunks in order. Only the first chunk replies to the
// triggering message.
func (h *chatHandler) sendChunkedReply(ctx context.Context, api chatAPI, chatID int64, replyTo int, text string) {
	log := h.deps.Logger.With("handler", "chat")

	chunks := telegram.SplitMessage(text)
	for i, chunk := range chunks {
		params := &bot.SendMessageParams{ChatID: chatID, Text: chunk}
		if i == 0 {
			params.ReplyParameters = &models.ReplyParameters{MessageID: replyTo}
		}

		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		_, err := api.SendMessage(sendCtx, params)
		cancel()

		if err != nil {
			log.ErrorContext(ctx, "Failed to send reply chunk", "error", err, "chat_id", chatID, "chunk", i+1, "total", len(chunks))
			return
		}
	}

	log.InfoContext(ctx, "Sent reply", "chat_id", chatID, "chunks", len(chunks))
}
