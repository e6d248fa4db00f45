package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/agentgram/agentgram/internal/history"
	"github.com/agentgram/agentgram/internal/tempfile"
)

const (
	mediaDownloadTimeout = 30 * time.Second
	aiProcessingTimeout  = 2 * time.Minute
	sendMessageTimeout   = 10 * time.Second

	// maxDownloadSize matches the Bot API's getFile ceiling.
	maxDownloadSize = 20 * 1024 * 1024
)

// chatLocks hands out one mutex per chat so message processing within a
// chat stays sequential while chats proceed independently.
type chatLocks struct {
	mu    sync.Mutex
	chats map[int64]*sync.Mutex
}

func (l *chatLocks) lock(chatID int64) func() {
	l.mu.Lock()
	m, ok := l.chats[chatID]
	if !ok {
		m = &sync.Mutex{}
		l.chats[chatID] = m
	}
	l.mu.Unlock()

	m.Lock()

	return m.Unlock
}

// unknownCommand reports whether text is a slash command that no
// registered handler consumed, returning the bare command name.
func unknownCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	cmd := text[1:]
	if i := strings.IndexFunc(cmd, unicode.IsSpace); i >= 0 {
		cmd = cmd[:i]
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	if cmd == "" {
		return "", false
	}

	return cmd, true
}

// hasMedia reports whether the message carries an attachment the text
// pipeline cannot read.
func hasMedia(msg *models.Message) bool {
	return len(msg.Photo) > 0 ||
		msg.Document != nil ||
		msg.Video != nil ||
		msg.VideoNote != nil ||
		msg.Animation != nil ||
		msg.Sticker != nil
}

// audioMetadata formats the performer and title of an audio attachment,
// returning "" when neither is set.
func audioMetadata(audio *models.Audio) string {
	fields := make([]string, 0, 2)
	if audio.Performer != "" {
		fields = append(fields, "Artist: "+audio.Performer)
	}
	if audio.Title != "" {
		fields = append(fields, "Title: "+audio.Title)
	}

	return strings.Join(fields, ", ")
}

// buildPrompt renders the history window and the incoming text as
// labeled turns, oldest first.
func buildPrompt(turns []history.Message, incoming string) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(roleLabel(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(incoming)

	return b.String()
}

func roleLabel(r history.Role) string {
	if r == history.RoleAssistant {
		return "Assistant"
	}

	return "User"
}

// transcribeMedia downloads the given Telegram file to a scratch file
// and runs the transcriber over it. The scratch file is removed before
// returning.
func (h *chatHandler) transcribeMedia(ctx context.Context, api chatAPI, fileID, mimeType, fileName string) (string, error) {
	path, err := downloadTelegramFile(ctx, api, h.deps.Files, fileID, mimeType, fileName)
	if err != nil {
		return "", fmt.Errorf("failed to download media: %w", err)
	}
	defer h.deps.Files.Remove(path)

	return h.deps.Transcriber.Transcribe(ctx, path)
}

// downloadTelegramFile fetches a Telegram file and stores it as a
// scratch file, returning the local path. Callers own the file's
// removal.
func downloadTelegramFile(ctx context.Context, api chatAPI, files *tempfile.Manager, fileID, mimeType, fileName string) (path string, err error) {
	if fileID == "" {
		return "", fmt.Errorf("empty fileID provided")
	}

	downloadCtx, cancel := context.WithTimeout(ctx, mediaDownloadTimeout)
	defer cancel()

	fileObj, err := api.GetFile(downloadCtx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}
	if fileObj.FilePath == "" {
		return "", fmt.Errorf("empty file path returned for file ID %s", fileID)
	}

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, api.FileDownloadLink(fileObj), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d downloading file", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return "", fmt.Errorf("failed to read file data: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("received empty file data")
	}

	return files.Save(data, tempfile.Extension(mimeType, fileName))
}
