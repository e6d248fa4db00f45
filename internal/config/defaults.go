package config

import "github.com/spf13/viper"

// TaskTempCleanup is the scheduler registry key for the stale
// temp-file cleanup task.
const TaskTempCleanup = "temp_cleanup"

// Default values for optional settings.
const (
	DefaultTranscriptionService = "none"
	DefaultWhisperModel         = "turbo"
	DefaultWhisperBin           = "whisper"
	DefaultMaxHistoryMessages   = 50
	DefaultGeminiModel          = "gemini-2.0-flash"
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "json"

	// DefaultCleanupSchedule runs the temp-file cleanup hourly
	// (six-field cron, seconds first).
	DefaultCleanupSchedule = "0 0 * * * *"
)

// Messages holds every fixed user-visible reply the bot sends.
// UnknownCommand and Stats are fmt templates.
type Messages struct {
	Welcome             string
	Help                string
	NotAuthorized       string
	HistoryReset        string
	Stats               string
	UnknownCommand      string
	GeneralError        string
	VoiceNotSupported   string
	TranscriptionFailed string
	CaptionOnlyMedia    string
	EmptyMessage        string
}

// DefaultMessages are the stock reply texts.
var DefaultMessages = Messages{
	Welcome: "👋 Hello! I'm your AI assistant.\n\n" +
		"You can send me:\n" +
		"• Text messages\n" +
		"• Voice messages (will be transcribed)\n" +
		"• Media with a caption (I'll read the caption)\n\n" +
		"Commands:\n" +
		"/reset - Clear conversation history\n" +
		"/tokens - Show token count\n" +
		"/help - Show this message",
	Help: "Available commands:\n" +
		"/start - Welcome message\n" +
		"/reset - Clear conversation history\n" +
		"/tokens - Show current token count\n" +
		"/help - Show this message\n\n" +
		"Send me any message and I'll respond!",
	NotAuthorized:       "⛔ You are not authorized to use this bot.",
	HistoryReset:        "✅ Conversation history cleared!",
	Stats:               "📊 Conversation Statistics:\n• Messages: %d\n• Tokens: %d",
	UnknownCommand:      "Unknown command: /%s\nUse /help to see available commands.",
	GeneralError:        "Sorry, I encountered an error processing your message.",
	VoiceNotSupported:   "🎤 Voice messages are not supported: transcription is not configured.",
	TranscriptionFailed: "🎤 Sorry, I couldn't transcribe your voice message. Please try again.",
	CaptionOnlyMedia:    "📎 I can only read text and voice messages. Add a caption and I'll respond to that.",
	EmptyMessage:        "ℹ️ Please send a text or voice message.",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(EnvTranscriptionService, DefaultTranscriptionService)
	v.SetDefault(EnvWhisperModel, DefaultWhisperModel)
	v.SetDefault(EnvWhisperBin, DefaultWhisperBin)
	v.SetDefault(EnvMaxHistoryMessages, DefaultMaxHistoryMessages)
	v.SetDefault(EnvGeminiModel, DefaultGeminiModel)
	v.SetDefault(EnvLogLevel, DefaultLogLevel)
	v.SetDefault(EnvLogFormat, DefaultLogFormat)
}
