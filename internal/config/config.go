// Package config provides configuration loading and validation for the
// AgentGram application. Settings come from an optional .env-style file
// and real environment variables, with the environment taking priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Environment variable names recognized by LoadConfig. The setup tool
// writes these same keys into the generated .env file.
const (
	EnvTelegramToken        = "TELEGRAM_BOT_TOKEN"
	EnvAllowedChatIDs       = "TELEGRAM_ALLOWED_CHAT_IDS"
	EnvAllowedUsernames     = "TELEGRAM_ALLOWED_USERNAMES"
	EnvTranscriptionService = "TRANSCRIPTION_SERVICE"
	EnvWhisperModel         = "WHISPER_MODEL"
	EnvWhisperBin           = "WHISPER_BIN"
	EnvOpenAIAPIKey         = "OPENAI_API_KEY"
	EnvMaxHistoryMessages   = "MAX_HISTORY_MESSAGES"
	EnvGeminiAPIKey         = "GEMINI_API_KEY"
	EnvGeminiModel          = "GEMINI_MODEL"
	EnvLogLevel             = "LOG_LEVEL"
	EnvLogFormat            = "LOG_FORMAT"
	EnvTempDir              = "TEMP_DIR"
)

// Config holds all application settings. It is immutable after
// LoadConfig except for Telegram.BotInfo, which is filled once at
// startup after the bot identifies itself.
type Config struct {
	Telegram      TelegramConfig
	Gemini        GeminiConfig
	Transcription TranscriptionConfig
	History       HistoryConfig
	Logger        LoggerConfig
	Scheduler     SchedulerConfig
	Messages      Messages

	// TempDir is where downloaded media is staged; empty means the
	// system temp directory.
	TempDir string
}

// TelegramConfig holds bot transport settings and the allow-lists.
type TelegramConfig struct {
	Token            string `validate:"required"`
	AllowedChatIDs   []int64
	AllowedUsernames []string

	// BotInfo is retrieved via GetMe at startup and stored here for
	// runtime use.
	BotInfo *models.User
}

// GeminiConfig configures the bundled agent. The API key is validated
// by the gemini client itself so other agent backends can run without
// one.
type GeminiConfig struct {
	APIKey string
	Model  string `validate:"required"`
}

// TranscriptionConfig selects and configures voice transcription.
type TranscriptionConfig struct {
	Service      string `validate:"oneof=none local cloud openai"`
	WhisperBin   string `validate:"required"`
	WhisperModel string `validate:"required"`
	OpenAIAPIKey string
}

// HistoryConfig bounds the in-memory conversation windows.
type HistoryConfig struct {
	MaxMessages int `validate:"required,gt=0"`
}

// LoggerConfig controls structured logging output.
type LoggerConfig struct {
	Level  string `validate:"required,oneof=debug info warn error"`
	Format string `validate:"required,oneof=json text"`
}

// TaskConfig configures one scheduled task.
type TaskConfig struct {
	Schedule string
	Enabled  bool
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig
}

// LoadConfig reads settings from the given .env-style file (missing
// file is fine), overlays real environment variables, applies defaults,
// and validates the result. Any failure here is fatal to startup.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !os.IsNotExist(err) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read env file %q: %w", envFile, err)
			}
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:            v.GetString(EnvTelegramToken),
			AllowedChatIDs:   parseChatIDs(v.GetString(EnvAllowedChatIDs)),
			AllowedUsernames: splitCSV(v.GetString(EnvAllowedUsernames)),
		},
		Gemini: GeminiConfig{
			APIKey: v.GetString(EnvGeminiAPIKey),
			Model:  v.GetString(EnvGeminiModel),
		},
		Transcription: TranscriptionConfig{
			Service:      strings.ToLower(strings.TrimSpace(v.GetString(EnvTranscriptionService))),
			WhisperBin:   v.GetString(EnvWhisperBin),
			WhisperModel: v.GetString(EnvWhisperModel),
			OpenAIAPIKey: v.GetString(EnvOpenAIAPIKey),
		},
		History: HistoryConfig{
			MaxMessages: v.GetInt(EnvMaxHistoryMessages),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(v.GetString(EnvLogLevel)),
			Format: strings.ToLower(v.GetString(EnvLogFormat)),
		},
		Scheduler: SchedulerConfig{
			Tasks: map[string]TaskConfig{
				TaskTempCleanup: {Schedule: DefaultCleanupSchedule, Enabled: true},
			},
		},
		Messages: DefaultMessages,
		TempDir:  v.GetString(EnvTempDir),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration invalid: %w", err)
	}

	return cfg, nil
}

// splitCSV splits a comma-separated value, trimming entries and
// dropping empty ones.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// parseChatIDs parses a comma-separated list of signed chat IDs.
// Group chat IDs are negative, so plain integer parsing is required;
// malformed entries are skipped with a warning rather than failing
// startup.
func parseChatIDs(s string) []int64 {
	entries := splitCSV(s)
	ids := make([]int64, 0, len(entries))

	for _, entry := range entries {
		id, err := strconv.ParseInt(entry, 10, 64)
		if err != nil {
			slog.Warn("skipping malformed chat ID in allow-list", "entry", entry)

			continue
		}

		ids = append(ids, id)
	}

	return ids
}
