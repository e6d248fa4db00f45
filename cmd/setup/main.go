// The setup command interactively generates a .env file for the bot.
// It asks for the Telegram token, access lists, agent and transcription
// settings, then writes them using the same keys LoadConfig reads.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/agentgram/agentgram/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env", "./.env", "Path of the .env file to write")
	flag.Parse()

	if _, err := os.Stat(*envFile); err == nil {
		overwrite, err := confirmOverwrite(*envFile)
		if err != nil {
			return reportFormError(err)
		}

		if !overwrite {
			fmt.Println("Keeping the existing file.")

			return 0
		}
	}

	a := defaultAnswers()

	if err := buildForm(&a).Run(); err != nil {
		return reportFormError(err)
	}

	if !a.save {
		fmt.Println("Nothing written.")

		return 0
	}

	if err := writeEnvFile(*envFile, a); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		return 1
	}

	fmt.Printf("Wrote %s\nStart the bot with: go run ./cmd/bot -env %s\n", *envFile, *envFile)

	return 0
}

func reportFormError(err error) int {
	fmt.Fprintln(os.Stderr, "Error:", err)

	return 1
}

// answers holds the form state before it is rendered to the file.
// Numeric fields stay strings so the form can validate them in place.
type answers struct {
	token            string
	allowedChatIDs   string
	allowedUsernames string
	geminiAPIKey     string
	geminiModel      string
	transcription    string
	whisperBin       string
	whisperModel     string
	openAIAPIKey     string
	maxHistory       string
	save             bool
}

func defaultAnswers() answers {
	return answers{
		geminiModel:   config.DefaultGeminiModel,
		transcription: config.DefaultTranscriptionService,
		whisperBin:    config.DefaultWhisperBin,
		whisperModel:  config.DefaultWhisperModel,
		maxHistory:    strconv.Itoa(config.DefaultMaxHistoryMessages),
		save:          true,
	}
}

func confirmOverwrite(path string) (bool, error) {
	overwrite := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("%s already exists. Overwrite it?", path)).
			Value(&overwrite),
	))

	if err := form.Run(); err != nil {
		return false, err
	}

	return overwrite, nil
}

func buildForm(a *answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Telegram bot token").
				Description("From @BotFather, looks like 123456789:AAF...").
				Value(&a.token).
				Validate(validateToken),
			huh.NewInput().
				Title("Allowed chat IDs").
				Description("Comma-separated, empty allows every chat. Group IDs are negative.").
				Placeholder("123456789,-100987654321").
				Value(&a.allowedChatIDs).
				Validate(validateChatIDs),
			huh.NewInput().
				Title("Allowed usernames").
				Description("Comma-separated, empty allows every user.").
				Placeholder("alice,bob").
				Value(&a.allowedUsernames),
		).Title("Telegram"),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				EchoMode(huh.EchoModePassword).
				Value(&a.geminiAPIKey).
				Validate(required("Gemini API key")),
			huh.NewInput().
				Title("Gemini model").
				Value(&a.geminiModel).
				Validate(required("Gemini model")),
		).Title("Agent"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Voice transcription").
				Options(
					huh.NewOption("Disabled", "none"),
					huh.NewOption("Local Whisper binary", "local"),
					huh.NewOption("OpenAI API (not yet available)", "cloud"),
				).
				Value(&a.transcription),
		).Title("Transcription"),
		huh.NewGroup(
			huh.NewInput().
				Title("Whisper binary").
				Description("Command or path of the whisper executable.").
				Value(&a.whisperBin).
				Validate(required("Whisper binary")),
			huh.NewInput().
				Title("Whisper model").
				Value(&a.whisperModel).
				Validate(required("Whisper model")),
		).WithHideFunc(func() bool { return a.transcription != "local" }),
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				EchoMode(huh.EchoModePassword).
				Value(&a.openAIAPIKey),
		).WithHideFunc(func() bool { return a.transcription != "cloud" }),
		huh.NewGroup(
			huh.NewInput().
				Title("History limit").
				Description("Maximum stored messages per chat.").
				Value(&a.maxHistory).
				Validate(validatePositiveInt),
			huh.NewConfirm().
				Title("Write the file?").
				Value(&a.save),
		).Title("History"),
	)
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}

		return nil
	}
}

func validateToken(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("token is required")
	}

	if !strings.Contains(s, ":") {
		return errors.New("token should look like 123456789:AAF...")
	}

	return nil
}

func validateChatIDs(s string) error {
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if _, err := strconv.ParseInt(entry, 10, 64); err != nil {
			return fmt.Errorf("%q is not a chat ID", entry)
		}
	}

	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number")
	}

	return nil
}

// writeEnvFile renders the answers as KEY=VALUE lines. Empty values and
// settings for unselected transcription backends are omitted so the
// loader's defaults stay in charge of them.
func writeEnvFile(path string, a answers) error {
	var b strings.Builder

	write := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&b, "%s=%s\n", key, value)
		}
	}

	write(config.EnvTelegramToken, a.token)
	write(config.EnvAllowedChatIDs, normalizeCSV(a.allowedChatIDs))
	write(config.EnvAllowedUsernames, normalizeCSV(a.allowedUsernames))
	write(config.EnvGeminiAPIKey, a.geminiAPIKey)
	write(config.EnvGeminiModel, a.geminiModel)
	write(config.EnvTranscriptionService, a.transcription)

	switch a.transcription {
	case "local":
		write(config.EnvWhisperBin, a.whisperBin)
		write(config.EnvWhisperModel, a.whisperModel)
	case "cloud":
		write(config.EnvOpenAIAPIKey, a.openAIAPIKey)
	}

	write(config.EnvMaxHistoryMessages, a.maxHistory)

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// normalizeCSV rewrites a comma-separated list without blanks or
// surrounding whitespace.
func normalizeCSV(s string) string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return strings.Join(out, ",")
}
