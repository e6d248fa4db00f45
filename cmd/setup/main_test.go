package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentgram/agentgram/internal/config"
)

// clearRecognizedEnv blanks every recognized variable so host machines
// cannot leak values into LoadConfig during the round-trip assertions.
func clearRecognizedEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		config.EnvTelegramToken,
		config.EnvAllowedChatIDs,
		config.EnvAllowedUsernames,
		config.EnvTranscriptionService,
		config.EnvWhisperModel,
		config.EnvWhisperBin,
		config.EnvOpenAIAPIKey,
		config.EnvMaxHistoryMessages,
		config.EnvGeminiAPIKey,
		config.EnvGeminiModel,
		config.EnvLogLevel,
		config.EnvLogFormat,
		config.EnvTempDir,
	} {
		t.Setenv(key, "")
	}
}

func TestWriteEnvFileRoundTrip(t *testing.T) {
	clearRecognizedEnv(t)

	a := answers{
		token:            "123456789:AAF-test",
		allowedChatIDs:   " 42, -100200 ",
		allowedUsernames: "alice , @Bob",
		geminiAPIKey:     "gem-key",
		geminiModel:      "gemini-2.0-flash",
		transcription:    "local",
		whisperBin:       "/usr/local/bin/whisper",
		whisperModel:     "turbo",
		maxHistory:       "25",
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := writeEnvFile(path, a); err != nil {
		t.Fatalf("writeEnvFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("generated file must load cleanly: %v", err)
	}

	if cfg.Telegram.Token != a.token {
		t.Errorf("token = %q", cfg.Telegram.Token)
	}

	wantIDs := []int64{42, -100200}
	if len(cfg.Telegram.AllowedChatIDs) != len(wantIDs) {
		t.Fatalf("chat IDs = %v, want %v", cfg.Telegram.AllowedChatIDs, wantIDs)
	}

	for i, id := range wantIDs {
		if cfg.Telegram.AllowedChatIDs[i] != id {
			t.Errorf("chat ID %d = %d, want %d", i, cfg.Telegram.AllowedChatIDs[i], id)
		}
	}

	if len(cfg.Telegram.AllowedUsernames) != 2 || cfg.Telegram.AllowedUsernames[0] != "alice" {
		t.Errorf("usernames = %v", cfg.Telegram.AllowedUsernames)
	}

	if cfg.Gemini.APIKey != "gem-key" || cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("gemini config = %+v", cfg.Gemini)
	}

	if cfg.Transcription.Service != "local" {
		t.Errorf("transcription service = %q", cfg.Transcription.Service)
	}

	if cfg.Transcription.WhisperBin != a.whisperBin || cfg.Transcription.WhisperModel != a.whisperModel {
		t.Errorf("whisper config = %+v", cfg.Transcription)
	}

	if cfg.History.MaxMessages != 25 {
		t.Errorf("max history = %d", cfg.History.MaxMessages)
	}
}

func TestWriteEnvFileOmitsUnselectedBackends(t *testing.T) {
	a := defaultAnswers()
	a.token = "123:abc"
	a.geminiAPIKey = "gem-key"
	a.openAIAPIKey = "leftover"

	path := filepath.Join(t.TempDir(), ".env")
	if err := writeEnvFile(path, a); err != nil {
		t.Fatalf("writeEnvFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	content := string(data)

	if !strings.Contains(content, config.EnvTranscriptionService+"=none\n") {
		t.Errorf("transcription service line missing:\n%s", content)
	}

	for _, key := range []string{
		config.EnvWhisperBin,
		config.EnvWhisperModel,
		config.EnvOpenAIAPIKey,
		config.EnvAllowedChatIDs,
		config.EnvAllowedUsernames,
	} {
		if strings.Contains(content, key) {
			t.Errorf("%s should be omitted:\n%s", key, content)
		}
	}
}

func TestValidators(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		check   func(string) error
		input   string
		wantErr bool
	}{
		"token ok":                {check: validateToken, input: "123456789:AAF", wantErr: false},
		"token empty":             {check: validateToken, input: "  ", wantErr: true},
		"token without colon":     {check: validateToken, input: "123456789", wantErr: true},
		"chat ids ok":             {check: validateChatIDs, input: "1, -100200,3", wantErr: false},
		"chat ids empty":          {check: validateChatIDs, input: "", wantErr: false},
		"chat ids not numeric":    {check: validateChatIDs, input: "1,oops", wantErr: true},
		"history ok":              {check: validatePositiveInt, input: "50", wantErr: false},
		"history zero":            {check: validatePositiveInt, input: "0", wantErr: true},
		"history not a number":    {check: validatePositiveInt, input: "many", wantErr: true},
		"required value present":  {check: required("field"), input: "x", wantErr: false},
		"required value missing":  {check: required("field"), input: " ", wantErr: true},
		"required reports a name": {check: required("field"), input: "", wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.check(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("input %q: err = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeCSV(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		in   string
		want string
	}{
		"trims and joins": {in: " a , b ,c ", want: "a,b,c"},
		"drops empties":   {in: "a,,b,", want: "a,b"},
		"empty input":     {in: "", want: ""},
		"only separators": {in: " , ,", want: ""},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := normalizeCSV(tc.in); got != tc.want {
				t.Errorf("normalizeCSV(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
