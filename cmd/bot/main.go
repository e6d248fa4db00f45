// Package main contains the entrypoint for the agentgram Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/agentgram/agentgram/internal/access"
	"github.com/agentgram/agentgram/internal/bot"
	"github.com/agentgram/agentgram/internal/bot/handlers"
	"github.com/agentgram/agentgram/internal/bot/tasks"
	"github.com/agentgram/agentgram/internal/config"
	"github.com/agentgram/agentgram/internal/gemini"
	"github.com/agentgram/agentgram/internal/history"
	"github.com/agentgram/agentgram/internal/logger"
	"github.com/agentgram/agentgram/internal/telegram"
	"github.com/agentgram/agentgram/internal/tempfile"
	"github.com/agentgram/agentgram/internal/transcribe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// access filter, history, transcription, AI client, bot, scheduler),
// handles graceful shutdown, and returns an exit code (0 for success,
// 1 for failure).
func run(ctx context.Context) int {
	envFile := flag.String("env", "./.env", "Path to the environment file")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *envFile, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format == "json")
	log.Info("Logger initialized", "level", cfg.Logger.Level, "format", cfg.Logger.Format)

	filter := access.NewFilter(cfg.Telegram.AllowedChatIDs, cfg.Telegram.AllowedUsernames)
	if filter.Open() {
		log.Warn("Both allow-lists are empty, the bot will respond to anyone")
	}

	store := history.NewStore(cfg.History.MaxMessages, nil)

	transcriber, err := transcribe.New(cfg.Transcription.Service, cfg.Transcription.WhisperBin, cfg.Transcription.WhisperModel, log)
	if err != nil {
		log.Error("Failed to initialize transcription service", "service", cfg.Transcription.Service, "error", err)
		return 1
	}

	files, err := tempfile.NewManager(cfg.TempDir, log)
	if err != nil {
		log.Error("Failed to prepare temp directory", "dir", cfg.TempDir, "error", err)
		return 1
	}

	agentClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:      log,
		Config:      cfg,
		Agent:       agentClient,
		History:     store,
		Access:      filter,
		Transcriber: transcriber,
		Files:       files,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Config: cfg,
		Files:  files,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log), handlers.Authorized(hDeps)),
		tgbot.WithDefaultHandler(handlers.NewChatHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Retrieve bot info and store it in the config for runtime use
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
