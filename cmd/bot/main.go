package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/guberm/SimpleFinTelegramBot/internal/bot"
	"github.com/guberm/SimpleFinTelegramBot/internal/config"
	"github.com/guberm/SimpleFinTelegramBot/internal/db"
	"github.com/guberm/SimpleFinTelegramBot/internal/repository"
	"github.com/guberm/SimpleFinTelegramBot/internal/service"
	"github.com/guberm/SimpleFinTelegramBot/internal/simplefin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	if !cfg.BotTokenConfigured() {
		logger.Error("please configure a valid Telegram bot token: " +
			"get one from @BotFather and set it in config.json or the TELEGRAM_BOT_TOKEN environment variable")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	repo := repository.NewLinkRepository(database)
	client := simplefin.NewClient(cfg.SimpleFIN.RequestTimeout, logger)
	links := service.NewLinkService(repo, client, client, logger)

	b, err := bot.New(cfg, links, logger)
	if err != nil {
		logger.Error("failed to start bot", "error", err)
		os.Exit(1)
	}

	logger.Info("bot started")
	b.Run(ctx)
	logger.Info("bot stopped")
}
