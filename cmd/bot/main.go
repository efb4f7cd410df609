package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"todolist/core/config"
	"todolist/core/database"
	"todolist/core/logger"
	"todolist/internal/bot"
	"todolist/internal/storage"
	"todolist/internal/tg"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("bot: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() { _ = logger.Shutdown() }()

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	client, err := tg.NewBotClient(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	logger.TG.Info("authorized",
		slog.String("event", "tg.auth"),
		slog.String("username", client.Self()),
	)

	store := storage.NewSQLStore(db)
	handler := bot.NewHandler(
		client,
		storage.NewTgUsers(db),
		storage.NewChatStates(db),
		store,
		logger.BOT,
	)
	poller := bot.NewPoller(client, handler, cfg.Telegram.LongPollTimeoutSeconds, logger.BOT)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.L.Info("bot stopped", slog.String("event", "shutdown"))
	return nil
}
