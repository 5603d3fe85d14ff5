package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"redwatch/internal/bookmark"
	"redwatch/internal/config"
	"redwatch/internal/health"
	"redwatch/internal/metrics"
	"redwatch/internal/model"
	"redwatch/internal/notify"
	"redwatch/internal/scheduler"
	"redwatch/internal/search"
	"redwatch/internal/storage"
)

func main() {
	configPath := flag.String("config", envOrDefault("REDWATCH_CONFIG", "./config.yaml"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	book, err := bookmark.Load(ctx, store, cfg.BookmarkCapacity)
	if err != nil {
		log.Error("load bookmark", "error", err)
		os.Exit(1)
	}
	if last, ok := book.Last(); ok {
		log.Info("resuming from bookmark", "tweet_id", last)
	}

	notifier, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, log)
	if err != nil {
		log.Error("create notifier", "error", err)
		os.Exit(1)
	}

	accounts := make([]model.Account, len(cfg.Accounts))
	for i, a := range cfg.Accounts {
		accounts[i] = model.Account{Name: a.Name, BearerToken: a.BearerToken, Contact: a.Contact}
	}
	tracker := health.NewTracker(accounts, cfg.FailureThreshold)

	metrics.StartServer(cfg.MetricsAddr, log)

	sched := scheduler.New(cfg.Query, cfg.PollingInterval(), tracker,
		search.New(http.DefaultClient), notifier, book, store, log)

	log.Info("starting watcher",
		"query", cfg.Query,
		"accounts", len(cfg.Accounts),
		"interval", cfg.PollingInterval())

	if err := sched.Run(ctx); err != nil {
		if errors.Is(err, scheduler.ErrAllAccountsDisabled) {
			log.Error("all accounts disabled, exiting")
			os.Exit(1)
		}
		log.Error("scheduler stopped", "error", err)
		os.Exit(1)
	}

	log.Info("watcher stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
