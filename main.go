package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/reviewbot/internal/bot"
	"github.com/example/reviewbot/internal/config"
	"github.com/example/reviewbot/internal/logger"
	"github.com/example/reviewbot/internal/review"
	"github.com/example/reviewbot/internal/scheduler"
	"github.com/example/reviewbot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("bot stopped with error", "error", err)
	}
	log.Info("bot stopped successfully")
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := review.New(ctx, store,
		review.WithLocation(cfg.Location()),
		review.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to load review data: %w", err)
	}

	b, err := bot.New(cfg.TelegramToken, engine, log)
	if err != nil {
		return err
	}
	defer b.Stop()

	s := scheduler.New(engine, b, scheduler.Config{
		Interval:  cfg.ReminderInterval,
		StartHour: cfg.NotificationStartHour,
		EndHour:   cfg.NotificationEndHour,
		Location:  cfg.Location(),
	}, log)
	b.SetReminder(s)
	if cfg.SchedulerEnabled {
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer s.Stop()
	}

	log.Info("bot started, press Ctrl+C to stop", "storage", cfg.StorageDriver)
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
