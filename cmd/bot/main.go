package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/study-review-bot/internal/config"
	"github.com/aliskhannn/study-review-bot/internal/delivery/telegram"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres"
	"github.com/aliskhannn/study-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/study-review-bot/internal/logger"
	"github.com/aliskhannn/study-review-bot/internal/service"
	"github.com/aliskhannn/study-review-bot/internal/srs"
)

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "log", Description: "Log a study session"},
	{Command: "review", Description: "Topics due today"},
	{Command: "upcoming", Description: "Next topics to review"},
	{Command: "topic", Description: "Review schedule of a topic"},
	{Command: "forget", Description: "Stop reviewing a topic"},
	{Command: "progress", Description: "Review statistics"},
	{Command: "vacation", Description: "Toggle vacation mode"},
	{Command: "limit", Description: "Topics per review session"},
	{Command: "timezone", Description: "Set your timezone"},
	{Command: "digest", Description: "Toggle the daily digest"},
	{Command: "reset", Description: "Delete all review data"},
	{Command: "help", Description: "Help"},
}

func main() {
	// A missing .env file is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("database is not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	scheduler, err := srs.NewScheduler(cfg.Review.Thresholds())
	if err != nil {
		lg.Fatal("invalid review thresholds", zap.Error(err))
	}

	// Initialize repositories.
	transactor := postgres.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	reviewRepo := repository.NewReviewStateRepository(pool)
	sessionRepo := repository.NewStudySessionRepository(pool)

	// Initialize services.
	userService := service.NewUserService(userRepo, settingsRepo, transactor, lg)
	settingsService := service.NewSettingsService(settingsRepo)
	reviewService := service.NewReviewService(reviewRepo, settingsRepo, transactor, scheduler, lg)
	sessionService := service.NewSessionService(sessionRepo, reviewService, transactor, cfg.Session.MinDuration, lg)
	resetService := service.NewResetService(repository.NewResetRepository(pool), transactor, lg)
	reminderService := service.NewReminderService(settingsRepo, reviewService, service.ReminderConfig{
		Spec:       cfg.Reminders.Cron,
		DigestHour: cfg.Reminders.DigestHour,
	}, lg)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}
	bot.Debug = cfg.Env != "production"

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	handler := telegram.NewHandler(bot, lg, userService, reviewService, sessionService, settingsService, resetService)
	reminderService.SetNotifier(handler)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(ctx) })
	g.Go(func() error { return reminderService.Start(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("bot stopped with error", zap.Error(err))
		return
	}

	lg.Info("shutdown complete")
}
