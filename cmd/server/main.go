package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/fieldworks/diary-service/internal/app"
	"github.com/fieldworks/diary-service/internal/config"
	"github.com/fieldworks/diary-service/internal/controller"
	"github.com/fieldworks/diary-service/internal/controller/handlers"
	"github.com/fieldworks/diary-service/internal/events"
	"github.com/fieldworks/diary-service/internal/notify"
	"github.com/fieldworks/diary-service/internal/repository"
	"github.com/fieldworks/diary-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to rabbitmq", zap.Error(err))
		}
		defer publisher.Close()
	}

	var notifier *notify.TelegramNotifier
	if cfg.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
	}

	bookingRepo := repository.NewBookingRepository(pool)
	engineerRepo := repository.NewEngineerRepository(pool)

	diaryService := service.NewDiaryService(bookingRepo, engineerRepo, publisher, notifier, logger)
	rosterService := service.NewRosterService(engineerRepo)

	router := controller.NewRouter(
		handlers.NewDiaryHandler(diaryService),
		handlers.NewEngineerHandler(rosterService),
		handlers.NewReportHandler(diaryService, rosterService),
		logger,
	)

	logger.Info("Starting diary service",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
	)

	server := app.NewServer(cfg.HTTPAddr, router, logger)
	if err := server.Run(ctx); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
