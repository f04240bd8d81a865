package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/staffroom/logbook-api/internal/config"
	"github.com/staffroom/logbook-api/internal/database"
	"github.com/staffroom/logbook-api/internal/handler"
	"github.com/staffroom/logbook-api/internal/middleware"
	"github.com/staffroom/logbook-api/internal/models"
	"github.com/staffroom/logbook-api/internal/repository"
	"github.com/staffroom/logbook-api/internal/router"
	"github.com/staffroom/logbook-api/internal/service"
	"github.com/staffroom/logbook-api/pkg/ai"
	"github.com/staffroom/logbook-api/pkg/identity"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.LogEntry{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	provider, err := identity.NewClient(identity.ClientConfig{
		APIKey:  cfg.IdentityAPIKey,
		BaseURL: cfg.IdentityBaseURL,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create identity client: %v", err)
	}

	var summarizer ai.Summarizer
	if cfg.OpenAIAPIKey != "" {
		openaiSummarizer, err := ai.NewOpenAISummarizer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create summarizer: %v", err)
		}
		summarizer = openaiSummarizer
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	logRepo := repository.NewLogRepository(db)
	userRepo := repository.NewUserRepository(db)

	logService := service.NewLogService(logRepo, validate, redisClient, natsConn, logger)
	analyticsService := service.NewAnalyticsService(logRepo, redisClient, cfg.AnalyticsCacheTTL, logger)
	exportService := service.NewExportService(logRepo, logger)
	summaryService := service.NewSummaryService(logRepo, summarizer, logger)
	authService := service.NewAuthService(provider, userRepo, redisClient, validate, cfg.JWTSecret, cfg.TokenTTL, cfg.ChallengeTTL, logger)
	profileService := service.NewProfileService(userRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, router.Dependencies{
		Config:    cfg,
		Auth:      handler.NewAuthHandler(authService, logger),
		Logs:      handler.NewLogHandler(logService, profileService, logger),
		Analytics: handler.NewAnalyticsHandler(analyticsService, logger),
		Export:    handler.NewExportHandler(exportService, logger),
		Summary:   handler.NewSummaryHandler(summaryService, logger),
		Profile:   handler.NewProfileHandler(profileService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
