package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contestly/competition-hub/config"
	"github.com/contestly/competition-hub/db"
	"github.com/contestly/competition-hub/handlers"
	"github.com/contestly/competition-hub/metrics"
	"github.com/contestly/competition-hub/middleware"
	"github.com/contestly/competition-hub/realtime"
	"github.com/contestly/competition-hub/repositories"
	"github.com/contestly/competition-hub/routes"
	"github.com/contestly/competition-hub/services"
	"github.com/contestly/competition-hub/storage"
)

const sweepInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(context.Background(), dbConn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, image uploads disabled")
	}

	metrics.Register()

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("realtime hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	participationRepo := repositories.NewPostgresParticipationRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)
	achievementRepo := repositories.NewPostgresAchievementRepository(dbConn)
	savedRepo := repositories.NewPostgresSavedCompetitionRepository(dbConn)
	transactor := repositories.NewSQLTransactor(dbConn)

	achievementService := services.NewAchievementService(achievementRepo, participationRepo)
	competitionService := services.NewCompetitionService(competitionRepo, uploader)
	participationService := services.NewParticipationService(participationRepo, competitionRepo, achievementService, logger)
	submissionService := services.NewSubmissionService(submissionRepo, competitionRepo, participationRepo, hub)
	winnerService := services.NewWinnerService(transactor, competitionRepo, submissionRepo, participationRepo, submissionService, hub, logger)
	dashboardService := services.NewDashboardService(savedRepo, participationRepo, achievementRepo)
	savedService := services.NewSavedCompetitionService(savedRepo, competitionRepo)
	sweeper := services.NewSweeperService(competitionRepo, logger)
	logger.Info("services initialized")

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		logger.Info("sweeper started", slog.Duration("interval", sweepInterval))

		if err := sweeper.Sweep(context.Background()); err != nil {
			logger.Error("sweeper: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := sweeper.Sweep(context.Background()); err != nil {
				logger.Error("sweeper: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, userRepo, logger)

	router := routes.InitRoutes(routes.Handlers{
		Competition:   handlers.NewCompetitionHandler(competitionService),
		Participation: handlers.NewParticipationHandler(participationService),
		Submission:    handlers.NewSubmissionHandler(submissionService),
		Winner:        handlers.NewWinnerHandler(winnerService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService),
		Saved:         handlers.NewSavedCompetitionHandler(savedService),
		WebSocket:     handlers.NewWebSocketHandler(hub, authenticator, logger),
	}, authenticator)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
