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

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/config"
	"github.com/Dosada05/tournament-manager/db"
	_ "github.com/Dosada05/tournament-manager/docs"
	"github.com/Dosada05/tournament-manager/handlers"
	"github.com/Dosada05/tournament-manager/repositories"
	api "github.com/Dosada05/tournament-manager/routes"
	"github.com/Dosada05/tournament-manager/services"
	"github.com/Dosada05/tournament-manager/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-co-op/gocron/v2"
	_ "github.com/lib/pq"
)

// @title Tournament Manager API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), cfg.DBConnectTimeout)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply schema", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema ready")

	var archiveUploader storage.FileUploader
	r2Cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Cfg.Complete() {
		archiveUploader, err = storage.NewCloudflareR2Uploader(context.Background(), r2Cfg)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 settings incomplete, final tournament archives disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	defer wsHub.Stop()
	logger.Info("WebSocket Hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)

	sessions := services.NewSessionStore(brackets.DefaultShuffler{})

	tournamentService := services.NewTournamentService(tournamentRepo, teamRepo, standingRepo, fixtureRepo, logger)
	leagueService := services.NewLeagueService(
		dbConn,
		sessions,
		tournamentRepo,
		teamRepo,
		roundRepo,
		fixtureRepo,
		wsHub,
		logger,
	)
	bracketService := services.NewBracketService(
		dbConn,
		sessions,
		tournamentRepo,
		teamRepo,
		fixtureRepo,
		standingRepo,
		archiveUploader,
		wsHub,
		logger,
	)
	logger.Info("Services initialized")

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.SessionSweepInterval),
		gocron.NewTask(func() {
			if evicted := sessions.EvictIdle(cfg.SessionIdleTTL); evicted > 0 {
				logger.Info("idle sessions evicted", slog.Int("count", evicted), slog.Int("remaining", sessions.Len()))
			}
		}),
	)
	if err != nil {
		logger.Error("failed to schedule session sweeper", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to stop scheduler", slog.Any("error", err))
		}
	}()
	logger.Info("session sweeper scheduled",
		slog.Duration("interval", cfg.SessionSweepInterval),
		slog.Duration("idle_ttl", cfg.SessionIdleTTL))

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Tournament: handlers.NewTournamentHandler(tournamentService),
		Team:       handlers.NewTeamHandler(leagueService),
		League:     handlers.NewLeagueHandler(leagueService),
		Bracket:    handlers.NewBracketHandler(bracketService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, logger),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})
	logger.Info("Routes configured")

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
			return
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
			return
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
