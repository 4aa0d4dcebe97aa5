// Color Magic - coloring page voice skill server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/color-magic/internal/api"
	"github.com/ashureev/color-magic/internal/config"
	"github.com/ashureev/color-magic/internal/errorstate"
	"github.com/ashureev/color-magic/internal/handlers"
	"github.com/ashureev/color-magic/internal/imagegen"
	"github.com/ashureev/color-magic/internal/middleware"
	"github.com/ashureev/color-magic/internal/session"
	"github.com/ashureev/color-magic/internal/shared"
	"github.com/ashureev/color-magic/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	level.Set(parseLogLevel(cfg.LogLevel))

	slog.Info("Starting server", "port", cfg.Port, "skill_verification", cfg.VerifySkillID())

	// Initialize dependencies.
	repo, err := store.NewSQLiteWithRetry(cfg.DBPath, shared.RetryPolicy{
		MaxRetries: cfg.Retry.DatabaseMaxRetries,
		BaseDelay:  cfg.Retry.DatabaseRetryBaseDelay,
	})
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	var images imagegen.Generator = imagegen.Disabled{}
	if cfg.ImageGenEnabled() {
		clientCfg := imagegen.DefaultClientConfig(cfg.ImageGen.Addr)
		clientCfg.RequestTimeout = cfg.ImageGen.Timeout

		grpcClient, err := imagegen.NewGrpcClient(clientCfg, logger)
		if err != nil {
			slog.Warn("Failed to create image backend client, drawing will be unavailable", "error", err)
		} else {
			defer grpcClient.Close()
			images = grpcClient
			slog.Info("Image backend configured", "address", cfg.ImageGen.Addr)
		}
	} else {
		slog.Info("Image generation disabled (IMAGEGEN_ADDR not set)")
	}

	skillRouter := handlers.NewRouter(handlers.Deps{
		Sessions: session.NewService(repo),
		Errors:   errorstate.New(cfg.Retry.MaxOperationFailures),
		Images:   images,
		Style:    cfg.ImageGen.Style,
	}, logger)

	skillHandler := api.NewSkillHandler(skillRouter, cfg.Timeout.SkillRequest)
	healthHandler := api.NewHealthHandler(repo, cfg.Timeout.HealthCheck)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	// Public routes.
	healthHandler.RegisterHealth(r)

	// Skill endpoint.
	r.Group(func(r chi.Router) {
		r.Use(middleware.VerifySkill(cfg.SkillID, cfg.RequestMaxAge))
		skillHandler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Timeout.SkillRequest + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session.StartRetentionWorker(ctx, repo, cfg.SessionRetention)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
