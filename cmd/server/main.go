package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/server"
	"finance-tracker/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := seedAdmin(cfg, db, logger); err != nil {
		logger.Error("Failed to seed administrator", "error", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg, server.Options{DB: db, Logger: logger})
	if err != nil {
		logger.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("Server shutdown error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Server stopped gracefully")
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// seedAdmin creates the configured administrator on first start. Nothing
// happens without ADMIN_PASSWORD.
func seedAdmin(cfg *config.Config, db *database.DB, logger *slog.Logger) error {
	if cfg.Admin.Password == "" {
		return nil
	}

	hash, err := services.NewPasswordService(cfg.Security).HashPasswordWithoutValidation(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin, err := db.SeedAdminUser(cfg.Admin.Username, cfg.Admin.Email, hash)
	if err != nil {
		return err
	}
	logger.Info("Administrator ready", "username", admin.Username)
	return nil
}
