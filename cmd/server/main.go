package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prajwal-kadam12/reqgen/internal/api"
	"github.com/prajwal-kadam12/reqgen/internal/api/handlers"
	"github.com/prajwal-kadam12/reqgen/internal/config"
	"github.com/prajwal-kadam12/reqgen/internal/db"
	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"github.com/prajwal-kadam12/reqgen/internal/services"
	"github.com/prajwal-kadam12/reqgen/internal/store"
	"github.com/prajwal-kadam12/reqgen/internal/utils"
	"github.com/prajwal-kadam12/reqgen/pkg/logger"
	"github.com/prajwal-kadam12/reqgen/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	zapLogger, err := logger.NewLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	config.LogConfig(cfg, zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	gormStore := store.NewGormStore(database)

	if err := seedUsers(context.Background(), gormStore, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed users", zap.Error(err))
	}

	metricsCollector := metrics.NewMetricsCollector()

	renderer := services.NewChromeRenderer(cfg.PDF.ExecPath, zapLogger)
	sender := services.NewSMTPSender(cfg.SMTP, zapLogger)
	transcoder := services.NewFFmpegTranscoder(cfg.ASR.FFmpegPath, zapLogger)
	asrClient := services.NewASRClient(cfg.ASR.URL, cfg.ASR.Timeout, zapLogger)
	pythonProxy := services.NewPythonProxy(cfg.Python.BaseURL, cfg.Python.Timeout, zapLogger)

	router := api.NewRouter(
		zapLogger,
		metricsCollector,
		handlers.NewAuthHandler(gormStore, zapLogger),
		handlers.NewDocumentHandler(gormStore.Documents(), gormStore.Notifications(), zapLogger, metricsCollector),
		handlers.NewSettingsHandler(gormStore.Settings(), zapLogger),
		handlers.NewNotificationHandler(gormStore.Notifications(), zapLogger),
		handlers.NewPDFHandler(renderer, sender, zapLogger, metricsCollector),
		handlers.NewTranscribeHandler(transcoder, asrClient, cfg.ASR.DefaultLanguage, zapLogger, metricsCollector),
		handlers.NewProxyHandler(pythonProxy, zapLogger),
	)
	router.SetupRoutes()

	go func() {
		if err := router.Run(":" + cfg.Server.Port); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server gracefully stopped")
}

// seedUsers creates the initial logins when the table is empty. Passwords
// come from SEED_*_PASSWORD environment variables with development
// fallbacks.
func seedUsers(ctx context.Context, users store.UserStore, logger *zap.Logger) error {
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Users already seeded, skipping")
		return nil
	}

	seeds := []struct {
		email    string
		name     string
		role     models.UserRole
		envKey   string
		fallback string
	}{
		{"admin@reqgen.app", "Admin", models.RoleAdmin, "SEED_ADMIN_PASSWORD", "admin123"},
		{"analyst@reqgen.app", "Analyst", models.RoleAnalyst, "SEED_ANALYST_PASSWORD", "analyst123"},
		{"client@reqgen.app", "Client", models.RoleClient, "SEED_CLIENT_PASSWORD", "client123"},
	}

	for _, s := range seeds {
		password := os.Getenv(s.envKey)
		if password == "" {
			password = s.fallback
			logger.Warn("Using default seed password", zap.String("email", s.email))
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		user := &models.User{
			Email:        s.email,
			PasswordHash: hash,
			Role:         s.role,
			Name:         s.name,
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		logger.Info("Seeded user", zap.String("email", s.email), zap.String("role", string(s.role)))
	}
	return nil
}
