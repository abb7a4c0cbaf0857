package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"propertyhub/server/config"
	"propertyhub/server/internal/api"
	"propertyhub/server/internal/auth"
	"propertyhub/server/internal/database"
	"propertyhub/server/internal/notify"
	"propertyhub/server/internal/upload"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	rootCmd := &cobra.Command{
		Use:   "propertyhub",
		Short: "Property listing site with admin management",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(logger)
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(logger)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the tables and indexes of the configured database",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate(cmd.Context(), logger)
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("Command failed")
	}
}

func loadConfig(logger *logrus.Logger) *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return cfg
}

func migrate(ctx context.Context, logger *logrus.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := loadConfig(logger)

	store, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close(context.Background())

	logger.Info("Running database migrations...")
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations completed")
	return nil
}

func newUploadStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (upload.Storage, error) {
	if cfg.Uploads.Driver == "s3" {
		s3cfg := cfg.Uploads.S3
		return upload.NewS3Storage(ctx, upload.S3Config{
			Bucket:       s3cfg.Bucket,
			Region:       s3cfg.Region,
			Endpoint:     s3cfg.Endpoint,
			AccessKey:    s3cfg.AccessKey,
			SecretKey:    s3cfg.SecretKey,
			UsePathStyle: s3cfg.UsePathStyle,
		}, upload.WithS3Logger(logger), upload.WithKeyPrefix(s3cfg.KeyPrefix))
	}
	return upload.NewLocalStorage(cfg.Uploads.Dir)
}

func newSessionStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (auth.SessionStore, func(), error) {
	if cfg.Auth.RedisURL != "" {
		client, err := auth.NewRedisClient(cfg.Auth.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Sessions stored in Redis")
		return auth.NewRedisStore(client), func() { _ = client.Close() }, nil
	}

	store := auth.NewMemoryStore()
	go store.RunCleanup(ctx, 10*time.Minute)
	logger.Warn("REDIS_URL not set, sessions are kept in memory and lost on restart")
	return store, func() {}, nil
}

func serve(logger *logrus.Logger) error {
	cfg := loadConfig(logger)
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}()

	logger.Info("Running database migrations...")
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	storage, err := newUploadStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}
	uploader := upload.NewUploader(storage, cfg.Uploads.MaxFileSize, logger)

	sessionStore, closeSessions, err := newSessionStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer closeSessions()

	sessions := auth.NewSessionManager(sessionStore, cfg.Auth.SessionTTL, cfg.Auth.CookieSecure, logger)
	gate, err := auth.NewGate(cfg.Auth.AdminCode, cfg.Auth.AdminCodeHash, sessions)
	if err != nil {
		return fmt.Errorf("failed to initialize admin gate: %w", err)
	}

	handler := api.NewHandler(store, uploader, gate, sessions, logger)
	if telegram := notify.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger); telegram.Enabled() {
		handler.SetNotifier(telegram)
		logger.Info("Lead notifications enabled")
	}

	router, err := api.NewRouter(ctx, handler, api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		VerifyRateLimit: cfg.Auth.VerifyRateLimit,
		PublicDir:       cfg.Server.PublicDir,
		ImagesDir:       cfg.Server.ImagesDir,
		IconsDir:        cfg.Server.IconsDir,
		RerasDir:        cfg.Server.RerasDir,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}
