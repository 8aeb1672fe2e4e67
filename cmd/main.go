package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stefanciobanu13/galero/brackets"
	"github.com/stefanciobanu13/galero/config"
	"github.com/stefanciobanu13/galero/db"
	"github.com/stefanciobanu13/galero/handlers"
	"github.com/stefanciobanu13/galero/logger"
	"github.com/stefanciobanu13/galero/repositories"
	api "github.com/stefanciobanu13/galero/routes"
	"github.com/stefanciobanu13/galero/services"
	"github.com/stefanciobanu13/galero/storage"
	"go.uber.org/zap"
)

const (
	snapshotTTL     = 7 * 24 * time.Hour
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		// The logger may not be initialised yet when configuration fails.
		fmt.Fprintf(os.Stderr, "galero: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()
	log.Info("configuration loaded",
		zap.Int("port", cfg.ServerPort),
		zap.String("gateway", cfg.Gateway),
		zap.String("snapshot_backend", cfg.SnapshotBackend),
		zap.Bool("draft_mode", cfg.DraftMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, closeGateway, err := openGateway(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeGateway()

	snapshots, closeSnapshots, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSnapshots()
	log.Info("snapshot store ready", zap.String("backend", cfg.SnapshotBackend))

	wsHub := brackets.NewHub(log.Named("hub"))
	go wsHub.Run(ctx)

	session := services.NewSession(gateway, snapshots,
		services.WithDraftMode(cfg.DraftMode),
		services.WithNotifier(wsHub),
		services.WithLogger(log.Named("session")),
	)
	restored, err := session.SnapshotLoad(ctx)
	if err != nil {
		log.Warn("snapshot restore failed, starting empty", zap.Error(err))
	} else if restored {
		log.Info("edition restored from snapshot")
	}

	editionHandler := handlers.NewEditionHandler(session, log.Named("http"))
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, cfg.CORSOrigins, log.Named("ws"))

	router := chi.NewRouter()
	api.SetupRoutes(router, editionHandler, webSocketHandler, cfg.JWTSecretKey, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     zap.NewStdLog(log),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		log.Info("server stopped")
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
			if closeErr := server.Close(); closeErr != nil {
				log.Error("failed to force close server", zap.Error(closeErr))
			}
			return err
		}
		if err := session.SnapshotSave(shutdownCtx); err != nil {
			log.Warn("final snapshot save failed", zap.Error(err))
		}
		log.Info("server shutdown complete")
	}
	return nil
}

func openGateway(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.EditionGateway, func(), error) {
	switch cfg.Gateway {
	case config.GatewayREST:
		log.Info("using REST gateway", zap.String("base_url", cfg.APIBaseURL))
		return repositories.NewRESTEditionGateway(repositories.RESTGatewayConfig{
			BaseURL:   cfg.APIBaseURL,
			Token:     cfg.APIToken,
			RateLimit: cfg.APIRateLimit,
		}), func() {}, nil
	default:
		dbConn, err := db.Connect(ctx, cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := repositories.Migrate(ctx, dbConn); err != nil {
			_ = dbConn.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		log.Info("database connection established")
		return repositories.NewPostgresEditionGateway(dbConn), closeDB(dbConn, log), nil
	}
}

func closeDB(dbConn *sql.DB, log *zap.Logger) func() {
	return func() {
		if err := dbConn.Close(); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
			return
		}
		log.Info("database connection closed")
	}
}

func openSnapshotStore(ctx context.Context, cfg *config.Config) (storage.SnapshotStore, func(), error) {
	noop := func() {}
	switch cfg.SnapshotBackend {
	case config.SnapshotMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.SnapshotRedis:
		store, err := storage.NewRedisStoreFromURL(ctx, cfg.RedisURL, snapshotTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis snapshot store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case config.SnapshotR2:
		store, err := storage.NewCloudflareR2Store(ctx, storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open r2 snapshot store: %w", err)
		}
		return store, noop, nil
	default:
		store, err := storage.NewFileStore(cfg.SnapshotDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file snapshot store: %w", err)
		}
		return store, noop, nil
	}
}
