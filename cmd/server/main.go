package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dom/combat-tracker/internal/api"
	"github.com/dom/combat-tracker/internal/config"
	"github.com/dom/combat-tracker/internal/logging"
	"github.com/dom/combat-tracker/internal/repository"
	"github.com/dom/combat-tracker/internal/repository/memory"
	"github.com/dom/combat-tracker/internal/repository/postgres"
	"github.com/dom/combat-tracker/internal/repository/sqlite"
	"github.com/dom/combat-tracker/internal/service"
	"github.com/dom/combat-tracker/internal/websocket"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	repos, closeStore, err := newRepositories(cfg)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	// Initialize WebSocket hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, hub)

	// Initialize router
	router := api.NewRouter(services, hub, cfg, logger.Named("http"))

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	hub.Stop()

	logger.Info("server stopped")
}

// newRepositories opens the configured store. The returned func releases it.
func newRepositories(cfg *config.Config) (*repository.Repositories, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return postgres.NewRepositories(db), closeDB, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewRepositories(store), func() { store.Close() }, nil
	default:
		return memory.NewRepositories(), func() {}, nil
	}
}
