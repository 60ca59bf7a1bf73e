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

	"github.com/smartcampus/copilot/internal/auth"
	"github.com/smartcampus/copilot/internal/chat"
	"github.com/smartcampus/copilot/internal/schedule"
	"github.com/smartcampus/copilot/internal/server"
	"github.com/smartcampus/copilot/internal/storage"
	"github.com/smartcampus/copilot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Store
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		memStore := storage.NewMemoryStore()
		if cfg.Server.CatalogFile != "" {
			catalog, err := storage.LoadCatalogFile(cfg.Server.CatalogFile)
			if err != nil {
				logger.Fatal("Failed to load catalog", zap.Error(err), zap.String("path", cfg.Server.CatalogFile))
			}
			memStore.SetCatalog(catalog)
		}
		store = memStore
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStore(dbConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize engines
	planner := schedule.NewService(store, logger)

	var assistant *chat.Assistant
	if cfg.OpenAI.APIKey != "" {
		assistant = chat.NewAssistant(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
	}
	router := chat.NewRouter(store, planner, assistant, logger)

	authManager := auth.NewManager(cfg.Server.JWTSecret, time.Duration(cfg.Server.TokenTTLHours)*time.Hour)
	srv := server.New(store, planner, router, authManager, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
