package main

import (
	"github.com/smartcampus/copilot/internal/chat"
	"github.com/smartcampus/copilot/internal/schedule"
	"github.com/smartcampus/copilot/internal/storage"
	"github.com/smartcampus/copilot/internal/telegram"
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

	// Initialize bot
	b, err := telegram.New(cfg.Telegram.Token, router, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
