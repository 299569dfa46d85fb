// Package backend opens the blob store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"cashflow/internal/storage"
	"cashflow/internal/storage/memory"
	"cashflow/internal/storage/mongo"
)

// Open validates cfg and returns the matching BlobStore. The caller owns Close.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (storage.BlobStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil

	case MongoBackend:
		store, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB store: %w", err)
		}
		logger.Info("Initialized MongoDB backend", "database", cfg.MongoDB)
		return store, nil

	case MemoryBackend:
		var store *memory.Store
		if cfg.SeedFile != "" {
			store = memory.NewFromFile(cfg.SeedFile)
		} else {
			store = memory.New()
		}
		logger.Info("Initialized memory backend", "seed_file", cfg.SeedFile)
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
