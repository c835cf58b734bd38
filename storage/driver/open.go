// Package driver opens the Store selected by STORE_DRIVER.
package driver

import (
	"context"
	"fmt"

	"paper-search/config"
	"paper-search/storage"
	"paper-search/storage/memory"
	"paper-search/storage/mongostore"
	"paper-search/storage/pgstore"

	"go.uber.org/zap"
)

func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		log.Info("Connecting to MongoDB",
			zap.String("host", cfg.MongoHost),
			zap.Int("port", cfg.MongoPort),
			zap.String("database", cfg.MongoDatabase),
			zap.String("collection", cfg.MongoCollection))
		s, err := mongostore.Open(ctx, cfg.MongoURI(), cfg.MongoDatabase, cfg.MongoCollection, cfg.MongoTimeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		log.Info("Connecting to PostgreSQL",
			zap.String("host", cfg.DBHost),
			zap.String("database", cfg.DBName),
			zap.String("table", cfg.DBTable))
		s, err := pgstore.Open(cfg.DSN(), cfg.DBTable)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		if cfg.MemorySeedFile == "" {
			log.Warn("Memory store without seed file, collection is empty")
			return memory.New(), nil
		}
		log.Info("Loading memory store", zap.String("file", cfg.MemorySeedFile))
		s, err := memory.Open(cfg.MemorySeedFile)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, cfg.StoreDriver)
	}
}
