// Package store provides storage backend initialization for the forecaster.
//
// It acts as a factory for storage.Store implementations based on the
// forecaster configuration:
//
//   - Memory: in-process storage (default), for single-instance runs.
//     Data is lost on restart.
//
//   - Redis: shared storage for multi-instance or restart-surviving
//     deployments. Connectivity is verified during startup and the process
//     exits immediately if the backend is unavailable.
package store

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/epiforge/epicurve/cmd/forecaster/config"
	"github.com/epiforge/epicurve/pkg/storage"
)

// New creates and initializes a storage backend based on the configuration.
// Never returns nil; calls os.Exit(1) on initialization failure.
func New(cfg *config.Config, logger *slog.Logger) storage.Store {
	switch cfg.Storage {
	case "redis":
		logger.Info("initializing redis storage",
			"addr", cfg.RedisAddr,
			"db", cfg.RedisDB,
			"ttl", cfg.RedisTTL,
		)
		redisStore, err := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			logger.Error("redis health check failed", "error", err)
			os.Exit(1)
		}
		logger.Info("redis storage initialized")

		return redisStore

	case "memory":
		logger.Info("initializing in-memory storage")
		return storage.NewMemoryStore()

	default:
		logger.Error("invalid storage type", "storage", cfg.Storage)
		os.Exit(1)
	}

	return nil
}
