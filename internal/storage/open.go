package storage

import (
	"fmt"

	"taskboard/internal/config"
	"taskboard/internal/logging"
)

// Open returns the Store selected by cfg.Storage.Backend.
func Open(cfg *config.Config, log *logging.Logger) (Store, error) {
	switch cfg.Storage.Backend {
	case "", config.BackendFile:
		return NewFileStore(cfg.GetDataDir(), log)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLiteFile())
	case config.BackendRedis:
		return NewRedisStore(RedisOptions{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
			Prefix:   cfg.Storage.KeyPrefix,
		})
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
