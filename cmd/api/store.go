package main

import (
	"context"
	"fmt"

	"dog-adoption-search/internal/adapters/storage/memory"
	pg "dog-adoption-search/internal/adapters/storage/postgres"
	rds "dog-adoption-search/internal/adapters/storage/redis"
	"dog-adoption-search/internal/platform/config"
	"dog-adoption-search/internal/platform/logger"
	"dog-adoption-search/internal/ports/localstore"

	"github.com/spf13/cobra"
)

// openStore elige el backend de persistencia por STORAGE_BACKEND.
// Postgres corre Migrate al abrir (idempotente).
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (localstore.Store, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("storage: postgres", nil)
		return pg.NewLocalStore(db), func() { _ = db.Close() }, nil

	case config.StorageRedis:
		client := rds.NewClient(cfg.Redis)
		if err := rds.Ping(ctx, client); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("storage: redis", map[string]any{"addr": cfg.Redis.Address})
		return rds.NewLocalStore(client), func() { _ = client.Close() }, nil

	default:
		log.Info("storage: memory", nil)
		return memory.NewLocalStore(), func() {}, nil
	}
}

func runMigrate(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog := newLogger(cfg)
	defer closeLog()

	if cfg.Storage != config.StoragePostgres {
		return fmt.Errorf("migrate requires STORAGE_BACKEND=postgres (got %q)", cfg.Storage)
	}

	db, err := pg.Open(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	if err := pg.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	log.Info("migrations applied", nil)
	return nil
}
