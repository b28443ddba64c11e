// Package factory builds a storage.Storage from configuration. It is
// the only place that knows about concrete engines; everything above it
// depends on the contract alone.
package factory

import (
	"context"
	"fmt"
	"time"

	"cmstore/internal/config"
	"cmstore/internal/database"
	"cmstore/internal/database/migration"
	"cmstore/internal/lock"
	"cmstore/internal/objstore"
	"cmstore/internal/storage"
	"cmstore/internal/storage/jsonstore"
	"cmstore/internal/storage/postgres"
)

// New selects and constructs the storage engine named by
// cfg.Storage.Type: "postgres", "json" or "memory". Construction is
// fail-fast — missing credentials or an unreachable backend surface
// here, not on first use.
func New(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Type {
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("postgres engine: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres engine: %w", err)
		}
		return postgres.New(db), nil

	case "json":
		client, err := objstore.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("json engine: %w", err)
		}
		return jsonstore.New(client, lockManager(cfg)), nil

	case "memory":
		// Map-backed engine for tests and local development; nothing
		// survives a restart.
		return jsonstore.New(objstore.NewMemory(), lockManager(cfg)), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q (want postgres, json or memory)", cfg.Storage.Type)
	}
}

func lockManager(cfg *config.AppConfig) *lock.Manager {
	var opts []lock.Option
	if cfg.Storage.LockWaitTimeoutSec > 0 {
		opts = append(opts, lock.WithTimeout(time.Duration(cfg.Storage.LockWaitTimeoutSec)*time.Second))
	}
	return lock.NewManager(opts...)
}
