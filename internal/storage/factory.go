package storage

import (
	"fmt"
	"log/slog"

	"github.com/mapbridge/mapbridge/internal/config"
	"github.com/mapbridge/mapbridge/internal/database"
	"github.com/mapbridge/mapbridge/internal/storage/gormstore"
	"github.com/mapbridge/mapbridge/internal/storage/memory"
	"github.com/rs/zerolog"
)

// Dependencies carries the loggers the backends write to.
type Dependencies struct {
	Logger   *slog.Logger
	DBLogger zerolog.Logger
}

// NewBackend creates a journal backend based on configuration. The
// returned backend has not been initialized.
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case "none":
		return Nop{}, nil
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		db, err := database.OpenSqlite(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite journal: %w", err)
		}
		return gormstore.NewSQLite(db, cfg.SQLite, deps.Logger), nil
	case "postgres":
		mgr := database.NewManager(deps.DBLogger)
		if err := mgr.Connect(cfg); err != nil {
			return nil, err
		}
		if mgr.ShouldSaveLocal {
			return gormstore.NewSQLite(mgr.DB, cfg.SQLite, deps.Logger), nil
		}
		return gormstore.New(gormstore.Dependencies{DB: mgr.DB, Logger: deps.Logger}), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
