// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/canyonplan/planner/internal/config"
	"github.com/canyonplan/planner/internal/storage/file"
	"github.com/canyonplan/planner/internal/storage/memory"
	sqlstore "github.com/canyonplan/planner/internal/storage/sql"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "file":
		return file.New(cfg.File), nil
	case "sql", "postgres", "sqlite":
		return sqlstore.New(cfg.SQL, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
