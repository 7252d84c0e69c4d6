// Package storage persists the whole review dataset.
//
// Every backend loads and saves the complete models.Dataset at once. A missing
// or empty backing store loads as an empty dataset, and Save replaces prior
// contents atomically: a failed or interrupted save leaves the previous
// dataset in place.
package storage

import (
	"context"
	"fmt"

	"github.com/example/reviewbot/internal/config"
	"github.com/example/reviewbot/internal/logger"
	"github.com/example/reviewbot/pkg/models"
)

// Store is a durable mapping from user identifier to user state.
type Store interface {
	Load(ctx context.Context) (models.Dataset, error)
	Save(ctx context.Context, data models.Dataset) error
	Close() error
}

// Open returns the backend selected by cfg.StorageDriver.
func Open(cfg *config.Config, log *logger.Logger) (Store, error) {
	switch cfg.StorageDriver {
	case config.DriverJSON:
		return NewJSONStore(cfg.DataFile, log), nil
	case config.DriverSQLite, config.DriverPostgres:
		return OpenSQL(cfg.StorageDriver, cfg.DatabaseDSN, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
