// Package infrastructure provides core service initialization for application startup.
// It assembles the shared systems (logging, record store connections, cache, blob storage)
// that domain systems require, creating only those the configuration selects.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/pkg/cache"
	"github.com/JaimeStill/gallery/pkg/database"
	"github.com/JaimeStill/gallery/pkg/lifecycle"
	"github.com/JaimeStill/gallery/pkg/mongodb"
	"github.com/JaimeStill/gallery/pkg/storage"
)

// Infrastructure holds the core systems required by domain modules.
// Database, Mongo, Cache, and Storage are nil when their backend is not in use.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Mongo     mongodb.System
	Cache     cache.System
	Storage   storage.System
}

// New creates an Infrastructure from the application configuration.
// It initializes the selected systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := cfg.Logging.NewLogger(os.Stderr)

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	case config.DriverMongo:
		mdb, err := mongodb.New(&cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("mongo init failed: %w", err)
		}
		infra.Mongo = mdb
	}

	if cfg.Cache.Enabled() {
		infra.Cache = cache.New(&cfg.Cache, logger)
	}

	if cfg.UsesBlobStorage() {
		store, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	}

	return infra, nil
}

// Start registers all present infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database != nil {
		if err := i.Database.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("database start failed: %w", err)
		}
		i.Lifecycle.Track(i.Database)
	}
	if i.Mongo != nil {
		if err := i.Mongo.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("mongo start failed: %w", err)
		}
		i.Lifecycle.Track(i.Mongo)
	}
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}

// Ready reports whether startup has completed and the record store is reachable.
func (i *Infrastructure) Ready() bool {
	return i.Lifecycle.Ready()
}
