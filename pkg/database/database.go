// Package database manages the PostgreSQL pool behind the postgres record
// store and ties it to the application lifecycle.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/gallery/pkg/lifecycle"
)

const maxPingBackoff = time.Second

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying pool.
	Connection() *sql.DB
	// Ready reports whether the startup ping succeeded.
	Ready() bool
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	logger      *slog.Logger
	connTimeout time.Duration
	ready       atomic.Bool
}

// New parses the DSN and sizes the pool. No connection is made until Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	connCfg, err := pgx.ParseConfig(cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		logger:      logger.With("system", "database", "host", connCfg.Host, "database", connCfg.Database),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Ready() bool {
	return d.ready.Load()
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		attempts, err := d.ping(ctx)
		if err != nil {
			d.logger.Error("database unreachable", "attempts", attempts, "error", err)
			return
		}

		d.ready.Store(true)
		d.logger.Info("database connection established", "attempts", attempts)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.ready.Store(false)

		stats := d.conn.Stats()
		d.logger.Info("closing database connection", "open", stats.OpenConnections, "in_use", stats.InUse)

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
		}
	})

	return nil
}

// ping retries with doubling backoff until the server answers or ctx ends,
// so the server can start alongside a database that is still booting.
func (d *database) ping(ctx context.Context) (int, error) {
	backoff := 100 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err := d.conn.PingContext(ctx)
		if err == nil {
			return attempt, nil
		}
		d.logger.Debug("database ping failed", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return attempt, err
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxPingBackoff)
	}
}
