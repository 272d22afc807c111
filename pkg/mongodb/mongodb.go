// Package mongodb provides MongoDB client management with lifecycle coordination.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/JaimeStill/gallery/pkg/lifecycle"
)

// System manages a MongoDB client and lifecycle coordination.
type System interface {
	// Database returns the configured database handle.
	Database() *mongo.Database
	// Ready reports whether the startup ping succeeded.
	Ready() bool
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type client struct {
	client      *mongo.Client
	database    string
	connTimeout time.Duration
	logger      *slog.Logger
	ready       atomic.Bool
}

// New creates a MongoDB system from cfg. The driver connects lazily,
// so no server round trip happens until Start or the first operation.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnTimeoutDuration())

	c, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	return &client{
		client:      c,
		database:    cfg.Database,
		connTimeout: cfg.ConnTimeoutDuration(),
		logger:      logger.With("system", "mongodb"),
	}, nil
}

func (c *client) Database() *mongo.Database {
	return c.client.Database(c.database)
}

func (c *client) Ready() bool {
	return c.ready.Load()
}

func (c *client) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting mongo connection")

	lc.OnStartup(func() {
		pingCtx, cancel := context.WithTimeout(lc.Context(), c.connTimeout)
		defer cancel()

		if err := c.client.Ping(pingCtx, readpref.Primary()); err != nil {
			c.logger.Error("mongo ping failed", "error", err)
			return
		}

		c.ready.Store(true)
		c.logger.Info("mongo connection established", "database", c.database)
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.ready.Store(false)
		c.logger.Info("closing mongo connection")

		ctx, cancel := context.WithTimeout(context.Background(), c.connTimeout)
		defer cancel()

		if err := c.client.Disconnect(ctx); err != nil {
			c.logger.Error("mongo disconnect failed", "error", err)
			return
		}

		c.logger.Info("mongo connection closed")
	})

	return nil
}
