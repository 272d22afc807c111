package prompts

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/JaimeStill/gallery/pkg/cache"
	"github.com/JaimeStill/gallery/pkg/pagination"
)

const cacheKeyPrefix = "prompts:"

type cached struct {
	System
	cache      cache.System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewCached wraps sys so that Find reads through c. Update and Delete
// invalidate the cached record before and after the write, and a fill
// started before an invalidation is discarded. Cache failures behave as misses.
func NewCached(
	sys System,
	c cache.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &cached{
		System:     sys,
		cache:      c,
		logger:     logger.With("system", "prompts", "decorator", "cache"),
		pagination: pagination,
	}
}

func (c *cached) Handler() *Handler {
	return NewHandler(c, c.logger, c.pagination)
}

func (c *cached) Find(ctx context.Context, id string) (*Prompt, error) {
	key := cacheKeyPrefix + id

	if data, ok := c.cache.Get(ctx, key); ok {
		var p Prompt
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		c.logger.Warn("discarding undecodable cache entry", "id", id)
	}

	gen, fillable := c.cache.Generation(ctx, key)

	p, err := c.System.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !fillable {
		return p, nil
	}
	if data, err := json.Marshal(p); err == nil {
		c.cache.SetAt(ctx, key, data, gen)
	}
	return p, nil
}

func (c *cached) Update(ctx context.Context, id string, cmd Command) (*Prompt, error) {
	key := cacheKeyPrefix + id
	c.cache.Invalidate(ctx, key)
	defer c.cache.Invalidate(ctx, key)

	return c.System.Update(ctx, id, cmd)
}

func (c *cached) Delete(ctx context.Context, id string) error {
	key := cacheKeyPrefix + id
	c.cache.Invalidate(ctx, key)
	defer c.cache.Invalidate(ctx, key)

	return c.System.Delete(ctx, id)
}
