package api

import (
	"fmt"

	"github.com/JaimeStill/gallery/internal/auth"
	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/internal/media"
	"github.com/JaimeStill/gallery/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts prompts.System
	Auth    auth.System
	Media   media.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	promptsSystem, err := newPrompts(cfg, runtime)
	if err != nil {
		return nil, err
	}

	if runtime.Cache != nil {
		promptsSystem = prompts.NewCached(
			promptsSystem,
			runtime.Cache,
			runtime.Logger,
			runtime.Pagination,
		)
	}

	return &Domain{
		Prompts: promptsSystem,
		Auth:    auth.New(&cfg.Auth, runtime.Logger),
		Media: media.New(
			newMediaHost(cfg, runtime),
			runtime.Storage,
			cfg.Media.MaxUploadSizeBytes(),
			runtime.Logger,
		),
	}, nil
}

func newPrompts(cfg *config.Config, runtime *Runtime) (prompts.System, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return prompts.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
		), nil
	case config.DriverMongo:
		return prompts.NewMongo(
			runtime.Mongo.Database(),
			runtime.Logger,
			runtime.Pagination,
		), nil
	case config.DriverFile:
		sys, err := prompts.NewFile(cfg.Store.Path, runtime.Logger, runtime.Pagination)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		return sys, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newMediaHost(cfg *config.Config, runtime *Runtime) media.Host {
	if cfg.UsesBlobStorage() {
		return media.NewBlobHost(runtime.Storage, runtime.MediaBaseURL)
	}
	return media.NewCloudinaryHost(cfg.Media.Cloudinary, runtime.Logger)
}
