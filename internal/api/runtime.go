package api

import (
	"strings"

	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/internal/infrastructure"
	"github.com/JaimeStill/gallery/pkg/pagination"
)

// Runtime is the infrastructure view handed to API domain systems, with
// a module-scoped logger and settings resolved from config.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config

	// MediaBaseURL prefixes URLs of blob-hosted images.
	MediaBaseURL string
}

// NewRuntime scopes infra to the API module.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	baseURL := cfg.Media.PublicBaseURL
	if baseURL == "" {
		baseURL = cfg.API.BasePath + "/media"
	}

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		MediaBaseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}
