// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/internal/infrastructure"
	"github.com/JaimeStill/gallery/pkg/middleware"
	"github.com/JaimeStill/gallery/pkg/module"
	"github.com/JaimeStill/gallery/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
// The returned Domain is shared with the server-rendered views.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(cfg, runtime)
	if err != nil {
		return nil, nil, err
	}

	specBytes, err := openapi.MarshalJSON(NewSpec(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("build openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime, specBytes)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, domain, nil
}
