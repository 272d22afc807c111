package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/gallery/internal/api"
	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/internal/infrastructure"
	"github.com/JaimeStill/gallery/pkg/middleware"
	"github.com/JaimeStill/gallery/pkg/module"
	"github.com/JaimeStill/gallery/web/app"
	"github.com/JaimeStill/gallery/web/scalar"
)

const appPrefix = "/app"

type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, domain, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(appPrefix, app.Deps{
		Prompts:  domain.Prompts,
		Auth:     domain.Auth,
		Media:    domain.Media,
		PageSize: cfg.API.Pagination.DefaultPageSize,
		MaxSize:  cfg.Media.MaxUploadSizeBytes(),
		Secure:   cfg.Server.SecureCookies,
		LoginLimit: middleware.RateLimit(
			infra.Lifecycle.Context(),
			cfg.Auth.LoginRate,
			cfg.Auth.LoginBurst,
		),
	}, infra.Logger)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger))

	scalarModule := scalar.NewModule("/scalar", cfg.API.OpenAPI.Title, cfg.API.BasePath+"/openapi.json")
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.Redirect("/{$}", appPrefix+"/")

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
