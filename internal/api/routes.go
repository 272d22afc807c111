package api

import (
	"net/http"

	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/pkg/middleware"
	"github.com/JaimeStill/gallery/pkg/openapi"
	"github.com/JaimeStill/gallery/pkg/routes"
)

// isWrite matches routes that mutate records or upload media.
func isWrite(r routes.Route) bool {
	return r.Method != http.MethodGet && r.Pattern != "/search"
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	specBytes []byte,
) {
	promptRoutes := domain.Prompts.Handler().Routes()
	mediaRoutes := domain.Media.Handler().Routes()

	if cfg.Auth.ProtectWrites {
		guard := domain.Auth.Middleware()
		promptRoutes = promptRoutes.Guard(guard, isWrite)
		mediaRoutes = mediaRoutes.Guard(guard, isWrite)
	}

	authRoutes := domain.Auth.Handler().Routes().Guard(
		middleware.RateLimit(runtime.Lifecycle.Context(), cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
		routes.Methods(http.MethodPost),
	)

	routes.Register(
		mux,
		promptRoutes,
		authRoutes,
		mediaRoutes,
		routes.Group{
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/openapi.json", Handler: openapi.ServeSpec(specBytes)},
			},
		},
	)
}
