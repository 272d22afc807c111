// Package app serves the server-rendered gallery: the public browse and detail
// pages and the token-protected admin panel.
package app

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/gallery/internal/auth"
	"github.com/JaimeStill/gallery/internal/media"
	"github.com/JaimeStill/gallery/internal/prompts"
	"github.com/JaimeStill/gallery/pkg/middleware"
	"github.com/JaimeStill/gallery/pkg/module"
	"github.com/JaimeStill/gallery/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "base"

var views = map[string]web.ViewDef{
	"home":     {Route: "/", Template: "home.html", Title: "Prompt Gallery", Bundle: "app.js"},
	"detail":   {Route: "/prompts/{id}", Template: "detail.html", Title: "Prompt", Bundle: "app.js"},
	"login":    {Route: "/admin", Template: "login.html", Title: "Admin Login", Bundle: "app.js"},
	"admin":    {Route: "/admin", Template: "admin.html", Title: "Admin", Bundle: "app.js"},
	"edit":     {Route: "/admin/prompts/{id}/edit", Template: "edit.html", Title: "Edit Prompt", Bundle: "app.js"},
	"delete":   {Route: "/admin/prompts/{id}/delete", Template: "delete.html", Title: "Delete Prompt", Bundle: "app.js"},
	"notfound": {Template: "notfound.html", Title: "Not Found", Bundle: "app.js"},
	"error":    {Template: "error.html", Title: "Error", Bundle: "app.js"},
}

// Deps are the domain systems the views read from and write through.
type Deps struct {
	Prompts  prompts.System
	Auth     auth.System
	Media    media.System
	PageSize int
	MaxSize  int64
	Secure   bool

	// LoginLimit throttles form logins. Nil disables throttling.
	LoginLimit middleware.Func
}

type app struct {
	deps      Deps
	templates *web.TemplateSet
	logger    *slog.Logger
}

// NewModule creates the views module mounted at basePath.
func NewModule(basePath string, deps Deps, logger *slog.Logger) (*module.Module, error) {
	defs := make([]web.ViewDef, 0, len(views))
	for _, v := range views {
		defs = append(defs, v)
	}

	ts, err := web.NewTemplateSet(templateFS, "templates/layouts/*.html", "templates/views", basePath, funcs(basePath), defs)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	a := &app{
		deps:      deps,
		templates: ts,
		logger:    logger.With("module", "app"),
	}

	m := module.New(basePath, a.router())
	return m, nil
}

func (a *app) router() http.Handler {
	r := web.NewRouter()

	r.HandleFunc("GET /static/", web.DistServer(staticFS, "static", "/static"))
	for _, route := range web.PublicFileRoutes(staticFS, "static", "favicon.svg") {
		r.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}

	r.HandleFunc("GET /{$}", a.home)
	r.HandleFunc("GET /prompts/{id}", a.detail)

	r.HandleFunc("GET /admin", a.admin)
	r.Handle("POST /admin/login", middleware.Chain(http.HandlerFunc(a.login), a.deps.LoginLimit))
	r.HandleFunc("POST /admin/logout", a.logout)
	r.HandleFunc("POST /admin/prompts", a.requireSession(a.create))
	r.HandleFunc("GET /admin/prompts/{id}/edit", a.requireSession(a.edit))
	r.HandleFunc("POST /admin/prompts/{id}", a.requireSession(a.update))
	r.HandleFunc("GET /admin/prompts/{id}/delete", a.requireSession(a.confirmDelete))
	r.HandleFunc("POST /admin/prompts/{id}/delete", a.requireSession(a.delete))

	r.SetFallback(a.templates.ErrorHandler(layout, views["notfound"], http.StatusNotFound))

	return r
}

func (a *app) render(w http.ResponseWriter, status int, view string, data any) {
	def := views[view]
	if err := a.templates.Render(w, status, layout, def.Template, a.templates.Data(def, data)); err != nil {
		a.logger.Error("render failed", "view", view, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (a *app) fail(w http.ResponseWriter, err error) {
	a.logger.Error("request failed", "error", err)
	a.render(w, http.StatusInternalServerError, "error", nil)
}

func (a *app) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, a.templates.BasePath()+path, http.StatusSeeOther)
}
