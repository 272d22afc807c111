package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/gallery/pkg/middleware"
)

// Module owns one top-level path segment such as /api or /app. Requests are
// served with the segment stripped so inner routes stay prefix-agnostic.
type Module struct {
	prefix  string
	router  http.Handler
	stack   []middleware.Func
	handler http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:  prefix,
		router:  router,
		handler: router,
	}
}

// Handler returns the inner router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path and dispatches to the inner router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	path := extractPath(req.URL.Path, m.prefix)
	request := cloneRequest(req, path)
	m.handler.ServeHTTP(w, request)
}

// Use appends middleware to the module's stack. Call before serving.
func (m *Module) Use(mws ...middleware.Func) {
	m.stack = append(m.stack, mws...)
	m.handler = middleware.Chain(m.router, m.stack...)
}

func cloneRequest(req *http.Request, path string) *http.Request {
	u := *req.URL
	u.Path = path
	u.RawPath = ""

	clone := req.Clone(req.Context())
	clone.URL = &u
	return clone
}

func extractPath(fullPath, prefix string) string {
	if path := strings.TrimPrefix(fullPath, prefix); path != "" {
		return path
	}
	return "/"
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix is empty")
	case prefix[0] != '/':
		return fmt.Errorf("module prefix %q must start with /", prefix)
	case strings.Count(prefix, "/") != 1, len(prefix) == 1:
		return fmt.Errorf("module prefix %q must name exactly one path segment", prefix)
	}
	return nil
}
