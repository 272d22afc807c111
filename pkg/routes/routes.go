// Package routes declares HTTP routes as data so modules can guard and
// register them in bulk.
package routes

import (
	"net/http"
	"slices"

	"github.com/JaimeStill/gallery/pkg/middleware"
)

// Route is one method and pattern bound to a handler. Pattern is relative
// to the enclosing Group prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Methods matches routes using any of the given HTTP methods.
func Methods(methods ...string) func(Route) bool {
	return func(r Route) bool {
		return slices.Contains(methods, r.Method)
	}
}

// Guard returns a copy of the group whose routes satisfying match are
// wrapped with mw. Children are guarded recursively.
func (g Group) Guard(mw middleware.Func, match func(Route) bool) Group {
	guarded := Group{
		Prefix:   g.Prefix,
		Routes:   make([]Route, len(g.Routes)),
		Children: make([]Group, len(g.Children)),
	}

	for i, route := range g.Routes {
		if match(route) {
			route.Handler = mw(route.Handler).ServeHTTP
		}
		guarded.Routes[i] = route
	}

	for i, child := range g.Children {
		guarded.Children[i] = child.Guard(mw, match)
	}

	return guarded
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parent string, group Group) {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, prefix, child)
	}
}
