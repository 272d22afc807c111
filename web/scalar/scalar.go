// Package scalar serves the Scalar API reference UI for the API module's OpenAPI document.
package scalar

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/gallery/pkg/module"
	"github.com/JaimeStill/gallery/pkg/web"
)

//go:embed index.html
var staticFS embed.FS

var index = template.Must(template.ParseFS(staticFS, "index.html"))

// NewModule creates a module that serves the API reference at basePath,
// loading the OpenAPI document from specURL.
func NewModule(basePath, title, specURL string) *module.Module {
	return module.New(basePath, buildRouter(title, specURL))
}

func buildRouter(title, specURL string) http.Handler {
	var page bytes.Buffer
	index.Execute(&page, map[string]string{
		"Title":   title,
		"SpecURL": specURL,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", web.ServeEmbeddedFile(page.Bytes(), "text/html; charset=utf-8"))

	return mux
}
