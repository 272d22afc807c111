package web_test

import (
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/gallery/pkg/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/layouts/base.html": {Data: []byte(
			`{{ define "base" }}<title>{{ .Title }}</title><a href="{{ .BasePath }}/">home</a>{{ template "content" . }}{{ end }}`,
		)},
		"templates/views/home.html": {Data: []byte(
			`{{ define "content" }}<p>{{ shout .Data }}</p>{{ end }}`,
		)},
		"templates/views/broken.html": {Data: []byte(
			`{{ define "content" }}{{ .Data.Missing }}{{ end }}`,
		)},
		"static/app.css":    {Data: []byte("body{}")},
		"static/robots.txt": {Data: []byte("User-agent: *")},
	}
}

var (
	home   = web.ViewDef{Route: "/", Template: "home.html", Title: "Home"}
	broken = web.ViewDef{Route: "/broken", Template: "broken.html", Title: "Broken"}
)

func newTemplateSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	funcs := template.FuncMap{"shout": strings.ToUpper}
	ts, err := web.NewTemplateSet(testFS(), "templates/layouts/*.html", "templates/views", "/app", funcs, []web.ViewDef{home, broken})
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}
	return ts
}

func TestRender(t *testing.T) {
	ts := newTemplateSet(t)

	rec := httptest.NewRecorder()
	if err := ts.Render(rec, http.StatusCreated, "base", "home.html", ts.Data(home, "hello")); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<title>Home</title>", `href="/app/"`, "<p>HELLO</p>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
}

func TestRenderFailureWritesNothing(t *testing.T) {
	ts := newTemplateSet(t)

	rec := httptest.NewRecorder()
	err := ts.Render(rec, http.StatusOK, "base", "broken.html", ts.Data(broken, "not a struct"))
	if err == nil {
		t.Fatal("expected execution error")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("partial output written: %q", rec.Body.String())
	}

	if err := ts.Render(httptest.NewRecorder(), http.StatusOK, "base", "missing.html", web.ViewData{}); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestErrorHandler(t *testing.T) {
	ts := newTemplateSet(t)

	rec := httptest.NewRecorder()
	ts.ErrorHandler("base", home, http.StatusNotFound)(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestRouterFallback(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.SetFallback(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/known", http.StatusOK},
		{"GET", "/unknown", http.StatusTeapot},
		{"POST", "/known", http.StatusMethodNotAllowed},
		{"POST", "/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	fsys := testFS()

	t.Run("dist server", func(t *testing.T) {
		rec := httptest.NewRecorder()
		web.DistServer(fsys, "static", "/static")(rec, httptest.NewRequest("GET", "/static/app.css", nil))

		if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
			t.Errorf("got %d %q", rec.Code, rec.Body.String())
		}
		if rec.Header().Get("Cache-Control") == "" {
			t.Error("missing cache-control")
		}
	})

	t.Run("public file routes", func(t *testing.T) {
		routes := web.PublicFileRoutes(fsys, "static", "robots.txt", "missing.txt")
		if len(routes) != 2 || routes[0].Pattern != "/robots.txt" || routes[0].Method != "GET" {
			t.Fatalf("routes: %+v", routes)
		}

		rec := httptest.NewRecorder()
		routes[0].Handler(rec, httptest.NewRequest("GET", "/robots.txt", nil))
		body, _ := io.ReadAll(rec.Body)
		if rec.Code != http.StatusOK || string(body) != "User-agent: *" {
			t.Errorf("got %d %q", rec.Code, body)
		}

		rec = httptest.NewRecorder()
		routes[1].Handler(rec, httptest.NewRequest("GET", "/missing.txt", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("missing file: got %d, want 404", rec.Code)
		}
	})

	t.Run("embedded file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		web.ServeEmbeddedFile([]byte("<h1>docs</h1>"), "text/html")(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Header().Get("Content-Type") != "text/html" || rec.Body.String() != "<h1>docs</h1>" {
			t.Errorf("got %q %q", rec.Header().Get("Content-Type"), rec.Body.String())
		}
	})
}
