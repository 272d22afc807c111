package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/gallery/internal/auth"
	"github.com/JaimeStill/gallery/internal/media"
	"github.com/JaimeStill/gallery/internal/prompts"
	"github.com/JaimeStill/gallery/pkg/middleware"
	"github.com/JaimeStill/gallery/pkg/module"
	"github.com/JaimeStill/gallery/pkg/pagination"
	"github.com/JaimeStill/gallery/web/app"
)

const token = "view-token"

type nopHost struct{}

func (nopHost) Put(context.Context, media.Object) (*media.Hosted, error) {
	return &media.Hosted{URL: "https://cdn.example.com/upload.png", PublicID: "upload"}, nil
}

type fixture struct {
	module  *module.Module
	prompts prompts.System
}

func newFixture(t *testing.T, opts ...func(*app.Deps)) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := prompts.NewFile(
		filepath.Join(t.TempDir(), "prompts.json"),
		logger,
		pagination.Config{DefaultPageSize: 6, MaxPageSize: 100},
	)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	authCfg := &auth.Config{Password: "hunter2", Token: token}
	if err := authCfg.Finalize(nil); err != nil {
		t.Fatalf("auth Finalize() error = %v", err)
	}

	deps := app.Deps{
		Prompts:  store,
		Auth:     auth.New(authCfg, logger),
		Media:    media.New(nopHost{}, nil, 1<<20, logger),
		PageSize: 6,
		MaxSize:  1 << 20,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	m, err := app.NewModule("/app", deps, logger)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	return &fixture{module: m, prompts: store}
}

func (f *fixture) seed(t *testing.T, titles ...string) []*prompts.Prompt {
	t.Helper()
	out := make([]*prompts.Prompt, 0, len(titles))
	for _, title := range titles {
		p, err := f.prompts.Create(context.Background(), prompts.Command{
			Title:       title,
			Description: title + " description",
			Prompt:      "prompt for " + title,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		out = append(out, p)
		time.Sleep(2 * time.Millisecond)
	}
	return out
}

func (f *fixture) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.module.Serve(rec, req)
	return rec
}

func (f *fixture) post(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.module.Serve(rec, req)
	return rec
}

func session() *http.Cookie {
	return &http.Cookie{Name: "gallery_session", Value: token}
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHome(t *testing.T) {
	f := newFixture(t)

	t.Run("empty gallery", func(t *testing.T) {
		rec := f.get("/app/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "No prompts yet.") {
			t.Error("missing empty state")
		}
	})

	f.seed(t, "Aurora", "Bamboo", "Cathedral", "Dunes", "Ember", "Fjord", "Glacier")

	t.Run("first page newest first", func(t *testing.T) {
		body := f.get("/app/").Body.String()

		if strings.Contains(body, "Aurora") {
			t.Error("oldest record on first page")
		}
		if strings.Index(body, "Glacier") > strings.Index(body, "Bamboo") {
			t.Error("records not newest first")
		}
		if !strings.Contains(body, "Page 1 of 2") {
			t.Error("missing pager")
		}
	})

	t.Run("second page", func(t *testing.T) {
		body := f.get("/app/?page=2").Body.String()
		if !strings.Contains(body, "Aurora") || strings.Contains(body, "Glacier") {
			t.Error("second page contents wrong")
		}
	})

	t.Run("search filters", func(t *testing.T) {
		body := f.get("/app/?q=fjord").Body.String()
		if !strings.Contains(body, "Fjord") || strings.Contains(body, "Ember") {
			t.Error("search did not filter")
		}
	})

	t.Run("search without matches", func(t *testing.T) {
		body := f.get("/app/?q=volcano").Body.String()
		if !strings.Contains(body, "No prompts match") {
			t.Error("missing no-match message")
		}
	})
}

func TestDetail(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Lantern")[0]

	rec := f.get("/app/prompts/" + p.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "prompt for Lantern") {
		t.Error("prompt text missing")
	}
	if !strings.Contains(body, `data-copy="#prompt-text"`) {
		t.Error("copy button missing")
	}

	rec = f.get("/app/prompts/does-not-exist")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestUnknownPath(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/app/nowhere")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not found") {
		t.Error("missing not found page")
	}
}

func TestStaticAssets(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/app/static/app.js", "/app/static/app.css", "/app/favicon.svg"} {
		if rec := f.get(path); rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	t.Run("admin shows login when signed out", func(t *testing.T) {
		rec := f.get("/app/admin")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Admin Login") {
			t.Error("login form missing")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := f.post("/app/admin/login", url.Values{"username": {"admin"}, "password": {"nope"}})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), auth.ErrInvalidCredentials.Error()) {
			t.Error("error message missing")
		}
		if cookie(rec, "gallery_session") != nil {
			t.Error("session issued on failed login")
		}
	})

	t.Run("valid credentials start a session", func(t *testing.T) {
		rec := f.post("/app/admin/login", url.Values{"username": {"admin"}, "password": {"hunter2"}})
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/app/admin" {
			t.Errorf("Location = %q", loc)
		}

		c := cookie(rec, "gallery_session")
		if c == nil || c.Value != token {
			t.Fatalf("session cookie = %v", c)
		}
		if !c.HttpOnly || c.Path != "/app" || c.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie attributes = %+v", c)
		}

		page := f.get("/app/admin", c, cookie(rec, "gallery_flash"))
		body := page.Body.String()
		if !strings.Contains(body, "New prompt") {
			t.Error("admin panel not shown with session")
		}
		if !strings.Contains(body, "Signed in.") {
			t.Error("flash not shown")
		}
		if cleared := cookie(page, "gallery_flash"); cleared == nil || cleared.MaxAge >= 0 {
			t.Error("flash not cleared after display")
		}
	})

	t.Run("logout clears the session", func(t *testing.T) {
		rec := f.post("/app/admin/logout", nil, session())
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if c := cookie(rec, "gallery_session"); c == nil || c.MaxAge >= 0 {
			t.Error("session cookie not expired")
		}
	})
}

func TestLoginThrottled(t *testing.T) {
	f := newFixture(t, func(d *app.Deps) {
		d.LoginLimit = middleware.RateLimit(t.Context(), 0.001, 3)
	})

	wrong := url.Values{"username": {"admin"}, "password": {"nope"}}
	codes := make(map[int]int)
	for range 10 {
		codes[f.post("/app/admin/login", wrong).Code]++
	}

	if codes[http.StatusUnauthorized] != 3 {
		t.Errorf("401 responses = %d, want 3 (%v)", codes[http.StatusUnauthorized], codes)
	}
	if codes[http.StatusTooManyRequests] != 7 {
		t.Errorf("429 responses = %d, want 7 (%v)", codes[http.StatusTooManyRequests], codes)
	}

	right := url.Values{"username": {"admin"}, "password": {"hunter2"}}
	if rec := f.post("/app/admin/login", right); rec.Code != http.StatusTooManyRequests {
		t.Errorf("valid login while throttled: status = %d, want 429", rec.Code)
	}

	if rec := f.get("/app/admin"); rec.Code != http.StatusOK {
		t.Errorf("GET /app/admin status = %d, want 200", rec.Code)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Guarded")[0]

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"create", "POST", "/app/admin/prompts"},
		{"edit", "GET", "/app/admin/prompts/" + p.ID + "/edit"},
		{"update", "POST", "/app/admin/prompts/" + p.ID},
		{"confirm delete", "GET", "/app/admin/prompts/" + p.ID + "/delete"},
		{"delete", "POST", "/app/admin/prompts/" + p.ID + "/delete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			stale := &http.Cookie{Name: "gallery_session", Value: "stale"}
			if tt.method == "GET" {
				rec = f.get(tt.target, stale)
			} else {
				rec = f.post(tt.target, url.Values{"title": {"x"}, "prompt": {"y"}}, stale)
			}

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/app/admin" {
				t.Errorf("Location = %q", loc)
			}
			if cookie(rec, "gallery_flash") == nil {
				t.Error("sign-in flash not set")
			}
		})
	}

	if _, err := f.prompts.Find(context.Background(), p.ID); err != nil {
		t.Errorf("record changed without session: %v", err)
	}
}

func TestAdminCreate(t *testing.T) {
	f := newFixture(t)

	t.Run("valid form", func(t *testing.T) {
		rec := f.post("/app/admin/prompts", url.Values{
			"title":       {"Orchid"},
			"image":       {" https://img.example.com/orchid.png "},
			"description": {"macro shot"},
			"prompt":      {"an orchid, macro lens"},
		}, session())
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303: %s", rec.Code, rec.Body)
		}

		all, err := f.prompts.All(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 1 || all[0].Title != "Orchid" {
			t.Fatalf("records = %+v", all)
		}
		if all[0].Image != "https://img.example.com/orchid.png" {
			t.Errorf("image = %q", all[0].Image)
		}
	})

	t.Run("blank prompt re-renders with error", func(t *testing.T) {
		rec := f.post("/app/admin/prompts", url.Values{"title": {"Half"}, "prompt": {"  "}}, session())
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "prompt is required") {
			t.Error("validation message missing")
		}
		if !strings.Contains(body, `value="Half"`) {
			t.Error("form values not preserved")
		}
	})
}

func TestAdminEditAndDelete(t *testing.T) {
	f := newFixture(t)
	p := f.seed(t, "Willow")[0]

	rec := f.get("/app/admin/prompts/"+p.ID+"/edit", session())
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="Willow"`) {
		t.Error("edit form not populated")
	}

	rec = f.post("/app/admin/prompts/"+p.ID, url.Values{"title": {"Weeping Willow"}, "prompt": {"p"}}, session())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("update status = %d", rec.Code)
	}
	got, err := f.prompts.Find(context.Background(), p.ID)
	if err != nil || got.Title != "Weeping Willow" {
		t.Fatalf("after update = %+v, %v", got, err)
	}

	rec = f.get("/app/admin/prompts/"+p.ID+"/delete", session())
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "cannot be undone") {
		t.Fatalf("confirm status = %d", rec.Code)
	}

	rec = f.post("/app/admin/prompts/"+p.ID+"/delete", nil, session())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if _, err := f.prompts.Find(context.Background(), p.ID); err == nil {
		t.Error("record still present after delete")
	}

	rec = f.post("/app/admin/prompts/"+p.ID+"/delete", nil, session())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("second delete status = %d", rec.Code)
	}
	flash := cookie(rec, "gallery_flash")
	if flash == nil {
		t.Fatal("missing flash for deleted record")
	}
	msg, _ := url.QueryUnescape(flash.Value)
	if !strings.Contains(msg, "no longer exists") {
		t.Errorf("flash = %q", msg)
	}
}
