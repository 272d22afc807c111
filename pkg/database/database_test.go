package database_test

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/gallery/pkg/database"
	"github.com/JaimeStill/gallery/pkg/lifecycle"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"name", cfg.Name, "gallery"},
		{"user", cfg.User, "gallery"},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"conn_timeout", cfg.ConnTimeoutDuration(), 5 * time.Second},
		{"conn_max_lifetime", cfg.ConnMaxLifetimeDuration(), 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_PASSWORD", "secret")
	t.Setenv("TEST_DB_TIMEOUT", "bogus")

	env := &database.Env{
		Host:        "TEST_DB_HOST",
		Port:        "TEST_DB_PORT",
		Password:    "TEST_DB_PASSWORD",
		ConnTimeout: "TEST_DB_TIMEOUT",
	}

	cfg := database.Config{}
	err := cfg.Finalize(env)
	if err == nil || !strings.Contains(err.Error(), "invalid conn_timeout") {
		t.Fatalf("expected conn_timeout error, got %v", err)
	}
	if cfg.Host != "db.internal" || cfg.Port != 5433 || cfg.Password != "secret" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		env     map[string]string
		wantErr string
	}{
		{"port out of range", database.Config{Port: 70000}, nil, "out of range"},
		{"idle exceeds open", database.Config{MaxOpenConns: 2, MaxIdleConns: 4}, nil, "exceeds max_open_conns"},
		{"malformed env port", database.Config{}, map[string]string{"TEST_DB_PORT": "pg"}, "TEST_DB_PORT"},
		{"url skips discrete checks", database.Config{URL: "postgres://u@db/g", Port: 70000}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := tt.cfg
			err := cfg.Finalize(&database.Env{Port: "TEST_DB_PORT"})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("finalize: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "gallery", MaxOpenConns: 25}
	base.Merge(&database.Config{Host: "prod", MaxOpenConns: 50})

	if base.Host != "prod" || base.MaxOpenConns != 50 {
		t.Errorf("overlay not applied: %+v", base)
	}
	if base.Port != 5432 || base.Name != "gallery" {
		t.Errorf("zero overlay fields should preserve base: %+v", base)
	}
}

func TestDsn(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
		want string
	}{
		{
			name: "with password",
			cfg:  database.Config{Host: "localhost", Port: 5432, Name: "gallery", User: "gallery", Password: "pw", SSLMode: "disable"},
			want: "postgres://gallery:pw@localhost:5432/gallery?sslmode=disable",
		},
		{
			name: "password escaped",
			cfg:  database.Config{Host: "db", Port: 5433, Name: "g", User: "u", Password: "p@ss word", SSLMode: "require"},
			want: "postgres://u:p%40ss%20word@db:5433/g?sslmode=require",
		},
		{
			name: "url wins",
			cfg:  database.Config{URL: "postgres://managed@pg.example.com/gallery?sslmode=require", Host: "ignored", Port: 5432},
			want: "postgres://managed@pg.example.com/gallery?sslmode=require",
		},
		{
			name: "no password",
			cfg:  database.Config{Host: "db", Port: 5432, Name: "g", User: "u", SSLMode: "disable"},
			want: "postgres://u@db:5432/g?sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Dsn(); got != tt.want {
				t.Errorf("Dsn() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewIsLazy(t *testing.T) {
	cfg := database.Config{MaxOpenConns: 42}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sys.Connection().Close()

	if got := sys.Connection().Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
	if sys.Ready() {
		t.Error("ready before start")
	}
}

func TestNewRejectsInvalidSSLMode(t *testing.T) {
	cfg := database.Config{Host: "localhost", Port: 5432, Name: "g", User: "u", SSLMode: "sometimes"}

	if _, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected parse error for invalid sslmode")
	}
}

func TestStartWithoutServerStaysNotReady(t *testing.T) {
	cfg := database.Config{Host: "127.0.0.1", Port: 1, ConnTimeout: "200ms"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	lc := lifecycle.New()
	if err := sys.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lc.Track(sys)
	lc.WaitForStartup()

	if sys.Ready() || lc.Ready() {
		t.Error("ready without a reachable database")
	}
	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
