// Package auth implements the shared-secret admin login and static token check.
package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/gallery/pkg/handlers"
)

// System checks admin credentials and bearer tokens.
type System interface {
	Handler() *Handler

	// Login returns the static token when username and password both match.
	Login(username, password string) (string, error)

	// Verify accepts an Authorization header value of "<token>" or "Bearer <token>".
	Verify(header string) error

	// Middleware rejects requests whose Authorization header fails Verify.
	Middleware() func(http.Handler) http.Handler
}

type auth struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an auth system from cfg.
func New(cfg *Config, logger *slog.Logger) System {
	return &auth{
		cfg:    *cfg,
		logger: logger.With("system", "auth"),
	}
}

func (a *auth) Handler() *Handler {
	return NewHandler(a, a.logger)
}

func (a *auth) Login(username, password string) (string, error) {
	userOK := equal(username, a.cfg.Username)
	passOK := equal(password, a.cfg.Password)

	if !userOK || !passOK {
		a.logger.Warn("login rejected")
		return "", ErrInvalidCredentials
	}

	a.logger.Info("login succeeded")
	return a.cfg.Token, nil
}

func (a *auth) Verify(header string) error {
	token := strings.TrimSpace(header)
	if t, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = strings.TrimSpace(t)
	}

	if token == "" || !equal(token, a.cfg.Token) {
		return ErrUnauthorized
	}
	return nil
}

func (a *auth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := a.Verify(r.Header.Get("Authorization")); err != nil {
				handlers.RespondError(w, a.logger, http.StatusUnauthorized, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
