package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/gallery/pkg/handlers"
	"github.com/JaimeStill/gallery/pkg/routes"
)

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Response is the body of login and verify responses.
type Response struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler provides HTTP endpoints for admin login.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler for the given auth system.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "auth"),
	}
}

// Routes returns the route group definition for auth endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/login",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Login},
			{Method: "GET", Pattern: "/verify", Handler: h.Verify},
		},
	}
}

// Login exchanges the admin credentials for the static token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.reject(w, ErrInvalidCredentials)
		return
	}

	token, err := h.sys.Login(creds.Username, creds.Password)
	if err != nil {
		h.reject(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{Success: true, Token: token})
}

// Verify reports whether the request's Authorization header carries the valid token.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Verify(r.Header.Get("Authorization")); err != nil {
		h.reject(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{Success: true})
}

func (h *Handler) reject(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed", "error", err)
		msg = "internal server error"
	}
	handlers.RespondJSON(w, status, Response{Success: false, Error: msg})
}
