package app

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	sessionCookie = "gallery_session"
	flashCookie   = "gallery_flash"
)

// Flash is a one-shot notification shown after a redirect.
type Flash struct {
	Kind    string
	Message string
}

func (a *app) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     a.templates.BasePath(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.deps.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// authenticated revalidates the session token against the auth system.
func (a *app) authenticated(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	return a.deps.Auth.Verify(c.Value) == nil
}

func (a *app) startSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, a.cookie(sessionCookie, token, 0))
}

func (a *app) endSession(w http.ResponseWriter) {
	http.SetCookie(w, a.cookie(sessionCookie, "", -1))
}

// requireSession redirects to the admin login when the session token is missing or invalid.
func (a *app) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.authenticated(r) {
			a.endSession(w)
			a.setFlash(w, "error", "Please sign in to continue.")
			a.redirect(w, r, "/admin")
			return
		}
		next(w, r)
	}
}

func (a *app) setFlash(w http.ResponseWriter, kind, message string) {
	value := url.QueryEscape(kind + "|" + message)
	http.SetCookie(w, a.cookie(flashCookie, value, 60))
}

// takeFlash reads and clears the pending flash, if any.
func (a *app) takeFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, a.cookie(flashCookie, "", -1))

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}

	kind, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Kind: kind, Message: message}
}
