// Package middleware holds the echo middleware shared by the site and the
// back office.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/rtnut/showcase-cms/internal/session"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// SessionResolver resolves the admin session behind a request.
type SessionResolver interface {
	Current(c echo.Context) (session.Session, error)
}

// RequireAdmin returns an Echo middleware that only lets requests through
// when the session cookie maps to a live server-side session. Others get a
// "please log in" flash and a redirect to the login page; the wrapped
// handler never runs for them. On success the admin identity is injected
// into the request context for downstream handlers.
func RequireAdmin(sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := sessions.Current(c)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					slog.Error("session lookup failed", "path", c.Path(), "error", err)
				}
				session.AddFlash(c, session.FlashWarning, "Please log in first.")
				return c.Redirect(http.StatusFound, LoginPath)
			}
			WithAdmin(c, &AdminIdentity{Username: sess.Username, SessionID: sess.ID})
			return next(c)
		}
	}
}

// LoadAdmin injects the admin identity when a valid session exists but
// never blocks. The login page uses it to skip the form for logged-in admins.
func LoadAdmin(sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess, err := sessions.Current(c); err == nil {
				WithAdmin(c, &AdminIdentity{Username: sess.Username, SessionID: sess.ID})
			}
			return next(c)
		}
	}
}
