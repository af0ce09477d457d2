package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/middleware"
	"github.com/rtnut/showcase-cms/internal/service"
	"github.com/rtnut/showcase-cms/internal/session"
)

// AuthHandler bundles dependencies for the admin login endpoints.
type AuthHandler struct {
	Auth     Authenticator
	Sessions SessionManager
}

func NewAuthHandler(a Authenticator, s SessionManager) *AuthHandler {
	if a == nil || s == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Auth: a, Sessions: s}
}

type loginPage struct {
	Username string
}

// LoginForm handles GET /admin/login. Logged-in admins go straight to the
// dashboard.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if middleware.CurrentAdmin(c) != nil {
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	}
	return c.Render(http.StatusOK, "admin/login.html", loginPage{})
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	ctx, cancel := reqCtx(c)
	defer cancel()
	admin, err := h.Auth.Verify(ctx, username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		slog.Warn("admin login failed", "username", username, "ip", c.RealIP())
		session.AddFlash(c, session.FlashDanger, "Invalid username or password.")
		return c.Render(http.StatusOK, "admin/login.html", loginPage{Username: username})
	}
	if err != nil {
		return err
	}
	if _, err := h.Sessions.Login(c, admin.Username); err != nil {
		return err
	}
	slog.Info("admin logged in", "username", admin.Username)
	return flashRedirect(c, session.FlashSuccess, "Welcome back, "+admin.Username+".", "/admin/dashboard")
}

// Logout handles GET /admin/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Logout(c); err != nil {
		slog.Warn("admin logout", "error", err)
	}
	return flashRedirect(c, session.FlashSuccess, "You have been logged out.", middleware.LoginPath)
}
