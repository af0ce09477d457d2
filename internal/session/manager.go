package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/utils"
)

// Manager ties the signed session cookie to the server-side Store.
type Manager struct {
	Store      Store
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Login creates a session for username and sets the cookie on the response.
func (m *Manager) Login(c echo.Context, username string) (Session, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	sess, err := m.Store.Create(ctx, username, m.TTL)
	if err != nil {
		return Session{}, err
	}
	tok, err := utils.NewSessionToken(m.Secret, username, sess.ID, m.TTL)
	if err != nil {
		_ = m.Store.Delete(ctx, sess.ID)
		return Session{}, err
	}
	c.SetCookie(&http.Cookie{
		Name:     m.CookieName,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// Current resolves the session behind the request cookie. Any problem with
// the cookie, its signature or the server-side record yields
// ErrSessionNotFound; store connectivity errors are returned as-is.
func (m *Manager) Current(c echo.Context) (Session, error) {
	ck, err := c.Cookie(m.CookieName)
	if err != nil || ck.Value == "" {
		return Session{}, ErrSessionNotFound
	}
	claims, err := utils.ParseSessionToken(m.Secret, ck.Value)
	if err != nil {
		return Session{}, ErrSessionNotFound
	}
	sess, err := m.Store.Get(c.Request().Context(), claims.ID)
	if err != nil {
		return Session{}, err
	}
	if sess.Username != claims.Subject {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Logout deletes the server-side session, if any, and expires the cookie.
func (m *Manager) Logout(c echo.Context) error {
	var err error
	if sess, cerr := m.Current(c); cerr == nil {
		err = m.Store.Delete(c.Request().Context(), sess.ID)
	} else if !errors.Is(cerr, ErrSessionNotFound) {
		err = cerr
	}
	c.SetCookie(&http.Cookie{
		Name:     m.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}
