package middleware

// identity.go holds the authenticated-admin context object. RequireAdmin
// stores it on the request; handlers, the renderer and the rate limiter
// read it back through CurrentAdmin.

import (
	"github.com/labstack/echo/v4"
)

const adminKey = "admin.identity"

// AdminIdentity describes the admin behind the current request.
type AdminIdentity struct {
	Username  string
	SessionID string
}

// CurrentAdmin returns the identity injected by RequireAdmin, or nil on
// routes that are not guarded or when nobody is logged in.
func CurrentAdmin(c echo.Context) *AdminIdentity {
	if v, ok := c.Get(adminKey).(*AdminIdentity); ok {
		return v
	}
	return nil
}

// WithAdmin stores id on the request context.
func WithAdmin(c echo.Context, id *AdminIdentity) {
	c.Set(adminKey, id)
}

// userID extracts an identifier for rate limiting. It returns "guest" when
// no admin is authenticated.
func userID(c echo.Context) string {
	if id := CurrentAdmin(c); id != nil && id.Username != "" {
		return id.Username
	}
	return "guest"
}
