package handler

import (
	"log/slog"
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It returns
// a plain text "ok" message with an HTTP 200 status code.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// ErrorHandler replaces echo's JSON error responses with plain text pages.
// Unexpected errors are logged and reported as 500; details are only shown
// when debug is on.
func ErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = http.StatusText(code)
			if s, ok := he.Message.(string); ok && code < 500 {
				msg = s
			}
		}
		if code >= 500 {
			slog.Error("request failed", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
			if debug {
				msg = err.Error()
			}
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.String(code, msg)
	}
}
