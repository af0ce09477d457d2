package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLog emits one structured log line per request.
func RequestLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			status := c.Response().Status
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"route", c.Path(),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			}
			if admin := CurrentAdmin(c); admin != nil {
				attrs = append(attrs, "admin", admin.Username)
			}
			switch {
			case status >= 500:
				slog.Error("http_request", append(attrs, "error", errString(err))...)
			case status >= 400:
				slog.Warn("http_request", attrs...)
			default:
				slog.Info("http_request", attrs...)
			}
			return nil
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
