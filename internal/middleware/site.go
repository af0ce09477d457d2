package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/model"
)

const siteKey = "site.settings"

// SettingsLoader loads the site-wide settings every page renders.
type SettingsLoader interface {
	Site(ctx context.Context) (model.SiteSettings, error)
}

// SiteSettings loads theme color and footer info once per request and
// stores them for the renderer. A failed load falls back to the defaults.
func SiteSettings(loader SettingsLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
			site, err := loader.Site(ctx)
			cancel()
			if err != nil {
				slog.Warn("load site settings", "error", err)
				site = model.SiteSettings{ThemeColor: model.DefaultThemeColor, Footer: model.DefaultFooter()}
			}
			c.Set(siteKey, site)
			return next(c)
		}
	}
}

// CurrentSite returns the settings injected by SiteSettings, or defaults.
func CurrentSite(c echo.Context) model.SiteSettings {
	if v, ok := c.Get(siteKey).(model.SiteSettings); ok {
		return v
	}
	return model.SiteSettings{ThemeColor: model.DefaultThemeColor, Footer: model.DefaultFooter()}
}
