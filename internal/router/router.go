// Package router registers the HTTP routes of the site.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/handler"
	"github.com/rtnut/showcase-cms/internal/middleware"
)

// RegisterRoutes registers routes that do not render pages. Currently it
// exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the public site on the page group. limit guards
// the contact form against floods.
func RegisterPublic(e *echo.Group, p *handler.PublicHandler, ct *handler.ContactHandler, limit echo.MiddlewareFunc) {
	e.GET("/", p.Index)
	e.GET("/product/:id", p.ProductDetail)
	e.GET("/factory", p.Factory)
	e.GET("/contact", ct.Show)
	e.POST("/contact", ct.Submit, limit)
}

// RegisterAdmin registers the back office. The login pages sit outside the
// guarded group; everything else requires a live admin session. Logout is
// reachable without a session so a stale or forged cookie can always be
// cleared.
func RegisterAdmin(e *echo.Group, a *handler.AuthHandler, h *handler.AdminHandler, sessions middleware.SessionResolver, limit echo.MiddlewareFunc) {
	load := middleware.LoadAdmin(sessions)
	e.GET("/admin/login", a.LoginForm, load)
	e.POST("/admin/login", a.Login, load, limit)
	e.GET("/admin/logout", a.Logout)

	g := e.Group("/admin", middleware.RequireAdmin(sessions))
	g.GET("", h.Dashboard)
	g.GET("/", h.Dashboard)
	g.GET("/dashboard", h.Dashboard)

	g.GET("/messages", h.ListMessages)

	// ---- Banners ----
	g.GET("/banners", h.ListBanners)
	g.POST("/banners", h.SaveBanner)
	g.GET("/banners/delete/:id", h.DeleteBanner)

	// ---- Products ----
	g.GET("/products", h.ListProducts)
	g.POST("/products", h.SaveProduct)
	g.GET("/products/delete/:id", h.DeleteProduct)

	// ---- Factory ----
	g.GET("/factory", h.ListFactory)
	g.POST("/factory", h.SaveFactory)
	g.GET("/factory/delete/:id", h.DeleteFactory)

	// ---- Settings ----
	g.GET("/colors", h.Colors)
	g.POST("/colors", h.SaveColors)
	g.GET("/footer", h.Footer)
	g.POST("/footer", h.SaveFooter)
}
