package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/model"
)

const dashboardRecentMessages = 5

// AdminHandler bundles the stores the back office manipulates.
type AdminHandler struct {
	BannerRepo  BannerStore  // banners
	ProductRepo ProductStore // products
	FactoryRepo FactoryStore // factory gallery
	MessageRepo MessageStore // contact messages
	SettingRepo SettingStore // theme color and footer
	Files       FileStore    // uploaded files
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(b BannerStore, p ProductStore, f FactoryStore, m MessageStore, s SettingStore, files FileStore) *AdminHandler {
	if b == nil || p == nil || f == nil || m == nil || s == nil || files == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{BannerRepo: b, ProductRepo: p, FactoryRepo: f, MessageRepo: m, SettingRepo: s, Files: files}
}

// Dashboard handles GET /admin/ and /admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	var stats model.DashboardStats
	var err error
	if stats.Messages, err = h.MessageRepo.Count(ctx); err != nil {
		return err
	}
	if stats.UnreadMessages, err = h.MessageRepo.CountUnread(ctx); err != nil {
		return err
	}
	if stats.Products, err = h.ProductRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Banners, err = h.BannerRepo.Count(ctx); err != nil {
		return err
	}
	if stats.FactoryAssets, err = h.FactoryRepo.Count(ctx); err != nil {
		return err
	}
	if stats.Recent, err = h.MessageRepo.Recent(ctx, dashboardRecentMessages); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "admin/dashboard.html", stats)
}

type messagesPage struct {
	Messages []model.Message
}

// ListMessages handles GET /admin/messages. A numeric mark_read parameter
// flags that message as read and redirects back; anything else in it is
// ignored.
func (h *AdminHandler) ListMessages(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if id, ok := parseID(c.QueryParam("mark_read")); ok {
		if err := h.MessageRepo.MarkRead(ctx, id); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, "/admin/messages")
	}
	items, err := h.MessageRepo.List(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "admin/messages.html", messagesPage{Messages: items})
}
