package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/session"
)

var themeColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type colorsPage struct {
	ThemeColor string
}

type footerPage struct {
	Footer model.FooterInfo
}

// Colors handles GET /admin/colors.
func (h *AdminHandler) Colors(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	color, err := h.SettingRepo.ThemeColor(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "admin/colors.html", colorsPage{ThemeColor: color})
}

// SaveColors handles POST /admin/colors. Only #rgb and #rrggbb are stored.
func (h *AdminHandler) SaveColors(c echo.Context) error {
	color := strings.TrimSpace(c.FormValue("theme_color"))
	if !themeColorRe.MatchString(color) {
		return flashRedirect(c, session.FlashDanger, "Theme color must look like #1a2b3c.", "/admin/colors")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.SettingRepo.SetThemeColor(ctx, color); err != nil {
		return err
	}
	return flashRedirect(c, session.FlashSuccess, "Theme color saved.", "/admin/colors")
}

// Footer handles GET /admin/footer.
func (h *AdminHandler) Footer(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	f, err := h.SettingRepo.Footer(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "admin/footer.html", footerPage{Footer: f})
}

// SaveFooter handles POST /admin/footer. The five fields are stored as
// submitted; blanks are allowed.
func (h *AdminHandler) SaveFooter(c echo.Context) error {
	f := model.FooterInfo{
		Address: strings.TrimSpace(c.FormValue("address")),
		Phone:   strings.TrimSpace(c.FormValue("phone")),
		Wechat:  strings.TrimSpace(c.FormValue("wechat")),
		Weibo:   strings.TrimSpace(c.FormValue("weibo")),
		Email:   strings.TrimSpace(c.FormValue("email")),
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.SettingRepo.SetFooter(ctx, f); err != nil {
		return err
	}
	return flashRedirect(c, session.FlashSuccess, "Footer information saved.", "/admin/footer")
}
