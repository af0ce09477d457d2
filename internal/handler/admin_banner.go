package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/media"
	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/repository"
	"github.com/rtnut/showcase-cms/internal/session"
)

const bannersPath = "/admin/banners"

func blankBanner() model.Banner {
	return model.Banner{
		ButtonText:         model.DefaultButtonText,
		PositionTop:        model.DefaultPositionTop,
		PositionLeft:       model.DefaultPositionLeft,
		ButtonPositionTop:  model.DefaultButtonPositionTop,
		ButtonPositionLeft: model.DefaultButtonPositionLeft,
	}
}

// orDefault returns def when s is blank.
func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// ListBanners handles GET /admin/banners with optional ?edit=<id> or ?add=1.
func (h *AdminHandler) ListBanners(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.BannerRepo.List(ctx)
	if err != nil {
		return err
	}
	page := crudPage[model.Banner]{Items: items, Form: blankBanner()}
	if raw := c.QueryParam("edit"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			session.AddFlash(c, session.FlashWarning, "Invalid banner id.")
			return c.Render(http.StatusOK, "admin/banners.html", page)
		}
		b, err := h.BannerRepo.Get(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			session.AddFlash(c, session.FlashWarning, "Banner not found.")
		case err != nil:
			return err
		default:
			page.Form, page.Edit = b, true
		}
	} else if c.QueryParam("add") != "" {
		page.Adding = true
	}
	return c.Render(http.StatusOK, "admin/banners.html", page)
}

// SaveBanner handles POST /admin/banners. An empty banner_id creates, a
// numeric one updates that banner; the image is required on create and
// optional on update.
func (h *AdminHandler) SaveBanner(c echo.Context) error {
	intent, err := parseIntent(c.FormValue("banner_id"))
	if err != nil {
		return flashRedirect(c, session.FlashDanger, "Invalid banner id.", bannersPath)
	}
	sort, err := parseSort(c.FormValue("sort"))
	if err != nil {
		return flashRedirect(c, session.FlashDanger, "Sort must be a whole number.", formTarget(bannersPath, intent))
	}
	b := model.Banner{
		Title:              strings.TrimSpace(c.FormValue("title")),
		TitleHTML:          strings.TrimSpace(c.FormValue("title_html")),
		Link:               strings.TrimSpace(c.FormValue("link")),
		ButtonText:         strings.TrimSpace(c.FormValue("button_text")),
		ButtonLink:         strings.TrimSpace(c.FormValue("button_link")),
		PositionTop:        orDefault(c.FormValue("position_top"), model.DefaultPositionTop),
		PositionLeft:       orDefault(c.FormValue("position_left"), model.DefaultPositionLeft),
		ButtonPositionTop:  orDefault(c.FormValue("button_position_top"), model.DefaultButtonPositionTop),
		ButtonPositionLeft: orDefault(c.FormValue("button_position_left"), model.DefaultButtonPositionLeft),
		Sort:               sort,
	}
	if b.Title == "" {
		return flashRedirect(c, session.FlashDanger, "Title is required.", formTarget(bannersPath, intent))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	var existing model.Banner
	if u, ok := intent.(updateIntent); ok {
		existing, err = h.BannerRepo.Get(ctx, u.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return flashRedirect(c, session.FlashDanger, "Banner not found.", bannersPath)
		}
		if err != nil {
			return err
		}
	}

	newPath, err := upload(c, h.Files, "image", model.KindImage)
	if errors.Is(err, media.ErrDisallowedType) {
		return flashRedirect(c, session.FlashDanger, "Unsupported image type.", formTarget(bannersPath, intent))
	}
	if err != nil {
		return err
	}

	switch it := intent.(type) {
	case updateIntent:
		b.ID = it.ID
		b.ImagePath = existing.ImagePath
		if newPath != "" {
			b.ImagePath = newPath
		}
		if err := h.BannerRepo.Update(ctx, b); err != nil {
			discard(h.Files, newPath)
			return err
		}
		if newPath != "" {
			session.AddFlash(c, session.FlashSuccess, "Banner updated with the new image.")
		} else {
			session.AddFlash(c, session.FlashSuccess, "Banner updated.")
		}
	case createIntent:
		if newPath == "" {
			return flashRedirect(c, session.FlashDanger, "Please upload a banner image.", formTarget(bannersPath, intent))
		}
		b.ImagePath = newPath
		if err := h.BannerRepo.Create(ctx, &b); err != nil {
			discard(h.Files, newPath)
			return err
		}
		session.AddFlash(c, session.FlashSuccess, "Banner created.")
	}
	return c.Redirect(http.StatusFound, bannersPath)
}

// DeleteBanner handles GET /admin/banners/delete/:id. A missing banner is a
// silent no-op.
func (h *AdminHandler) DeleteBanner(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return flashRedirect(c, session.FlashDanger, "Invalid banner id.", bannersPath)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.BannerRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Redirect(http.StatusFound, bannersPath)
	}
	if err != nil {
		return err
	}
	removeFile(h.Files, b.ImagePath)
	if err := h.BannerRepo.Delete(ctx, id); err != nil {
		return err
	}
	return flashRedirect(c, session.FlashSuccess, "Banner deleted.", bannersPath)
}
