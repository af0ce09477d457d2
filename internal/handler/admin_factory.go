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

const factoryPath = "/admin/factory"

// ListFactory handles GET /admin/factory with optional ?edit=<id> or ?add=1.
func (h *AdminHandler) ListFactory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.FactoryRepo.List(ctx)
	if err != nil {
		return err
	}
	page := crudPage[model.FactoryAsset]{Items: items, Form: model.FactoryAsset{Type: model.KindImage}}
	if raw := c.QueryParam("edit"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			session.AddFlash(c, session.FlashWarning, "Invalid asset id.")
			return c.Render(http.StatusOK, "admin/factory.html", page)
		}
		a, err := h.FactoryRepo.Get(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			session.AddFlash(c, session.FlashWarning, "Asset not found.")
		case err != nil:
			return err
		default:
			page.Form, page.Edit = a, true
		}
	} else if c.QueryParam("add") != "" {
		page.Adding = true
	}
	return c.Render(http.StatusOK, "admin/factory.html", page)
}

// SaveFactory handles POST /admin/factory. The type is chosen on create and
// kept for the lifetime of the asset; replacement files must match it.
func (h *AdminHandler) SaveFactory(c echo.Context) error {
	intent, err := parseIntent(c.FormValue("asset_id"))
	if err != nil {
		return flashRedirect(c, session.FlashDanger, "Invalid asset id.", factoryPath)
	}
	back := formTarget(factoryPath, intent)
	sort, err := parseSort(c.FormValue("sort"))
	if err != nil {
		return flashRedirect(c, session.FlashDanger, "Sort must be a whole number.", back)
	}
	a := model.FactoryAsset{
		Title: strings.TrimSpace(c.FormValue("title")),
		Type:  model.ParseAssetKind(c.FormValue("type")),
		Sort:  sort,
	}
	if a.Title == "" {
		return flashRedirect(c, session.FlashDanger, "Title is required.", back)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	var existing model.FactoryAsset
	if u, ok := intent.(updateIntent); ok {
		existing, err = h.FactoryRepo.Get(ctx, u.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return flashRedirect(c, session.FlashDanger, "Asset not found.", factoryPath)
		}
		if err != nil {
			return err
		}
		a.Type = existing.Type
	}

	newPath, err := upload(c, h.Files, "file", a.Type)
	if errors.Is(err, media.ErrDisallowedType) {
		return flashRedirect(c, session.FlashDanger, "Unsupported "+string(a.Type)+" type.", back)
	}
	if err != nil {
		return err
	}

	switch it := intent.(type) {
	case updateIntent:
		a.ID = it.ID
		a.FilePath = existing.FilePath
		if newPath != "" {
			a.FilePath = newPath
		}
		if err := h.FactoryRepo.Update(ctx, a); err != nil {
			discard(h.Files, newPath)
			return err
		}
		if newPath != "" {
			session.AddFlash(c, session.FlashSuccess, "Asset updated with the new file.")
		} else {
			session.AddFlash(c, session.FlashSuccess, "Asset updated.")
		}
	case createIntent:
		if newPath == "" {
			return flashRedirect(c, session.FlashDanger, "Please upload a file.", back)
		}
		a.FilePath = newPath
		if err := h.FactoryRepo.Create(ctx, &a); err != nil {
			discard(h.Files, newPath)
			return err
		}
		session.AddFlash(c, session.FlashSuccess, "Asset created.")
	}
	return c.Redirect(http.StatusFound, factoryPath)
}

// DeleteFactory handles GET /admin/factory/delete/:id.
func (h *AdminHandler) DeleteFactory(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return flashRedirect(c, session.FlashDanger, "Invalid asset id.", factoryPath)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	a, err := h.FactoryRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Redirect(http.StatusFound, factoryPath)
	}
	if err != nil {
		return err
	}
	removeFile(h.Files, a.FilePath)
	if err := h.FactoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	return flashRedirect(c, session.FlashSuccess, "Asset deleted.", factoryPath)
}
