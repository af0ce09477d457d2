package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/media"
	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/repository"
	"github.com/rtnut/showcase-cms/internal/session"
)

const productsPath = "/admin/products"

// DECIMAL(10,2): at most 8 integer digits and 2 fraction digits.
var priceRe = regexp.MustCompile(`^[0-9]{1,8}(\.[0-9]{1,2})?$`)

var errBadPrice = errors.New("invalid price")

// normalizePrice validates a price field and renders it with exactly two
// decimals. Blank means free.
func normalizePrice(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "0.00", nil
	}
	if !priceRe.MatchString(raw) {
		return "", errBadPrice
	}
	whole, frac, _ := strings.Cut(raw, ".")
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}
	return whole + "." + frac, nil
}

// ListProducts handles GET /admin/products with optional ?edit=<id> or ?add=1.
func (h *AdminHandler) ListProducts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.ProductRepo.List(ctx)
	if err != nil {
		return err
	}
	page := crudPage[model.Product]{Items: items, Form: model.Product{Price: "0.00"}}
	if raw := c.QueryParam("edit"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			session.AddFlash(c, session.FlashWarning, "Invalid product id.")
			return c.Render(http.StatusOK, "admin/products.html", page)
		}
		p, err := h.ProductRepo.Get(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			session.AddFlash(c, session.FlashWarning, "Product not found.")
		case err != nil:
			return err
		default:
			page.Form, page.Edit = p, true
		}
	} else if c.QueryParam("add") != "" {
		page.Adding = true
	}
	return c.Render(http.StatusOK, "admin/products.html", page)
}

// SaveProduct handles POST /admin/products. See SaveBanner for the
// create/update rules.
func (h *AdminHandler) SaveProduct(c echo.Context) error {
	intent, err := parseIntent(c.FormValue("product_id"))
	if err != nil {
		return flashRedirect(c, session.FlashDanger, "Invalid product id.", productsPath)
	}
	back := formTarget(productsPath, intent)
	sort, err := parseSort(c.FormValue("sort"))
	if err != nil {
		return flashRedirect(c, session.FlashDanger, "Sort must be a whole number.", back)
	}
	price, err := normalizePrice(c.FormValue("price"))
	if err != nil {
		return flashRedirect(c, session.FlashDanger, "Price must be a non-negative amount with at most two decimals.", back)
	}
	p := model.Product{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Detail:      strings.TrimSpace(c.FormValue("detail")),
		Price:       price,
		Sort:        sort,
	}
	if p.Title == "" {
		return flashRedirect(c, session.FlashDanger, "Title is required.", back)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	var existing model.Product
	if u, ok := intent.(updateIntent); ok {
		existing, err = h.ProductRepo.Get(ctx, u.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return flashRedirect(c, session.FlashDanger, "Product not found.", productsPath)
		}
		if err != nil {
			return err
		}
	}

	newPath, err := upload(c, h.Files, "image", model.KindImage)
	if errors.Is(err, media.ErrDisallowedType) {
		return flashRedirect(c, session.FlashDanger, "Unsupported image type.", back)
	}
	if err != nil {
		return err
	}

	switch it := intent.(type) {
	case updateIntent:
		p.ID = it.ID
		p.ImagePath = existing.ImagePath
		if newPath != "" {
			p.ImagePath = newPath
		}
		if err := h.ProductRepo.Update(ctx, p); err != nil {
			discard(h.Files, newPath)
			return err
		}
		if newPath != "" {
			session.AddFlash(c, session.FlashSuccess, "Product updated with the new image.")
		} else {
			session.AddFlash(c, session.FlashSuccess, "Product updated.")
		}
	case createIntent:
		if newPath == "" {
			return flashRedirect(c, session.FlashDanger, "Please upload a product image.", back)
		}
		p.ImagePath = newPath
		if err := h.ProductRepo.Create(ctx, &p); err != nil {
			discard(h.Files, newPath)
			return err
		}
		session.AddFlash(c, session.FlashSuccess, "Product created.")
	}
	return c.Redirect(http.StatusFound, productsPath)
}

// DeleteProduct handles GET /admin/products/delete/:id.
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return flashRedirect(c, session.FlashDanger, "Invalid product id.", productsPath)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.ProductRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Redirect(http.StatusFound, productsPath)
	}
	if err != nil {
		return err
	}
	removeFile(h.Files, p.ImagePath)
	if err := h.ProductRepo.Delete(ctx, id); err != nil {
		return err
	}
	return flashRedirect(c, session.FlashSuccess, "Product deleted.", productsPath)
}
