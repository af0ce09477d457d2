// Package handler exposes HTTP handlers for the public site and the admin
// back office. This file holds the read-only public pages.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/repository"
	"github.com/rtnut/showcase-cms/internal/session"
)

const (
	homeFactoryImages = 4 // factory photos teased on the home page
	relatedProducts   = 3
)

// PublicHandler aggregates the stores needed for the public pages.
type PublicHandler struct {
	BannerRepo  BannerStore  // hero slides
	ProductRepo ProductStore // catalog
	FactoryRepo FactoryStore // gallery
}

func NewPublicHandler(b BannerStore, p ProductStore, f FactoryStore) *PublicHandler {
	if b == nil || p == nil || f == nil {
		panic("nil store passed to NewPublicHandler")
	}
	return &PublicHandler{BannerRepo: b, ProductRepo: p, FactoryRepo: f}
}

type homePage struct {
	Banners       []model.Banner
	Products      []model.Product
	FactoryImages []model.FactoryAsset
}

// Index handles GET / with banners, products and a few factory photos.
func (h *PublicHandler) Index(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	banners, err := h.BannerRepo.List(ctx)
	if err != nil {
		return err
	}
	products, err := h.ProductRepo.List(ctx)
	if err != nil {
		return err
	}
	images, err := h.FactoryRepo.ListByType(ctx, model.KindImage, homeFactoryImages)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "site/index.html", homePage{Banners: banners, Products: products, FactoryImages: images})
}

type productPage struct {
	Product model.Product
	Related []model.Product
}

// ProductDetail handles GET /product/:id. Unknown or malformed ids go back
// to the home page with an error flash.
func (h *PublicHandler) ProductDetail(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return flashRedirect(c, session.FlashDanger, "Product not found.", "/")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.ProductRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return flashRedirect(c, session.FlashDanger, "Product not found.", "/")
	}
	if err != nil {
		return err
	}
	related, err := h.ProductRepo.ListRelated(ctx, id, relatedProducts)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "site/product.html", productPage{Product: p, Related: related})
}

type factoryPage struct {
	Images []model.FactoryAsset
	Videos []model.FactoryAsset
}

// Factory handles GET /factory with photos and videos as separate lists.
func (h *PublicHandler) Factory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	images, err := h.FactoryRepo.ListByType(ctx, model.KindImage, 0)
	if err != nil {
		return err
	}
	videos, err := h.FactoryRepo.ListByType(ctx, model.KindVideo, 0)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "site/factory.html", factoryPage{Images: images, Videos: videos})
}
