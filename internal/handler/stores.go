package handler

import (
	"context"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/session"
)

// The interfaces below are the slices of the repositories, the media store
// and the session manager that the handlers use.

// BannerStore persists banners.
type BannerStore interface {
	List(ctx context.Context) ([]model.Banner, error)
	Get(ctx context.Context, id uint64) (model.Banner, error)
	Create(ctx context.Context, b *model.Banner) error
	Update(ctx context.Context, b model.Banner) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int, error)
}

// ProductStore persists products.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	ListRelated(ctx context.Context, exclude uint64, limit int) ([]model.Product, error)
	Get(ctx context.Context, id uint64) (model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int, error)
}

// FactoryStore persists factory gallery assets.
type FactoryStore interface {
	List(ctx context.Context) ([]model.FactoryAsset, error)
	ListByType(ctx context.Context, kind model.AssetKind, limit int) ([]model.FactoryAsset, error)
	Get(ctx context.Context, id uint64) (model.FactoryAsset, error)
	Create(ctx context.Context, a *model.FactoryAsset) error
	Update(ctx context.Context, a model.FactoryAsset) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int, error)
}

// MessageStore persists contact messages.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	List(ctx context.Context) ([]model.Message, error)
	Recent(ctx context.Context, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int, error)
	CountUnread(ctx context.Context) (int, error)
}

// SettingStore reads and writes site-wide settings.
type SettingStore interface {
	ThemeColor(ctx context.Context) (string, error)
	SetThemeColor(ctx context.Context, color string) error
	Footer(ctx context.Context) (model.FooterInfo, error)
	SetFooter(ctx context.Context, f model.FooterInfo) error
}

// FileStore writes and removes uploaded files.
type FileStore interface {
	Save(fh *multipart.FileHeader, kind model.AssetKind) (string, error)
	Remove(relPath string) error
}

// Authenticator verifies admin credentials.
type Authenticator interface {
	Verify(ctx context.Context, username, password string) (model.Admin, error)
}

// SessionManager starts and ends admin sessions.
type SessionManager interface {
	Login(c echo.Context, username string) (session.Session, error)
	Logout(c echo.Context) error
}
