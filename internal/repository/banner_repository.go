package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rtnut/showcase-cms/internal/model"
)

const bannerColumns = `id, title, COALESCE(title_html, '') AS title_html, image_path, link, button_text,
	button_link, position_top, position_left, button_position_top, button_position_left, sort, created_at`

// BannerRepo encapsulates queries against the banners table.
type BannerRepo struct {
	db *sqlx.DB
}

// NewBannerRepo constructs a BannerRepo with the provided DB handle.
func NewBannerRepo(db *sqlx.DB) *BannerRepo {
	return &BannerRepo{db: db}
}

// List returns all banners in display order.
func (r *BannerRepo) List(ctx context.Context) ([]model.Banner, error) {
	items := []model.Banner{}
	err := r.db.SelectContext(ctx, &items, "SELECT "+bannerColumns+" FROM banners ORDER BY sort ASC, id ASC")
	return items, err
}

// Get fetches a banner by id or returns ErrNotFound.
func (r *BannerRepo) Get(ctx context.Context, id uint64) (model.Banner, error) {
	var b model.Banner
	err := r.db.GetContext(ctx, &b, "SELECT "+bannerColumns+" FROM banners WHERE id = ?", id)
	return b, notFound(err)
}

// Create inserts b and sets its ID.
func (r *BannerRepo) Create(ctx context.Context, b *model.Banner) error {
	const q = `INSERT INTO banners (title, title_html, image_path, link, button_text, button_link,
		position_top, position_left, button_position_top, button_position_left, sort)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.Title, b.TitleHTML, b.ImagePath, b.Link, b.ButtonText, b.ButtonLink,
		b.PositionTop, b.PositionLeft, b.ButtonPositionTop, b.ButtonPositionLeft, b.Sort)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// Update overwrites every editable column of the banner with b.ID,
// image_path included. Callers keep the stored path when no new file came in.
func (r *BannerRepo) Update(ctx context.Context, b model.Banner) error {
	const q = `UPDATE banners SET title = ?, title_html = ?, image_path = ?, link = ?, button_text = ?,
		button_link = ?, position_top = ?, position_left = ?, button_position_top = ?,
		button_position_left = ?, sort = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, b.Title, b.TitleHTML, b.ImagePath, b.Link, b.ButtonText, b.ButtonLink,
		b.PositionTop, b.PositionLeft, b.ButtonPositionTop, b.ButtonPositionLeft, b.Sort, b.ID)
	return err
}

// Delete removes the banner row. Deleting a missing id is not an error.
func (r *BannerRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM banners WHERE id = ?", id)
	return err
}

// Count returns the number of banners.
func (r *BannerRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM banners")
	return n, err
}
