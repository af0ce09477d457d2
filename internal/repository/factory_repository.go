package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rtnut/showcase-cms/internal/model"
)

const factoryColumns = "id, title, type, file_path, sort, created_at"

// FactoryRepo encapsulates queries against the factory_assets table.
type FactoryRepo struct {
	db *sqlx.DB
}

func NewFactoryRepo(db *sqlx.DB) *FactoryRepo {
	return &FactoryRepo{db: db}
}

// List returns every asset in display order.
func (r *FactoryRepo) List(ctx context.Context) ([]model.FactoryAsset, error) {
	items := []model.FactoryAsset{}
	err := r.db.SelectContext(ctx, &items, "SELECT "+factoryColumns+" FROM factory_assets ORDER BY sort ASC, id ASC")
	return items, err
}

// ListByType returns assets of one kind in display order. A limit of zero
// means no limit.
func (r *FactoryRepo) ListByType(ctx context.Context, kind model.AssetKind, limit int) ([]model.FactoryAsset, error) {
	items := []model.FactoryAsset{}
	q := "SELECT " + factoryColumns + " FROM factory_assets WHERE type = ? ORDER BY sort ASC, id ASC"
	args := []any{string(kind)}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	err := r.db.SelectContext(ctx, &items, q, args...)
	return items, err
}

// Get fetches an asset by id or returns ErrNotFound.
func (r *FactoryRepo) Get(ctx context.Context, id uint64) (model.FactoryAsset, error) {
	var a model.FactoryAsset
	err := r.db.GetContext(ctx, &a, "SELECT "+factoryColumns+" FROM factory_assets WHERE id = ?", id)
	return a, notFound(err)
}

// Create inserts a and sets its ID.
func (r *FactoryRepo) Create(ctx context.Context, a *model.FactoryAsset) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO factory_assets (title, type, file_path, sort) VALUES (?, ?, ?, ?)",
		a.Title, string(a.Type), a.FilePath, a.Sort)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// Update overwrites title, file path and sort. The type is fixed at creation.
func (r *FactoryRepo) Update(ctx context.Context, a model.FactoryAsset) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE factory_assets SET title = ?, file_path = ?, sort = ? WHERE id = ?",
		a.Title, a.FilePath, a.Sort, a.ID)
	return err
}

// Delete removes the asset row.
func (r *FactoryRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM factory_assets WHERE id = ?", id)
	return err
}

// Count returns the number of assets.
func (r *FactoryRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM factory_assets")
	return n, err
}
