package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rtnut/showcase-cms/internal/model"
)

const productColumns = `id, title, COALESCE(description, '') AS description, COALESCE(detail, '') AS detail,
	price, image_path, sort, created_at`

// ProductRepo encapsulates queries against the products table.
type ProductRepo struct {
	db *sqlx.DB
}

func NewProductRepo(db *sqlx.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// List returns all products in display order.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	items := []model.Product{}
	err := r.db.SelectContext(ctx, &items, "SELECT "+productColumns+" FROM products ORDER BY sort ASC, id ASC")
	return items, err
}

// ListRelated returns up to limit products other than exclude, in display order.
func (r *ProductRepo) ListRelated(ctx context.Context, exclude uint64, limit int) ([]model.Product, error) {
	items := []model.Product{}
	err := r.db.SelectContext(ctx, &items,
		"SELECT "+productColumns+" FROM products WHERE id <> ? ORDER BY sort ASC, id ASC LIMIT ?", exclude, limit)
	return items, err
}

// Get fetches a product by id or returns ErrNotFound.
func (r *ProductRepo) Get(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := r.db.GetContext(ctx, &p, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return p, notFound(err)
}

// Create inserts p and sets its ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (title, description, detail, price, image_path, sort) VALUES (?, ?, ?, ?, ?, ?)",
		p.Title, p.Description, p.Detail, p.Price, p.ImagePath, p.Sort)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// Update overwrites the editable columns of the product with p.ID.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET title = ?, description = ?, detail = ?, price = ?, image_path = ?, sort = ? WHERE id = ?",
		p.Title, p.Description, p.Detail, p.Price, p.ImagePath, p.Sort, p.ID)
	return err
}

// Delete removes the product row.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	return err
}

// Count returns the number of products.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM products")
	return n, err
}
