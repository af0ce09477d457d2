package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rtnut/showcase-cms/internal/model"
)

// AdminRepo reads and updates back-office accounts.
type AdminRepo struct {
	db *sqlx.DB
}

func NewAdminRepo(db *sqlx.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// GetByUsername fetches an admin by exact username or returns ErrNotFound.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (model.Admin, error) {
	var a model.Admin
	err := r.db.GetContext(ctx, &a,
		"SELECT id, username, password, created_at FROM admins WHERE username = ? LIMIT 1",
		strings.TrimSpace(username))
	return a, notFound(err)
}

// Create inserts an admin with an already hashed password.
func (r *AdminRepo) Create(ctx context.Context, username, hash string) (uint64, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO admins (username, password) VALUES (?, ?)",
		strings.TrimSpace(username), hash)
	if err != nil {
		return 0, duplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdatePassword replaces the stored hash for the admin with id.
func (r *AdminRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE admins SET password = ? WHERE id = ?", hash, id)
	return err
}
