package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/rtnut/showcase-cms/internal/repository"
	"github.com/rtnut/showcase-cms/internal/utils"
)

// SeedAdmin creates the bootstrap administrator when no admin with that
// username exists yet. It reports whether a row was inserted.
func SeedAdmin(ctx context.Context, db *sqlx.DB, username, password string, cost int) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM admins WHERE username = ?`, username); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return false, err
	}
	_, err = repository.NewAdminRepo(db).Create(ctx, username, hash)
	if errors.Is(err, repository.ErrConflict) {
		return false, nil // created concurrently by another instance
	}
	if err != nil {
		return false, fmt.Errorf("insert admin: %w", err)
	}
	return true, nil
}
