// Package service holds logic that sits between handlers and repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/repository"
	"github.com/rtnut/showcase-cms/internal/utils"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AdminStore is the subset of the admin repository the authenticator needs.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (model.Admin, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
}

// AdminAuth verifies back-office credentials.
type AdminAuth struct {
	Admins     AdminStore
	BcryptCost int
}

func NewAdminAuth(admins AdminStore, cost int) *AdminAuth {
	return &AdminAuth{Admins: admins, BcryptCost: cost}
}

// Verify checks username and password. Accounts still carrying a legacy
// SHA-256 digest are accepted once and re-hashed with bcrypt; a failed
// re-hash is logged and does not fail the login.
func (a *AdminAuth) Verify(ctx context.Context, username, password string) (model.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Admin{}, ErrInvalidCredentials
	}
	admin, err := a.Admins.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.Admin{}, err
	}

	if utils.IsLegacyHash(admin.Password) {
		if !utils.VerifyLegacyPassword(admin.Password, password) {
			return model.Admin{}, ErrInvalidCredentials
		}
		if hash, err := utils.HashPassword(password, a.BcryptCost); err == nil {
			if err := a.Admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
				slog.Warn("rehash legacy admin password", "admin_id", admin.ID, "error", err)
			} else {
				admin.Password = hash
			}
		}
		return admin, nil
	}

	if !utils.VerifyPassword(admin.Password, password) {
		return model.Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}
