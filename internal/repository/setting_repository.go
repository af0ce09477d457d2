package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/rtnut/showcase-cms/internal/model"
)

// SettingRepo is a key/value store over site_settings.
type SettingRepo struct {
	db *sqlx.DB
}

func NewSettingRepo(db *sqlx.DB) *SettingRepo {
	return &SettingRepo{db: db}
}

// Get returns the value stored under key or ErrNotFound.
func (r *SettingRepo) Get(ctx context.Context, key string) (string, error) {
	var v sql.NullString
	err := r.db.GetContext(ctx, &v, "SELECT key_value FROM site_settings WHERE key_name = ?", key)
	if err != nil {
		return "", notFound(err)
	}
	return v.String, nil
}

// Set inserts or replaces the value stored under key.
func (r *SettingRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO site_settings (key_name, key_value) VALUES (?, ?) ON DUPLICATE KEY UPDATE key_value = VALUES(key_value)",
		key, value)
	return err
}

// ThemeColor returns the configured theme color or the default.
func (r *SettingRepo) ThemeColor(ctx context.Context) (string, error) {
	v, err := r.Get(ctx, model.SettingThemeColor)
	if errors.Is(err, ErrNotFound) || (err == nil && v == "") {
		return model.DefaultThemeColor, nil
	}
	return v, err
}

// SetThemeColor stores the theme color.
func (r *SettingRepo) SetThemeColor(ctx context.Context, color string) error {
	return r.Set(ctx, model.SettingThemeColor, color)
}

// Footer returns the footer info. A missing row or a blob that does not
// decode yields the default footer; keys absent from the blob keep their
// default values.
func (r *SettingRepo) Footer(ctx context.Context) (model.FooterInfo, error) {
	def := model.DefaultFooter()
	v, err := r.Get(ctx, model.SettingFooterInfo)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return DecodeFooter(v), nil
}

// SetFooter stores the footer info as one JSON document.
func (r *SettingRepo) SetFooter(ctx context.Context, f model.FooterInfo) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return r.Set(ctx, model.SettingFooterInfo, string(raw))
}

// Site loads everything the page layout needs in one call.
func (r *SettingRepo) Site(ctx context.Context) (model.SiteSettings, error) {
	color, err := r.ThemeColor(ctx)
	if err != nil {
		return model.SiteSettings{ThemeColor: model.DefaultThemeColor, Footer: model.DefaultFooter()}, err
	}
	footer, err := r.Footer(ctx)
	return model.SiteSettings{ThemeColor: color, Footer: footer}, err
}

// DecodeFooter parses a stored footer blob onto the default footer.
func DecodeFooter(raw string) model.FooterInfo {
	f := model.DefaultFooter()
	if raw == "" {
		return f
	}
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		slog.Warn("footer_info is not valid json, using defaults", "error", err)
		return model.DefaultFooter()
	}
	return f
}
