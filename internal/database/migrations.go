package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type migration struct {
	Name    string
	Version int
	Body    string
}

// Migrate applies every embedded V<n>__*.sql file that is not yet recorded
// in schema_migrations, in version order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	migs, err := loadMigrations(migrationFiles)
	if err != nil {
		return err
	}
	return apply(ctx, db, migs)
}

func apply(ctx context.Context, db *sqlx.DB, migs []migration) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id INT AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(191) NOT NULL UNIQUE,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	var names []string
	if err := db.SelectContext(ctx, &names, `SELECT name FROM schema_migrations`); err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}
	for _, mig := range migs {
		if applied[mig.Name] {
			continue
		}
		for _, stmt := range splitStatements(mig.Body) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", mig.Name, err)
			}
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (?)`, mig.Name); err != nil {
			return fmt.Errorf("record %s: %w", mig.Name, err)
		}
	}
	return nil
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	migs := make([]migration, 0, len(entries))
	for _, path := range entries {
		name := path[strings.LastIndex(path, "/")+1:]
		version, ok := parseVersion(name)
		if !ok {
			return nil, fmt.Errorf("migration %s: name must look like V<n>__desc.sql", name)
		}
		body, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, err
		}
		migs = append(migs, migration{Name: name, Version: version, Body: string(body)})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs, nil
}

func parseVersion(name string) (int, bool) {
	if !strings.HasPrefix(name, "V") {
		return 0, false
	}
	parts := strings.SplitN(name[1:], "__", 2)
	if len(parts) != 2 {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	return v, true
}

// splitStatements breaks a migration body on semicolons that end a line.
// The MySQL driver runs one statement per Exec unless multiStatements is set.
func splitStatements(body string) []string {
	var out []string
	var cur strings.Builder
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			if stmt != "" {
				out = append(out, stmt)
			}
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}
