// Package repository defines the data access layer and the error values
// shared across repositories. Handlers compare against these sentinels with
// errors.Is to pick a response.
package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup by id or key matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update hits a unique key.
var ErrConflict = errors.New("conflict")

// notFound maps sql.ErrNoRows onto ErrNotFound and leaves other errors alone.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// duplicate maps MySQL error 1062 (duplicate entry) onto ErrConflict.
func duplicate(err error) error {
	if err != nil && strings.Contains(err.Error(), "1062") {
		return ErrConflict
	}
	return err
}
