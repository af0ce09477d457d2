package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/session"
)

// saveIntent says whether an admin form submission creates a new row or
// updates an existing one. It is decided from the hidden id field alone.
type saveIntent interface{ isSaveIntent() }

type createIntent struct{}

type updateIntent struct{ ID uint64 }

func (createIntent) isSaveIntent() {}
func (updateIntent) isSaveIntent() {}

var errBadID = errors.New("invalid id")

// parseIntent maps an empty id to createIntent and a numeric id to
// updateIntent. Anything else is rejected instead of silently creating.
func parseIntent(raw string) (saveIntent, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return createIntent{}, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, errBadID
	}
	return updateIntent{ID: id}, nil
}

// crudPage is the template payload for the admin list + form screens.
type crudPage[T any] struct {
	Items  []T
	Form   T
	Edit   bool // Form holds an existing row
	Adding bool // Form is a blank create form
}

// reqCtx bounds database work for one request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// parseID reads a positive numeric id.
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseSort reads the sort field; blank means 0.
func parseSort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// flashRedirect queues a flash message and redirects.
func flashRedirect(c echo.Context, category, msg, to string) error {
	session.AddFlash(c, category, msg)
	return c.Redirect(http.StatusFound, to)
}

// formTarget is where a rejected admin form sends the browser back to.
func formTarget(list string, intent saveIntent) string {
	if u, ok := intent.(updateIntent); ok {
		return list + "?edit=" + strconv.FormatUint(u.ID, 10)
	}
	return list + "?add=1"
}

// upload stores the optional file in field. It returns "" when the form
// carried no file.
func upload(c echo.Context, files FileStore, field string, kind model.AssetKind) (string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if fh.Filename == "" || fh.Size == 0 {
		return "", nil
	}
	return files.Save(fh, kind)
}

// discard removes a freshly written upload after a failed database write.
func discard(files FileStore, relPath string) {
	if relPath == "" {
		return
	}
	if err := files.Remove(relPath); err != nil {
		slog.Warn("remove orphaned upload", "path", relPath, "error", err)
	}
}

// removeFile deletes the file behind a record that is about to be deleted.
// Failures are logged and do not block the delete.
func removeFile(files FileStore, relPath string) {
	if relPath == "" {
		return
	}
	if err := files.Remove(relPath); err != nil {
		slog.Warn("remove upload of deleted record", "path", relPath, "error", err)
	}
}
