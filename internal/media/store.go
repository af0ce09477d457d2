// Package media stores uploaded files under the upload directory and
// shrinks oversized images.
package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/rtnut/showcase-cms/internal/config"
	"github.com/rtnut/showcase-cms/internal/model"
)

// PathPrefix is prepended to stored file names; records keep
// "uploads/<name>" and the site serves it at "/uploads/<name>".
const PathPrefix = "uploads/"

var (
	// ErrDisallowedType is returned when a file has no extension or its
	// extension is not allowed for the requested kind.
	ErrDisallowedType = errors.New("file type not allowed")
	// ErrNoFile is returned when the form carried no file.
	ErrNoFile = errors.New("no file uploaded")
)

// Store writes uploads to Dir and compresses images to fit MaxWidth x MaxHeight.
type Store struct {
	Dir       string
	Allowed   map[model.AssetKind][]string
	MaxWidth  int
	MaxHeight int
	Quality   int

	now func() time.Time
}

// New builds a Store from the upload configuration.
func New(cfg config.UploadConfig) *Store {
	return &Store{
		Dir: cfg.Dir,
		Allowed: map[model.AssetKind][]string{
			model.KindImage: cfg.ImageExtensions,
			model.KindVideo: cfg.VideoExtensions,
		},
		MaxWidth:  cfg.MaxWidth,
		MaxHeight: cfg.MaxHeight,
		Quality:   cfg.Quality,
		now:       time.Now,
	}
}

// EnsureDir creates the upload directory if it does not exist.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// IsAllowed reports whether filename has an extension permitted for kind.
// KindAny accepts any image or video extension.
func (s *Store) IsAllowed(filename string, kind model.AssetKind) bool {
	ext := extension(filename)
	if ext == "" {
		return false
	}
	kinds := []model.AssetKind{kind}
	if kind == model.KindAny {
		kinds = []model.AssetKind{model.KindImage, model.KindVideo}
	}
	for _, k := range kinds {
		for _, allowed := range s.Allowed[k] {
			if strings.EqualFold(allowed, ext) {
				return true
			}
		}
	}
	return false
}

// UniqueName derives "<unix>_<sanitized base>.<ext>" from filename.
func (s *Store) UniqueName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	clean := sanitize(base)
	if clean == "" {
		clean = strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	return fmt.Sprintf("%d_%s.%s", s.clock().Unix(), clean, extension(filename))
}

// Save validates and writes the uploaded file, compressing images. It
// returns the stored relative path ("uploads/<name>"); an oversized WebP
// comes back as a .png. Nothing is written when the extension is not
// allowed for kind.
func (s *Store) Save(fh *multipart.FileHeader, kind model.AssetKind) (string, error) {
	if fh == nil || fh.Filename == "" {
		return "", ErrNoFile
	}
	if !s.IsAllowed(fh.Filename, kind) {
		return "", ErrDisallowedType
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := s.EnsureDir(); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name, dst, err := s.create(s.UniqueName(fh.Filename))
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.Dir, name)
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("close upload: %w", err)
	}

	if kind == model.KindImage || (kind == model.KindAny && s.IsAllowed(name, model.KindImage)) {
		out, _, err := s.Compress(full)
		if err != nil {
			slog.Warn("image compression failed, keeping original", "file", name, "error", err)
		} else {
			name = filepath.Base(out)
		}
	}
	return PathPrefix + name, nil
}

// create opens a new file for name, adding a numeric suffix while the name
// is taken.
func (s *Store) create(name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; i <= 1000; i++ {
		f, err := os.OpenFile(filepath.Join(s.Dir, candidate), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return candidate, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, fmt.Errorf("create upload: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	return "", nil, fmt.Errorf("create upload: no free name for %s", name)
}

// Remove deletes the file behind a stored relative path. A missing file or
// an empty path is not an error; paths that leave Dir are refused.
func (s *Store) Remove(relPath string) error {
	full, ok := s.resolve(relPath)
	if !ok {
		return fmt.Errorf("refusing to remove %q", relPath)
	}
	if full == "" {
		return nil
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) resolve(relPath string) (string, bool) {
	name := strings.TrimPrefix(strings.TrimPrefix(relPath, "/"), PathPrefix)
	if name == "" {
		return "", true
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.Join(s.Dir, clean), true
}

func (s *Store) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func extension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) < 2 {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// sanitize reduces a file base name to ASCII letters, digits, '_', '-' and
// '.', turning whitespace into '_' and folding accented letters to their
// base form.
func sanitize(base string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(base) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '/' || r == '\\':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
