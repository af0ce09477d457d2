package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// FitScale returns min(maxW/w, maxH/h, 1).
func FitScale(w, h, maxW, maxH int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return math.Min(1, math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h)))
}

// Compress shrinks the image at path so it fits the configured bounds,
// keeping its aspect ratio and never upscaling. It returns the path now
// holding the image and whether anything was rewritten. Formats imaging can
// only read (WebP) are written back as PNG under a new name in Dir and the
// original is removed. The original stays in place on any error.
func (s *Store) Compress(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return path, false, err
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return path, false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	scale := FitScale(cfg.Width, cfg.Height, s.MaxWidth, s.MaxHeight)
	if scale >= 1 {
		return path, false, nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return path, false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	w := max(1, int(math.Round(float64(cfg.Width)*scale)))
	h := max(1, int(math.Round(float64(cfg.Height)*scale)))
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return s.convert(path, resized)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".compress-*")
	if err != nil {
		return path, false, err
	}
	tmpName := tmp.Name()
	if err := imaging.Encode(tmp, resized, format, imaging.JPEGQuality(s.Quality)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return path, false, fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return path, false, err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return path, false, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return path, false, err
	}
	return path, true, nil
}

// convert stores img as "<stem>.png" in Dir and drops the file at path.
func (s *Store) convert(path string, img image.Image) (string, bool, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name, dst, err := s.create(stem + ".png")
	if err != nil {
		return path, false, err
	}
	full := filepath.Join(s.Dir, name)
	if err := imaging.Encode(dst, img, imaging.PNG); err != nil {
		dst.Close()
		os.Remove(full)
		return path, false, fmt.Errorf("encode %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(full)
		return path, false, err
	}
	if err := os.Remove(path); err != nil {
		slog.Warn("remove converted original", "file", filepath.Base(path), "error", err)
	}
	return full, true, nil
}
