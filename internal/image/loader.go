// Package image loads source photographs for pattern generation from local
// files and HTTP(S) URLs.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jmylchreest/beadwork/internal/security"
	httputil "github.com/jmylchreest/beadwork/internal/util/http"
)

// Loader loads an image from a path or URL.
type Loader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}

// IsURL reports whether path is an HTTP(S) URL rather than a local file.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// FileLoader loads images from the local filesystem.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load decodes the file at path.
// Supported formats: JPEG, PNG, GIF, WebP, BMP, TGA.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := Decode(file, path)
	return img, err
}

func checkFile(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file not found: %s", path)
		}
		return fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return nil
}

// ValidateImagePath checks that path is a URL or a readable image file of a
// supported format. URLs are checked for form only, not fetched.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	if IsURL(path) {
		return security.ValidateImageURL(path)
	}
	if err := checkFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && !slices.Contains(SupportedImageExtensions(), ext) {
		return fmt.Errorf("unsupported image extension %q (supported: %s)", ext,
			strings.Join(SupportedImageExtensions(), ", "))
	}

	_, _, err := Dimensions(path)
	return err
}

// Dimensions returns the width and height of an image without decoding its pixels.
func Dimensions(path string) (width, height int, err error) {
	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	cfg, _, err := DecodeConfig(file, path)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// SmartLoader loads images from local files and HTTP(S) URLs. When Cache is
// set, downloads are stored there and reused by later loads.
type SmartLoader struct {
	fileLoader *FileLoader
	Cache      *Cache
}

// NewSmartLoader creates a SmartLoader without a download cache.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{fileLoader: NewFileLoader()}
}

// Load loads an image from either a local file path or an HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if !IsURL(path) {
		return l.fileLoader.Load(ctx, path)
	}

	if l.Cache != nil {
		local, err := l.Cache.Fetch(ctx, path)
		if err != nil {
			return nil, err
		}
		return l.fileLoader.Load(ctx, local)
	}

	data, err := httputil.Fetch(ctx, path, httputil.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	img, _, err := Decode(bytes.NewReader(data), urlPath(path))
	return img, err
}

// urlPath strips the query and fragment so the extension can be inspected.
func urlPath(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
