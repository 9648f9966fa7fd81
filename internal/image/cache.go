package image

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	httputil "github.com/jmylchreest/beadwork/internal/util/http"
)

// Cache stores downloaded source images on disk keyed by URL.
type Cache struct {
	// Dir is the cache directory. Empty means DefaultCacheDir.
	Dir string

	// Refresh re-downloads images that are already cached.
	Refresh bool
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "beadwork", "images"), nil
	}
	return filepath.Join(cacheDir, "beadwork", "images"), nil
}

// cacheName derives a stable file name from a URL, keeping a short extension
// so the decoder can fall back on it.
func cacheName(url string) string {
	hash := sha256.Sum256([]byte(url))
	ext := filepath.Ext(urlPath(url))
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}
	return fmt.Sprintf("%x%s", hash[:16], ext)
}

// Fetch returns the local path of url, downloading it first when it is not
// cached or Refresh is set.
func (c *Cache) Fetch(ctx context.Context, url string) (string, error) {
	if !IsURL(url) {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	dir := c.Dir
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := filepath.Join(dir, cacheName(url))
	if !c.Refresh {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	return path, nil
}
