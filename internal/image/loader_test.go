package image

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"golang.org/x/image/bmp"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestFileLoaderFormats tests that PNG and BMP files decode to the same pixels.
func TestFileLoaderFormats(t *testing.T) {
	dir := t.TempDir()
	src := checker(4, 3)

	var bmpBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, src); err != nil {
		t.Fatal(err)
	}
	bmpPath := filepath.Join(dir, "check.bmp")
	if err := os.WriteFile(bmpPath, bmpBuf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	paths := map[string]string{
		"png": writePNG(t, dir, "check.png", src),
		"bmp": bmpPath,
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			img, err := NewFileLoader().Load(context.Background(), path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			r, _, b, _ := img.At(1, 0).RGBA()
			if r != 0 || b != 0xffff {
				t.Errorf("pixel (1,0) = r%d b%d, want blue", r, b)
			}
		})
	}
}

// TestFileLoaderErrors tests the error paths of FileLoader.
func TestFileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "missing file", path: filepath.Join(dir, "missing.png")},
		{name: "directory", path: dir},
		{name: "bad data", path: junk},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFileLoader().Load(context.Background(), tt.path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDetectByMagicBeforeExtension(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, checker(2, 2)); err != nil {
		t.Fatal(err)
	}
	// A PNG saved with the wrong extension still decodes as PNG.
	_, name, err := Decode(bytes.NewReader(buf.Bytes()), "photo.jpg")
	if err != nil || name != "png" {
		t.Errorf("Decode() format = %q, err = %v; want png", name, err)
	}

	if _, _, err := Decode(bytes.NewReader([]byte("????")), "photo.xyz"); err == nil {
		t.Error("expected unrecognised format error")
	}
}

func TestValidateImagePath(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "ok.png", checker(2, 2))
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "png", path: good},
		{name: "url", path: "https://example.com/a.png"},
		{name: "url without host", path: "https:///a.png", wantErr: true},
		{name: "empty", path: "", wantErr: true},
		{name: "unsupported extension", path: txt, wantErr: true},
		{name: "missing", path: filepath.Join(dir, "nope.png"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImagePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}

	w, h, err := Dimensions(good)
	if err != nil || w != 2 || h != 2 {
		t.Errorf("Dimensions() = %d, %d, %v", w, h, err)
	}
}

// TestSmartLoaderURL tests loading over HTTP with and without the cache.
func TestSmartLoaderURL(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, checker(3, 3)); err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("User-Agent") == "" {
			t.Error("request without User-Agent")
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	url := server.URL + "/pattern.png?size=3"
	ctx := context.Background()

	loader := NewSmartLoader()
	if _, err := loader.Load(ctx, url); err != nil {
		t.Fatalf("Load without cache: %v", err)
	}

	loader.Cache = &Cache{Dir: t.TempDir()}
	for range 2 {
		img, err := loader.Load(ctx, url)
		if err != nil {
			t.Fatalf("Load with cache: %v", err)
		}
		if img.Bounds().Dx() != 3 {
			t.Errorf("bounds = %v", img.Bounds())
		}
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times, want 2 (second cached load must not fetch)", got)
	}
}

func TestSmartLoaderHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	if _, err := NewSmartLoader().Load(context.Background(), server.URL+"/missing.png"); err == nil {
		t.Error("expected an error for HTTP 404")
	}
}

func TestCacheName(t *testing.T) {
	a := cacheName("https://example.com/a.png?x=1")
	b := cacheName("https://example.com/a.png?x=2")
	if a == b {
		t.Error("different URLs share a cache name")
	}
	if filepath.Ext(a) != ".png" {
		t.Errorf("cache name %q lost the extension", a)
	}
	if filepath.Ext(cacheName("https://example.com/photo")) != ".img" {
		t.Error("extensionless URL should get the default extension")
	}
}
