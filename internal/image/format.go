package image

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// format is one decodable image encoding.
type format struct {
	name         string
	exts         []string
	match        func(head []byte) bool
	decode       func(io.Reader) (image.Image, error)
	decodeConfig func(io.Reader) (image.Config, error)
}

func prefix(magic string) func([]byte) bool {
	return func(head []byte) bool { return bytes.HasPrefix(head, []byte(magic)) }
}

func isWebP(head []byte) bool {
	return len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WEBP"
}

// formats is checked in order. TGA has no magic number and is only chosen by
// file extension.
var formats = []format{
	{name: "png", exts: []string{".png"}, match: prefix("\x89PNG\r\n\x1a\n"), decode: png.Decode, decodeConfig: png.DecodeConfig},
	{name: "jpeg", exts: []string{".jpg", ".jpeg"}, match: prefix("\xff\xd8"), decode: jpeg.Decode, decodeConfig: jpeg.DecodeConfig},
	{name: "gif", exts: []string{".gif"}, match: prefix("GIF8"), decode: gif.Decode, decodeConfig: gif.DecodeConfig},
	{name: "webp", exts: []string{".webp"}, match: isWebP, decode: webp.Decode, decodeConfig: webp.DecodeConfig},
	{name: "bmp", exts: []string{".bmp"}, match: prefix("BM"), decode: bmp.Decode, decodeConfig: bmp.DecodeConfig},
	{name: "tga", exts: []string{".tga"}, decode: tga.Decode, decodeConfig: tga.DecodeConfig},
}

// SupportedImageExtensions returns the file extensions that can be decoded.
func SupportedImageExtensions() []string {
	var out []string
	for _, f := range formats {
		out = append(out, f.exts...)
	}
	return out
}

// detect picks the format of data, falling back to the extension of name
// when no magic number matches.
func detect(data []byte, name string) (format, error) {
	for _, f := range formats {
		if f.match != nil && f.match(data) {
			return f, nil
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, f := range formats {
		for _, e := range f.exts {
			if e == ext {
				return f, nil
			}
		}
	}
	return format{}, fmt.Errorf("unrecognised image format")
}

// Decode reads and decodes an image. name is a file name or URL path used
// when the data carries no recognisable magic number.
func Decode(r io.Reader, name string) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	f, err := detect(data, name)
	if err != nil {
		return nil, "", err
	}
	img, err := f.decode(bytes.NewReader(data))
	if err != nil {
		return nil, f.name, fmt.Errorf("failed to decode image (format: %s): %w", f.name, err)
	}
	return img, f.name, nil
}

// DecodeConfig returns the dimensions and format name without decoding pixels.
func DecodeConfig(r io.Reader, name string) (image.Config, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to read image: %w", err)
	}
	f, err := detect(data, name)
	if err != nil {
		return image.Config{}, "", err
	}
	cfg, err := f.decodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, f.name, fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return cfg, f.name, nil
}
