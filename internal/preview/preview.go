// Package preview renders bead grids for export and terminal display.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	xdraw "golang.org/x/image/draw"

	"github.com/jmylchreest/beadwork/internal/colour"
	"github.com/jmylchreest/beadwork/internal/grid"
)

// Format is an image export format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ValidFormats returns every image export format.
func ValidFormats() []Format {
	return []Format{FormatPNG, FormatWebP}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range ValidFormats() {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid image format: %s (valid: %v)", s, ValidFormats())
}

// Options controls rendering.
type Options struct {
	// GridLines draws a one-pixel line between cells.
	GridLines bool

	// LineColour is the grid line colour. The zero value is mid grey.
	LineColour color.NRGBA

	// ShowExternal draws background cells in their colour instead of
	// leaving them transparent.
	ShowExternal bool
}

var defaultLine = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Render draws g with each cell as a cellSize×cellSize square. Empty cells,
// and external cells unless ShowExternal is set, are transparent.
func Render(g *grid.Grid, cellSize int, opts Options) *image.NRGBA {
	if cellSize < 1 {
		cellSize = 1
	}

	// One pixel per cell, then scale up.
	small := image.NewNRGBA(image.Rect(0, 0, g.Cols(), g.Rows()))
	g.Each(func(r, c int, cell grid.Cell) {
		if cell.IsEmpty() || (cell.External && !opts.ShowExternal) {
			return
		}
		rgb, err := colour.ParseHex(cell.Hex)
		if err != nil {
			return
		}
		small.SetNRGBA(c, r, rgb.Color())
	})
	if cellSize == 1 {
		return small
	}

	out := image.NewNRGBA(image.Rect(0, 0, g.Cols()*cellSize, g.Rows()*cellSize))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	if opts.GridLines {
		line := opts.LineColour
		if line == (color.NRGBA{}) {
			line = defaultLine
		}
		b := out.Bounds()
		for x := cellSize; x < b.Dx(); x += cellSize {
			for y := range b.Dy() {
				out.SetNRGBA(x, y, line)
			}
		}
		for y := cellSize; y < b.Dy(); y += cellSize {
			for x := range b.Dx() {
				out.SetNRGBA(x, y, line)
			}
		}
	}
	return out
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG, "":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		return fmt.Errorf("invalid image format: %s (valid: %v)", format, ValidFormats())
	}
	return nil
}
