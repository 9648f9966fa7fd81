// Package sampler reduces a decoded image into a coarse grid of representative
// colours, one per bead cell.
//
// Each grid cell covers a rectangle of source pixels. Pixel column x belongs
// to grid column floor(x*cols/width), and likewise for rows, so cell c spans
// [ceil(c*width/cols), ceil((c+1)*width/cols)). The rectangles partition the
// image with no gaps or overlaps; when the grid is finer than the image some
// rectangles are empty and yield transparent samples.
package sampler

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/jmylchreest/beadwork/internal/colour"
)

// Buffer is a decoded RGBA image, one byte per channel, non-premultiplied,
// rows packed tightly (stride = 4*Width).
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// FromImage converts any decoded image into a Buffer.
func FromImage(img image.Image) Buffer {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && n.Stride == 4*b.Dx() && b.Min == (image.Point{}) {
		return Buffer{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return Buffer{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

func (b Buffer) at(x, y int) colour.RGBA {
	i := (y*b.Width + x) * 4
	return colour.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Samples is the rows×cols grid of raw colours produced by Sample.
type Samples struct {
	Rows  int
	Cols  int
	cells []colour.RGBA
}

// NewSamples creates a transparent rows×cols sample grid.
func NewSamples(rows, cols int) *Samples {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("sampler: invalid dimensions %dx%d", rows, cols))
	}
	return &Samples{Rows: rows, Cols: cols, cells: make([]colour.RGBA, rows*cols)}
}

// At returns the sample for (row, col).
func (s *Samples) At(row, col int) colour.RGBA {
	return s.cells[row*s.Cols+col]
}

// Set stores the sample for (row, col).
func (s *Samples) Set(row, col int, c colour.RGBA) {
	s.cells[row*s.Cols+col] = c
}

// Sample reduces buf to a rows×cols grid using the given mode.
// It panics if the grid dimensions are not positive or the buffer is
// shorter than Width×Height×4 bytes.
func Sample(buf Buffer, cols, rows int, mode Mode) *Samples {
	if cols <= 0 || rows <= 0 {
		panic(fmt.Sprintf("sampler: invalid grid dimensions %dx%d", cols, rows))
	}
	if buf.Width < 0 || buf.Height < 0 || len(buf.Pix) < buf.Width*buf.Height*4 {
		panic(fmt.Sprintf("sampler: buffer too small for %dx%d image", buf.Width, buf.Height))
	}

	out := NewSamples(rows, cols)
	for r := range rows {
		y0, y1 := span(r, rows, buf.Height)
		for c := range cols {
			x0, x1 := span(c, cols, buf.Width)
			rect := image.Rect(x0, y0, x1, y1)
			switch mode {
			case ModeDominant:
				out.Set(r, c, dominantColour(buf, rect))
			default:
				out.Set(r, c, averageColour(buf, rect))
			}
		}
	}
	return out
}

// span returns the half-open source pixel range of cell i out of n cells
// covering size pixels.
func span(i, n, size int) (int, int) {
	return ceilDiv(i*size, n), ceilDiv((i+1)*size, n)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// averageColour calculates the mean colour of the opaque pixels in a region.
func averageColour(buf Buffer, rect image.Rectangle) colour.RGBA {
	var totalR, totalG, totalB uint64
	var count uint64

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			p := buf.at(x, y)
			if p.A == 0 {
				continue
			}
			totalR += uint64(p.R)
			totalG += uint64(p.G)
			totalB += uint64(p.B)
			count++
		}
	}

	if count == 0 {
		return colour.Transparent
	}

	avgR := uint8(min(totalR/count, 255)) // #nosec G115 - min() ensures value is <= 255
	avgG := uint8(min(totalG/count, 255)) // #nosec G115 - min() ensures value is <= 255
	avgB := uint8(min(totalB/count, 255)) // #nosec G115 - min() ensures value is <= 255

	return colour.RGBA{R: avgR, G: avgG, B: avgB, A: 255}
}

// bucket tracks one quantised histogram bin.
type bucket struct {
	count int
	first colour.RGBA
	order int
}

// dominantColour finds the most frequent colour in a region.
// Colours are quantised to 5 bits per channel before counting; the winning
// bin reports the first source pixel that fell into it. Ties go to the bin
// encountered first in row-major scan order.
func dominantColour(buf Buffer, rect image.Rectangle) colour.RGBA {
	bins := make(map[uint32]*bucket)
	var best *bucket

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			p := buf.at(x, y)
			if p.A == 0 {
				continue
			}

			packed := uint32(p.R&0xF8)<<16 | uint32(p.G&0xF8)<<8 | uint32(p.B&0xF8)
			b, ok := bins[packed]
			if !ok {
				b = &bucket{first: colour.RGBA{R: p.R, G: p.G, B: p.B, A: 255}, order: len(bins)}
				bins[packed] = b
			}
			b.count++

			if best == nil || b.count > best.count || (b.count == best.count && b.order < best.order) {
				best = b
			}
		}
	}

	if best == nil {
		return colour.Transparent
	}
	return best.first
}
