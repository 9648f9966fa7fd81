package palette

import (
	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/sampler"
)

// Match assigns every sample its nearest palette entry and returns the grid.
//
// Transparent samples become Empty cells. An empty or nil palette is a
// configuration error that degrades to assigning fallback to every opaque
// sample. No cell is marked external.
func Match(samples *sampler.Samples, p *Palette, fallback Entry) *grid.Grid {
	g := grid.New(samples.Rows, samples.Cols)

	// Exact colour repeats are common in flat artwork.
	cache := make(map[[3]uint8]Entry)

	for r := range samples.Rows {
		for c := range samples.Cols {
			s := samples.At(r, c)
			if s.IsTransparent() {
				continue
			}

			key := [3]uint8{s.R, s.G, s.B}
			e, ok := cache[key]
			if !ok {
				e, _, ok = p.Nearest(s.RGB())
				if !ok {
					e = fallback
				}
				cache[key] = e
			}
			g.Paint(r, c, e.ID, e.Hex)
		}
	}
	return g
}
