// Package recommend chooses which incomplete region of the active colour a
// user should fill next. Every call is a pure function of its inputs; no state
// is kept between calls.
package recommend

import (
	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/region"
)

// Point is a position in grid space that need not fall on a cell.
type Point struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// Recommendation is the region to work on next and its geometric centre.
// Both are nil once every region of the colour is complete.
type Recommendation struct {
	Region *region.Region `json:"region"`
	Center *Point         `json:"center"`
}

// Reference returns the point recommendations are measured from: the last
// clicked cell when known, otherwise the grid centre.
func Reference(g *grid.Grid, last *grid.Coord) Point {
	if last != nil {
		return Point{Row: float64(last.Row), Col: float64(last.Col)}
	}
	return Point{Row: float64(g.Rows()-1) / 2, Col: float64(g.Cols()-1) / 2}
}

// Next recommends an incomplete region of id in g.
//
// last is the most recently clicked cell and may be nil. Ties under every
// policy go to the region discovered first in row-major order.
func Next(g *grid.Grid, id string, done *grid.CoordSet, last *grid.Coord, policy Policy) Recommendation {
	return Choose(region.Of(g, id), done, Reference(g, last), g.Rows(), g.Cols(), policy)
}

// Choose applies policy to precomputed regions in discovery order. rows and
// cols give the grid size used by EdgeFirst.
func Choose(regions []region.Region, done *grid.CoordSet, ref Point, rows, cols int, policy Policy) Recommendation {
	open := make([]int, 0, len(regions))
	for i := range regions {
		if !region.IsComplete(regions[i], done) {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return Recommendation{}
	}

	pick := open[0]
	switch policy {
	case Nearest:
		best := distanceSq(regions[pick], ref)
		for _, i := range open[1:] {
			if d := distanceSq(regions[i], ref); d < best {
				best, pick = d, i
			}
		}
	case Largest:
		for _, i := range open[1:] {
			if regions[i].Len() > regions[pick].Len() {
				pick = i
			}
		}
	case EdgeFirst:
		for _, i := range open {
			if regions[i].TouchesBorder(rows, cols) {
				pick = i
				break
			}
		}
	}

	chosen := regions[pick]
	row, col := chosen.Center()
	return Recommendation{Region: &chosen, Center: &Point{Row: row, Col: col}}
}

// distanceSq is the squared distance from ref to the nearest cell of r.
// Squares order the same as distances.
func distanceSq(r region.Region, ref Point) float64 {
	best := -1.0
	for _, c := range r.Cells {
		dr := float64(c.Row) - ref.Row
		dc := float64(c.Col) - ref.Col
		if d := dr*dr + dc*dc; best < 0 || d < best {
			best = d
		}
	}
	return best
}

// Progress summarises completion of one colour.
type Progress struct {
	ID        string `json:"id"`
	Regions   int    `json:"regions"`
	Complete  int    `json:"complete"`
	Cells     int    `json:"cells"`
	DoneCells int    `json:"done_cells"`
}

// Finished reports whether every region of the colour is complete.
func (p Progress) Finished() bool {
	return p.Complete == p.Regions
}

// ProgressOf counts regions and cells of id in g against done.
func ProgressOf(g *grid.Grid, id string, done *grid.CoordSet) Progress {
	p := Progress{ID: id}
	for _, r := range region.Of(g, id) {
		p.Regions++
		p.Cells += r.Len()
		complete := true
		for _, c := range r.Cells {
			if done.Has(c) {
				p.DoneCells++
			} else {
				complete = false
			}
		}
		if complete {
			p.Complete++
		}
	}
	return p
}
