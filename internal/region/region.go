// Package region partitions a bead grid into connected same-colour regions and
// tracks their completion against a caller-owned set of finished cells.
package region

import (
	"gonum.org/v1/gonum/stat"

	"github.com/jmylchreest/beadwork/internal/grid"
)

// Box is an inclusive bounding box in grid coordinates.
type Box struct {
	MinRow int `json:"min_row"`
	MinCol int `json:"min_col"`
	MaxRow int `json:"max_row"`
	MaxCol int `json:"max_col"`
}

// Region is a maximal 4-connected group of non-external cells sharing one
// identifier. Cells are listed in discovery order, starting from the region's
// first cell in row-major order.
type Region struct {
	ID     string       `json:"id"`
	Cells  []grid.Coord `json:"cells"`
	Bounds Box          `json:"bounds"`
}

// Len returns the number of cells in the region.
func (r Region) Len() int {
	return len(r.Cells)
}

// TouchesBorder reports whether any cell lies on the outer edge of a
// rows×cols grid.
func (r Region) TouchesBorder(rows, cols int) bool {
	if r.Len() == 0 {
		return false
	}
	b := r.Bounds
	return b.MinRow == 0 || b.MinCol == 0 || b.MaxRow == rows-1 || b.MaxCol == cols-1
}

// Center returns the mean row and column of the region's cells. The result
// need not fall on a cell.
func (r Region) Center() (row, col float64) {
	if r.Len() == 0 {
		return 0, 0
	}
	rows := make([]float64, len(r.Cells))
	cols := make([]float64, len(r.Cells))
	for i, c := range r.Cells {
		rows[i] = float64(c.Row)
		cols[i] = float64(c.Col)
	}
	return stat.Mean(rows, nil), stat.Mean(cols, nil)
}

// Of returns every region of id in g, in row-major discovery order. Each
// matching non-external cell belongs to exactly one region.
func Of(g *grid.Grid, id string) []Region {
	visited := grid.NewCoordSetFor(g)
	var regions []Region

	for r := range g.Rows() {
		for c := range g.Cols() {
			seed := grid.Coord{Row: r, Col: c}
			if visited.Has(seed) || !matches(g, seed, id) {
				continue
			}
			regions = append(regions, fill(g, seed, id, visited))
		}
	}
	return regions
}

// IDs returns every bead colour identifier present in g, in row-major order
// of first appearance, skipping external and empty cells.
func IDs(g *grid.Grid) []string {
	seen := make(map[string]bool)
	var ids []string
	g.Each(func(_, _ int, c grid.Cell) {
		if c.External || c.IsEmpty() || seen[c.ID] {
			return
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	})
	return ids
}

// Containing returns the region of id that includes (row, col).
// It reports false when the coordinate is out of range, external, or holds a
// different identifier.
func Containing(g *grid.Grid, row, col int, id string) (Region, bool) {
	seed := grid.Coord{Row: row, Col: col}
	if !matches(g, seed, id) {
		return Region{}, false
	}
	return fill(g, seed, id, grid.NewCoordSetFor(g)), true
}

// IsComplete reports whether every cell of region is in done.
// An empty region is trivially complete.
func IsComplete(region Region, done *grid.CoordSet) bool {
	for _, c := range region.Cells {
		if !done.Has(c) {
			return false
		}
	}
	return true
}

// Toggle marks every cell of region done, or clears them all when the region
// is already complete. It reports whether the region is complete afterwards.
func Toggle(done *grid.CoordSet, region Region) bool {
	if IsComplete(region, done) {
		for _, c := range region.Cells {
			done.Remove(c)
		}
		return false
	}
	for _, c := range region.Cells {
		done.Add(c)
	}
	return true
}

func matches(g *grid.Grid, p grid.Coord, id string) bool {
	if !g.InBounds(p.Row, p.Col) {
		return false
	}
	cell := g.At(p.Row, p.Col)
	return !cell.External && !cell.IsEmpty() && cell.ID == id
}

// fill collects the region around seed with an explicit stack, marking every
// collected cell in visited.
func fill(g *grid.Grid, seed grid.Coord, id string, visited *grid.CoordSet) Region {
	region := Region{
		ID:     id,
		Bounds: Box{MinRow: seed.Row, MinCol: seed.Col, MaxRow: seed.Row, MaxCol: seed.Col},
	}

	visited.Add(seed)
	stack := []grid.Coord{seed}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		region.Cells = append(region.Cells, cur)
		region.Bounds.MinRow = min(region.Bounds.MinRow, cur.Row)
		region.Bounds.MinCol = min(region.Bounds.MinCol, cur.Col)
		region.Bounds.MaxRow = max(region.Bounds.MaxRow, cur.Row)
		region.Bounds.MaxCol = max(region.Bounds.MaxCol, cur.Col)

		for _, n := range cur.Neighbours4() {
			if visited.Has(n) || !matches(g, n, id) {
				continue
			}
			visited.Add(n)
			stack = append(stack, n)
		}
	}
	return region
}
