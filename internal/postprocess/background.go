package postprocess

import "github.com/jmylchreest/beadwork/internal/grid"

// BackgroundResult describes what a RemoveBackground call changed.
type BackgroundResult struct {
	// ID is the background colour identifier, or grid.Empty if the border
	// holds no colour at all.
	ID string

	// Hex is the background display colour.
	Hex string

	// Marked is the number of cells newly flagged external.
	Marked int

	// External is the total number of external cells after the call.
	External int
}

// borderCoords lists each border cell once: the top row left to right, the
// bottom row left to right, then the left and right columns top to bottom
// without their corners.
func borderCoords(rows, cols int) []grid.Coord {
	out := make([]grid.Coord, 0, 2*(rows+cols))
	for c := range cols {
		out = append(out, grid.Coord{Row: 0, Col: c})
	}
	if rows > 1 {
		for c := range cols {
			out = append(out, grid.Coord{Row: rows - 1, Col: c})
		}
	}
	for r := 1; r < rows-1; r++ {
		out = append(out, grid.Coord{Row: r, Col: 0})
	}
	if cols > 1 {
		for r := 1; r < rows-1; r++ {
			out = append(out, grid.Coord{Row: r, Col: cols - 1})
		}
	}
	return out
}

// BackgroundColour returns the most common colour along the grid border.
// Equal tallies go to the colour encountered first. Empty cells are not
// counted; external cells are, since marking leaves colours unchanged.
func BackgroundColour(g *grid.Grid) (grid.Cell, bool) {
	border := borderCoords(g.Rows(), g.Cols())

	counts := make(map[string]int)
	var order []grid.Cell
	for _, p := range border {
		cell := g.At(p.Row, p.Col)
		if cell.IsEmpty() {
			continue
		}
		if counts[cell.ID] == 0 {
			order = append(order, grid.Cell{ID: cell.ID, Hex: cell.Hex})
		}
		counts[cell.ID]++
	}

	if len(order) == 0 {
		return grid.Cell{}, false
	}
	best := order[0]
	for _, c := range order[1:] {
		if counts[c.ID] > counts[best.ID] {
			best = c
		}
	}
	return best, true
}

// RemoveBackground flags the outer region of the background colour as external.
//
// Starting from every border cell of the background colour, a 4-connected
// flood fill over cells of that colour marks each visited cell external.
// Colours are left unchanged. Running it again on the result marks nothing new.
func RemoveBackground(g *grid.Grid) BackgroundResult {
	bg, ok := BackgroundColour(g)
	if !ok {
		return BackgroundResult{External: countExternal(g)}
	}

	result := BackgroundResult{ID: bg.ID, Hex: bg.Hex}
	visited := grid.NewCoordSetFor(g)
	stack := make([]grid.Coord, 0, 64)

	for _, seed := range borderCoords(g.Rows(), g.Cols()) {
		if visited.Has(seed) || g.At(seed.Row, seed.Col).ID != bg.ID {
			continue
		}
		visited.Add(seed)
		stack = append(stack[:0], seed)

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !g.At(cur.Row, cur.Col).External {
				g.SetExternal(cur.Row, cur.Col, true)
				result.Marked++
			}

			for _, n := range cur.Neighbours4() {
				if !g.InBounds(n.Row, n.Col) || visited.Has(n) {
					continue
				}
				if g.At(n.Row, n.Col).ID != bg.ID {
					continue
				}
				visited.Add(n)
				stack = append(stack, n)
			}
		}
	}

	result.External = countExternal(g)
	return result
}

// RestoreBackground clears every external flag and returns how many were cleared.
func RestoreBackground(g *grid.Grid) int {
	n := 0
	for r := range g.Rows() {
		for c := range g.Cols() {
			if g.At(r, c).External {
				g.SetExternal(r, c, false)
				n++
			}
		}
	}
	return n
}

func countExternal(g *grid.Grid) int {
	n := 0
	g.Each(func(_, _ int, c grid.Cell) {
		if c.External {
			n++
		}
	})
	return n
}
