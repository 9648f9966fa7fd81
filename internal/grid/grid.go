// Package grid holds the bead pattern grid: a fixed-size matrix of cells, each
// carrying a palette identifier, its display colour and a background flag.
package grid

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Empty is the identifier of an erased or transparent cell.
const Empty = ""

// Cell is one bead position in the pattern.
type Cell struct {
	// ID is a palette entry identifier or Empty.
	ID string `json:"id"`

	// Hex is the display colour in "#RRGGBB" form. It is empty for Empty cells.
	Hex string `json:"hex"`

	// External marks background cells that are not physical beads. They are
	// excluded from counts, completion tracking and recommendations.
	External bool `json:"external"`
}

// IsEmpty reports whether the cell holds no bead colour.
func (c Cell) IsEmpty() bool {
	return c.ID == Empty
}

// Grid is a rows×cols matrix of cells. Its dimensions never change after
// creation; edits mutate cells in place.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// New creates a grid of empty cells.
// It panics if either dimension is not positive.
func New(rows, cols int) *Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", rows, cols))
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the cell at (row, col). Out of range coordinates yield the zero Cell.
func (g *Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Cell{}
	}
	return g.cells[row*g.cols+col]
}

// Set replaces the cell at (row, col). It reports false for out of range coordinates.
func (g *Grid) Set(row, col int, c Cell) bool {
	if !g.InBounds(row, col) {
		return false
	}
	g.cells[row*g.cols+col] = c
	return true
}

// SetExternal updates only the background flag of a cell.
func (g *Grid) SetExternal(row, col int, external bool) bool {
	if !g.InBounds(row, col) {
		return false
	}
	g.cells[row*g.cols+col].External = external
	return true
}

// Paint assigns a palette colour to a cell, clearing its background flag.
func (g *Grid) Paint(row, col int, id, hex string) bool {
	return g.Set(row, col, Cell{ID: id, Hex: hex})
}

// Erase clears a cell to the empty sentinel.
func (g *Grid) Erase(row, col int) bool {
	return g.Set(row, col, Cell{})
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(row, col int, c Cell)) {
	for i, c := range g.cells {
		fn(i/g.cols, i%g.cols, c)
	}
}

// Count is a colour-count summary entry.
type Count struct {
	ID    string `json:"id"`
	Hex   string `json:"hex"`
	Count int    `json:"count"`
}

// Counts tallies every non-external, non-empty colour in the grid.
func (g *Grid) Counts() map[string]Count {
	counts := make(map[string]Count)
	for _, c := range g.cells {
		if c.External || c.IsEmpty() {
			continue
		}
		entry := counts[c.ID]
		entry.ID = c.ID
		entry.Hex = c.Hex
		entry.Count++
		counts[c.ID] = entry
	}
	return counts
}

// SortedCounts returns Counts ordered by descending count, then identifier.
func (g *Grid) SortedCounts() []Count {
	counts := g.Counts()
	out := make([]Count, 0, len(counts))
	for _, c := range counts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Distinct returns the number of distinct bead colours in the grid.
func (g *Grid) Distinct() int {
	return len(g.Counts())
}

// Beads returns the number of physical beads: non-external, non-empty cells.
func (g *Grid) Beads() int {
	n := 0
	for _, c := range g.cells {
		if !c.External && !c.IsEmpty() {
			n++
		}
	}
	return n
}

type gridJSON struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells [][]Cell `json:"cells"`
}

// MarshalJSON encodes the grid as rows of cells.
func (g *Grid) MarshalJSON() ([]byte, error) {
	out := gridJSON{Rows: g.rows, Cols: g.cols, Cells: make([][]Cell, g.rows)}
	for r := range g.rows {
		out.Cells[r] = g.cells[r*g.cols : (r+1)*g.cols]
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a grid produced by MarshalJSON.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var in gridJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Rows <= 0 || in.Cols <= 0 {
		return fmt.Errorf("invalid grid dimensions %dx%d", in.Rows, in.Cols)
	}
	if len(in.Cells) != in.Rows {
		return fmt.Errorf("grid has %d rows of cells, want %d", len(in.Cells), in.Rows)
	}

	cells := make([]Cell, 0, in.Rows*in.Cols)
	for r, row := range in.Cells {
		if len(row) != in.Cols {
			return fmt.Errorf("grid row %d has %d cells, want %d", r, len(row), in.Cols)
		}
		cells = append(cells, row...)
	}

	g.rows, g.cols, g.cells = in.Rows, in.Cols, cells
	return nil
}
