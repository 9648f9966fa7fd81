package grid

import (
	"encoding/json"
	"fmt"
)

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Neighbours4 returns the four orthogonal neighbours of c. Callers bound-check.
func (c Coord) Neighbours4() [4]Coord {
	return [4]Coord{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}

// CoordSet is a set of in-bounds coordinates backed by a flat boolean array
// sized rows×cols. The zero value is not usable; use NewCoordSet.
type CoordSet struct {
	rows int
	cols int
	bits []bool
	n    int
}

// NewCoordSet creates an empty set for a rows×cols grid.
func NewCoordSet(rows, cols int) *CoordSet {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("grid: invalid coordinate set dimensions %dx%d", rows, cols))
	}
	return &CoordSet{rows: rows, cols: cols, bits: make([]bool, rows*cols)}
}

// NewCoordSetFor creates an empty set sized for g.
func NewCoordSetFor(g *Grid) *CoordSet {
	return NewCoordSet(g.rows, g.cols)
}

func (s *CoordSet) index(c Coord) (int, bool) {
	if c.Row < 0 || c.Row >= s.rows || c.Col < 0 || c.Col >= s.cols {
		return 0, false
	}
	return c.Row*s.cols + c.Col, true
}

// Add inserts c. Out of range coordinates are ignored and report false.
func (s *CoordSet) Add(c Coord) bool {
	i, ok := s.index(c)
	if !ok {
		return false
	}
	if !s.bits[i] {
		s.bits[i] = true
		s.n++
	}
	return true
}

// Remove deletes c from the set.
func (s *CoordSet) Remove(c Coord) {
	i, ok := s.index(c)
	if !ok || !s.bits[i] {
		return
	}
	s.bits[i] = false
	s.n--
}

// Has reports whether c is in the set.
func (s *CoordSet) Has(c Coord) bool {
	if s == nil {
		return false
	}
	i, ok := s.index(c)
	return ok && s.bits[i]
}

// Len returns the number of coordinates in the set.
func (s *CoordSet) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Clear removes every coordinate.
func (s *CoordSet) Clear() {
	clear(s.bits)
	s.n = 0
}

// Coords returns the members in row-major order.
func (s *CoordSet) Coords() []Coord {
	out := make([]Coord, 0, s.n)
	for i, set := range s.bits {
		if set {
			out = append(out, Coord{Row: i / s.cols, Col: i % s.cols})
		}
	}
	return out
}

type coordSetJSON struct {
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Coords []Coord `json:"coords"`
}

// MarshalJSON encodes the set as its dimensions plus a member list.
func (s *CoordSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordSetJSON{Rows: s.rows, Cols: s.cols, Coords: s.Coords()})
}

// UnmarshalJSON decodes a set produced by MarshalJSON. Out of range members are dropped.
func (s *CoordSet) UnmarshalJSON(data []byte) error {
	var in coordSetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Rows <= 0 || in.Cols <= 0 {
		return fmt.Errorf("invalid coordinate set dimensions %dx%d", in.Rows, in.Cols)
	}
	*s = *NewCoordSet(in.Rows, in.Cols)
	for _, c := range in.Coords {
		s.Add(c)
	}
	return nil
}
