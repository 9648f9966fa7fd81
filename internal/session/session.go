// Package session tracks assembly progress on a bead pattern: the colour being
// worked on, which of its cells are done and the last cell clicked.
//
// A Session is an explicit value. Recommendations are recomputed from it on
// demand and never cached.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/recommend"
	"github.com/jmylchreest/beadwork/internal/region"
)

// FormatVersion is written into saved sessions.
const FormatVersion = 1

var (
	// ErrNoActiveColour is returned when an operation needs an active colour
	// and none has been chosen.
	ErrNoActiveColour = errors.New("no active colour")

	// ErrUnknownColour is returned when activating a colour absent from the grid.
	ErrUnknownColour = errors.New("colour not present in pattern")
)

// Session is the progress state for one pattern.
type Session struct {
	Grid *grid.Grid

	// Active is the colour being assembled, or grid.Empty.
	Active string

	// Done holds the completed cells of the active colour.
	Done *grid.CoordSet

	// Last is the most recently clicked cell, nil before the first click.
	Last *grid.Coord

	Policy recommend.Policy
}

// New starts a session on g with no active colour.
func New(g *grid.Grid) *Session {
	return &Session{
		Grid: g,
		Done: grid.NewCoordSetFor(g),
	}
}

// SetActive switches the working colour. Completion is tracked per colour, so
// the done set and last click are cleared.
func (s *Session) SetActive(id string) error {
	if _, ok := s.Grid.Counts()[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColour, id)
	}
	s.Active = id
	s.Done.Clear()
	s.Last = nil
	return nil
}

// ClickResult reports the effect of a click.
type ClickResult struct {
	// Region is the toggled region, nil when the click hit another colour,
	// an external cell or fell outside the grid.
	Region *region.Region `json:"region"`

	// Complete is the region's state after the toggle.
	Complete bool `json:"complete"`

	Next recommend.Recommendation `json:"next"`
}

// Click toggles the active-colour region under (row, col) and returns the
// updated recommendation. Any in-bounds click moves the reference point.
func (s *Session) Click(row, col int) (ClickResult, error) {
	if s.Active == grid.Empty {
		return ClickResult{}, ErrNoActiveColour
	}

	var res ClickResult
	if s.Grid.InBounds(row, col) {
		s.Last = &grid.Coord{Row: row, Col: col}
		if r, ok := region.Containing(s.Grid, row, col, s.Active); ok {
			res.Complete = region.Toggle(s.Done, r)
			res.Region = &r
		}
	}

	next, err := s.Recommend()
	if err != nil {
		return ClickResult{}, err
	}
	res.Next = next
	return res, nil
}

// Recommend returns the next region to work on under the session policy.
func (s *Session) Recommend() (recommend.Recommendation, error) {
	if s.Active == grid.Empty {
		return recommend.Recommendation{}, ErrNoActiveColour
	}
	return recommend.Next(s.Grid, s.Active, s.Done, s.Last, s.Policy), nil
}

// Regions returns every region of the active colour.
func (s *Session) Regions() ([]region.Region, error) {
	if s.Active == grid.Empty {
		return nil, ErrNoActiveColour
	}
	return region.Of(s.Grid, s.Active), nil
}

// Progress summarises completion of the active colour.
func (s *Session) Progress() (recommend.Progress, error) {
	if s.Active == grid.Empty {
		return recommend.Progress{}, ErrNoActiveColour
	}
	return recommend.ProgressOf(s.Grid, s.Active, s.Done), nil
}

type sessionJSON struct {
	Version int              `json:"version"`
	Grid    *grid.Grid       `json:"grid"`
	Active  string           `json:"active,omitempty"`
	Done    *grid.CoordSet   `json:"done"`
	Last    *grid.Coord      `json:"last,omitempty"`
	Policy  recommend.Policy `json:"policy"`
}

// MarshalJSON encodes the session with a format version.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		Version: FormatVersion,
		Grid:    s.Grid,
		Active:  s.Active,
		Done:    s.Done,
		Last:    s.Last,
		Policy:  s.Policy,
	})
}

// UnmarshalJSON decodes a saved session and checks it against its grid.
func (s *Session) UnmarshalJSON(data []byte) error {
	var in sessionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Version != FormatVersion {
		return fmt.Errorf("unsupported session version %d", in.Version)
	}
	if in.Grid == nil {
		return fmt.Errorf("session has no grid")
	}
	// Rebuild the done set at the grid's size.
	done := grid.NewCoordSetFor(in.Grid)
	if in.Done != nil {
		for _, c := range in.Done.Coords() {
			if !done.Add(c) {
				return fmt.Errorf("done cell %v outside %dx%d grid", c, in.Grid.Rows(), in.Grid.Cols())
			}
		}
	}
	if in.Last != nil && !in.Grid.InBounds(in.Last.Row, in.Last.Col) {
		in.Last = nil
	}

	*s = Session{Grid: in.Grid, Active: in.Active, Done: done, Last: in.Last, Policy: in.Policy}
	return nil
}

// Save writes the session to path, replacing any existing file atomically.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".beadwork-session.*.json")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads a session saved by Save.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified session path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	return &s, nil
}
