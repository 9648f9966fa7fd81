// Package palette holds the active bead palette and assigns sampled colours to
// their nearest palette entry.
package palette

import (
	"errors"
	"fmt"

	"github.com/jmylchreest/beadwork/internal/catalog"
	"github.com/jmylchreest/beadwork/internal/colour"
)

// ErrDuplicateID is returned when two entries share an identifier.
var ErrDuplicateID = errors.New("duplicate palette identifier")

// Entry is one colour available for matching.
type Entry struct {
	// ID is the matcher's key. Palettes built from hex colours use the hex itself.
	ID string `json:"id"`

	// Hex is the colour in "#RRGGBB" form.
	Hex string `json:"hex"`

	// RGB is the parsed colour.
	RGB colour.RGB `json:"rgb"`

	// Code is the catalog code of the colour, if the palette came from a catalog.
	Code string `json:"code,omitempty"`
}

// NewEntry creates an entry keyed by its normalised hex colour.
func NewEntry(hex string) (Entry, error) {
	rgb, err := colour.ParseHex(hex)
	if err != nil {
		return Entry{}, err
	}
	return Entry{ID: rgb.Hex(), Hex: rgb.Hex(), RGB: rgb}, nil
}

// Palette is an ordered list of entries with unique identifiers. Order matters:
// matching ties go to the entry listed first.
type Palette struct {
	entries []Entry
	index   map[string]int
}

// New creates a palette from entries, rejecting duplicate identifiers.
func New(entries []Entry) (*Palette, error) {
	p := &Palette{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := p.index[e.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		p.index[e.ID] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p, nil
}

// FromHex creates a palette of hex colours in the given order.
func FromHex(hexes []string) (*Palette, error) {
	entries := make([]Entry, 0, len(hexes))
	for _, h := range hexes {
		e, err := NewEntry(h)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return New(entries)
}

// FromCatalog creates a palette of every table colour that has a code in the
// named catalog, in table order.
func FromCatalog(t *catalog.Table, name string) (*Palette, error) {
	if !t.HasCatalog(name) {
		return nil, fmt.Errorf("%w: %s (valid: %v)", catalog.ErrUnknownCatalog, name, t.Catalogs())
	}

	var entries []Entry
	for _, row := range t.Entries() {
		code := row.Code(name)
		if code == catalog.Unmapped {
			continue
		}
		entries = append(entries, Entry{ID: row.Hex, Hex: row.Hex, RGB: row.RGB, Code: code})
	}
	return New(entries)
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entries returns the entries in palette order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, p.Len())
	if p != nil {
		copy(out, p.entries)
	}
	return out
}

// Get returns the entry with the given identifier.
func (p *Palette) Get(id string) (Entry, bool) {
	if p == nil {
		return Entry{}, false
	}
	i, ok := p.index[id]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Contains reports whether the palette has an entry with the given identifier.
func (p *Palette) Contains(id string) bool {
	_, ok := p.Get(id)
	return ok
}

// Subset returns a palette of the entries whose identifiers are in ids,
// keeping this palette's order. Unknown identifiers are ignored.
func (p *Palette) Subset(ids map[string]bool) *Palette {
	out := &Palette{index: make(map[string]int, len(ids))}
	for _, e := range p.Entries() {
		if ids[e.ID] {
			out.index[e.ID] = len(out.entries)
			out.entries = append(out.entries, e)
		}
	}
	return out
}

// Nearest returns the entry closest to c by squared Euclidean RGB distance,
// together with that distance. Ties go to the entry listed first.
// The boolean is false for an empty palette.
func (p *Palette) Nearest(c colour.RGB) (Entry, int, bool) {
	if p.Len() == 0 {
		return Entry{}, 0, false
	}

	best := 0
	bestDist := colour.DistanceSq(c, p.entries[0].RGB)
	for i := 1; i < len(p.entries); i++ {
		d := colour.DistanceSq(c, p.entries[i].RGB)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return p.entries[best], bestDist, true
}
