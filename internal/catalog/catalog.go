// Package catalog translates bead colours between the code systems used by
// different bead manufacturers.
//
// A Table is keyed by normalised hex colour; each row holds at most one code
// per named catalog. Lookups are hex-indexed, so translating between two
// catalogs never needs an intermediate hop. Most colours exist in only some
// catalogs, so a miss yields the Unmapped sentinel rather than an error.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jmylchreest/beadwork/internal/colour"
)

// Unmapped is returned by Lookup when a colour has no code in a catalog.
const Unmapped = "-"

// MARD is the preferred default catalog when a table carries it.
const MARD = "MARD"

// ErrUnknownCatalog is returned when a catalog name is not part of a table.
var ErrUnknownCatalog = errors.New("unknown catalog")

// Entry is one colour row of a Table.
type Entry struct {
	Hex   string            `json:"hex"`
	RGB   colour.RGB        `json:"-"`
	Codes map[string]string `json:"codes"`
}

// Code returns the entry's code in the named catalog, or Unmapped.
func (e Entry) Code(catalog string) string {
	if code, ok := e.Codes[catalog]; ok && code != "" {
		return code
	}
	return Unmapped
}

// Table maps normalised hex colours to per-catalog codes.
// It is read-only after construction and safe for concurrent use.
type Table struct {
	version  string
	catalogs []string
	entries  []Entry
	byHex    map[string]int
}

// New builds a table from catalog names and colour rows.
// Row hex values are normalised; duplicate colours and codes for catalogs not
// listed in catalogs are rejected.
func New(version string, catalogs []string, entries []Entry) (*Table, error) {
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("catalog table must name at least one catalog")
	}
	seen := make(map[string]bool, len(catalogs))
	for _, name := range catalogs {
		if name == "" {
			return nil, fmt.Errorf("catalog name cannot be empty")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate catalog name: %s", name)
		}
		seen[name] = true
	}

	t := &Table{
		version:  version,
		catalogs: slices.Clone(catalogs),
		entries:  make([]Entry, 0, len(entries)),
		byHex:    make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		hex, ok := colour.NormaliseHex(e.Hex)
		if !ok {
			return nil, fmt.Errorf("row %d: invalid hex colour %q", i, e.Hex)
		}
		if _, dup := t.byHex[hex]; dup {
			return nil, fmt.Errorf("row %d: duplicate colour %s", i, hex)
		}
		codes := make(map[string]string, len(e.Codes))
		for name, code := range e.Codes {
			if !seen[name] {
				return nil, fmt.Errorf("row %d (%s): %w: %s", i, hex, ErrUnknownCatalog, name)
			}
			if code != "" {
				codes[name] = code
			}
		}

		t.byHex[hex] = len(t.entries)
		t.entries = append(t.entries, Entry{Hex: hex, RGB: colour.MustParseHex(hex), Codes: codes})
	}

	return t, nil
}

// Version returns the data asset version the table was loaded from.
func (t *Table) Version() string {
	return t.version
}

// Catalogs returns the catalog names in declaration order.
func (t *Table) Catalogs() []string {
	return slices.Clone(t.catalogs)
}

// HasCatalog reports whether the table carries the named catalog.
func (t *Table) HasCatalog(name string) bool {
	return slices.Contains(t.catalogs, name)
}

// DefaultCatalog returns MARD when present, otherwise the first catalog.
func (t *Table) DefaultCatalog() string {
	if t.HasCatalog(MARD) {
		return MARD
	}
	return t.catalogs[0]
}

// Len returns the number of colours in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the colour rows in table order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Entry returns the row for a colour. Malformed hex yields false.
func (t *Table) Entry(hex string) (Entry, bool) {
	norm, ok := colour.NormaliseHex(hex)
	if !ok {
		return Entry{}, false
	}
	i, ok := t.byHex[norm]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Lookup returns the code of a colour in the named catalog.
// Unknown colours, malformed hex strings, unknown catalogs and colours absent
// from the catalog all yield Unmapped.
func (t *Table) Lookup(hex, catalog string) string {
	e, ok := t.Entry(hex)
	if !ok {
		return Unmapped
	}
	return e.Code(catalog)
}

// Reverse finds the colour carrying code in the named catalog.
// It scans the table in order and returns the first match.
func (t *Table) Reverse(code, catalog string) (string, bool) {
	if code == "" || code == Unmapped {
		return "", false
	}
	for _, e := range t.entries {
		if e.Codes[catalog] == code {
			return e.Hex, true
		}
	}
	return "", false
}

// Translate converts a code from one catalog to another via its colour.
func (t *Table) Translate(code, from, to string) (string, error) {
	if !t.HasCatalog(from) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCatalog, from)
	}
	if !t.HasCatalog(to) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCatalog, to)
	}
	hex, ok := t.Reverse(code, from)
	if !ok {
		return Unmapped, nil
	}
	return t.Lookup(hex, to), nil
}
