package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/beadwork/internal/security"
)

// MaxTableBytes caps the decompressed size of a catalog table file.
const MaxTableBytes = 16 << 20

//go:embed data/default.json
var defaultTable []byte

// document is the on-disk form of a catalog table.
type document struct {
	Version  string   `json:"version"`
	Catalogs []string `json:"catalogs"`
	Colors   []Entry  `json:"colors"`
}

// Default returns the table embedded in the binary. It is parsed once.
var Default = sync.OnceValues(func() (*Table, error) {
	return Load(bytes.NewReader(defaultTable))
})

// Load parses a JSON catalog table.
func Load(r io.Reader) (*Table, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog table: %w", err)
	}

	t, err := New(doc.Version, doc.Catalogs, doc.Colors)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog table: %w", err)
	}
	return t, nil
}

// LoadFile reads a catalog table from disk.
// Files ending in ".xz" are decompressed transparently.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path) // #nosec G304 - User-specified catalog path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog table: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = security.NewLimitedReader(xzr, MaxTableBytes)
	}

	t, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Resolve returns the table at path, or the embedded default when path is empty.
func Resolve(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
