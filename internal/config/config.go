// Package config loads user defaults for beadwork from a YAML file and the
// environment. Command-line flags override both; that precedence is applied
// by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/beadwork/internal/palette"
	"github.com/jmylchreest/beadwork/internal/pattern"
	"github.com/jmylchreest/beadwork/internal/recommend"
	"github.com/jmylchreest/beadwork/internal/sampler"
)

// Environment variables consulted by Load.
const (
	EnvConfig  = "BEADWORK_CONFIG"
	EnvCatalog = "BEADWORK_CATALOG"
	EnvPolicy  = "BEADWORK_POLICY"
)

// Config holds user defaults.
type Config struct {
	// CatalogFile is a catalog table to use instead of the embedded one.
	CatalogFile string `yaml:"catalog_file"`

	// Catalog names the brand whose colours form the palette.
	Catalog string `yaml:"catalog"`

	Generate Generate `yaml:"generate"`

	Policy recommend.Policy `yaml:"policy"`

	// CacheDir stores downloaded source images. Empty disables caching.
	CacheDir string `yaml:"cache_dir"`
}

// Generate holds pattern generation defaults.
type Generate struct {
	Cols             int                  `yaml:"cols"`
	Rows             int                  `yaml:"rows"`
	Mode             sampler.Mode         `yaml:"mode"`
	Merge            float64              `yaml:"merge"`
	RemoveBackground bool                 `yaml:"remove_background"`
	MaxColours       int                  `yaml:"max_colours"`
	Reduce           palette.ReduceMethod `yaml:"reduce"`
	CellSize         int                  `yaml:"cell_size"`
}

// DefaultCellSize is the default pixel size of a cell in exported images.
const DefaultCellSize = 16

// Default returns the built-in defaults.
func Default() *Config {
	opts := pattern.DefaultOptions()
	return &Config{
		Generate: Generate{
			Cols:     opts.Cols,
			Rows:     opts.Rows,
			Mode:     opts.Mode,
			Reduce:   opts.ReduceMethod,
			CellSize: DefaultCellSize,
		},
		Policy: recommend.Nearest,
	}
}

// Options converts the generation defaults to pattern options.
func (g Generate) Options() pattern.Options {
	return pattern.Options{
		Cols:             g.Cols,
		Rows:             g.Rows,
		Mode:             g.Mode,
		MergeThreshold:   g.Merge,
		RemoveBackground: g.RemoveBackground,
		MaxColours:       g.MaxColours,
		ReduceMethod:     g.Reduce,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "beadwork", "config.yaml"), nil
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path means $BEADWORK_CONFIG, then the
// default location; only an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path, explicit = env, true
		} else if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified config file, intended to be read
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.CatalogFile = expandPath(c.CatalogFile)
	c.CacheDir = expandPath(c.CacheDir)
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv(EnvPolicy); v != "" {
		p, err := recommend.ParsePolicy(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPolicy, err)
		}
		c.Policy = p
	}
	return nil
}

// Validate checks the generation defaults.
func (c *Config) Validate() error {
	if err := c.Generate.Options().Validate(); err != nil {
		return err
	}
	if c.Generate.CellSize < 1 {
		return fmt.Errorf("cell_size must be at least 1, got %d", c.Generate.CellSize)
	}
	return nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
