// Package cli provides the command-line interface for beadwork.
package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadwork/internal/catalog"
	"github.com/jmylchreest/beadwork/internal/config"
	"github.com/jmylchreest/beadwork/internal/version"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath  string
	catalogFile string
	verbose     bool
	quiet       bool

	cfg    *config.Config
	logger hclog.Logger
}

// NewRootCmd builds the beadwork command tree. Each call returns an
// independent tree, so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	a := &app{
		cfg:    config.Default(),
		logger: hclog.NewNullLogger(),
	}

	rootCmd := &cobra.Command{
		Use:   "beadwork",
		Short: "Turn images into fuse-bead patterns",
		Long: `Beadwork converts images into fuse-bead (perler/hama) patterns matched against
real bead colour catalogs, and tracks assembly progress one colour at a time.

Generate a pattern from an image, save it as a session, then pick a colour and
let beadwork recommend which region to place next.`,
		Version:           version.Short(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/beadwork/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.catalogFile, "catalog-file", "", "catalog table to use instead of the built-in one (.json or .json.xz)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGenerateCmd(a),
		newCatalogCmd(a),
		newPreviewCmd(a),
		newColourCmd(a),
		newRegionsCmd(a),
		newNextCmd(a),
		newMarkCmd(a),
		newCountsCmd(a),
	)
	return rootCmd
}

// setup loads the config and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.catalogFile != "" {
		cfg.CatalogFile = a.catalogFile
	}
	a.cfg = cfg

	level := hclog.Info
	switch {
	case a.verbose:
		level = hclog.Debug
	case a.quiet:
		level = hclog.Error
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "beadwork",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
	a.logger.Debug("config loaded", "catalog_file", cfg.CatalogFile, "catalog", cfg.Catalog, "policy", cfg.Policy)
	return nil
}

// table returns the configured catalog table.
func (a *app) table() (*catalog.Table, error) {
	t, err := catalog.Resolve(a.cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog table: %w", err)
	}
	return t, nil
}

// catalogName picks the catalog to use: the flag value, then the config, then
// the table default.
func (a *app) catalogName(t *catalog.Table, flag string) (string, error) {
	name := flag
	if name == "" {
		name = a.cfg.Catalog
	}
	if name == "" {
		name = t.DefaultCatalog()
	}
	if !t.HasCatalog(name) {
		return "", fmt.Errorf("%w: %s (valid: %v)", catalog.ErrUnknownCatalog, name, t.Catalogs())
	}
	return name, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
