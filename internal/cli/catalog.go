package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadwork/internal/catalog"
	"github.com/jmylchreest/beadwork/internal/colour"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Look up and translate bead colour codes",
		Long: `Look up and translate bead colour codes between manufacturer catalogs.

The built-in table maps hex colours to the codes of several bead brands. Use
--catalog-file to supply your own table (.json, or .json.xz compressed).`,
	}
	cmd.AddCommand(
		newCatalogListCmd(a),
		newCatalogLookupCmd(a),
		newCatalogReverseCmd(a),
		newCatalogTranslateCmd(a),
	)
	return cmd
}

func newCatalogListCmd(a *app) *cobra.Command {
	var name string
	var swatches bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every colour of the catalog table",
		Long: `List every colour of the catalog table with its code in each catalog.

Examples:
  beadwork catalog list
  beadwork catalog list --catalog MARD --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.table()
			if err != nil {
				return err
			}
			catalogs := t.Catalogs()
			if name != "" {
				if !t.HasCatalog(name) {
					return fmt.Errorf("%w: %s (valid: %v)", catalog.ErrUnknownCatalog, name, catalogs)
				}
				catalogs = []string{name}
			}

			headers := append([]string{"HEX"}, catalogs...)
			if swatches {
				headers = append([]string{""}, headers...)
			}
			tbl := NewTable(headers)
			shown := 0
			for _, e := range t.Entries() {
				row := []string{e.Hex}
				mapped := false
				for _, c := range catalogs {
					code := e.Code(c)
					mapped = mapped || code != catalog.Unmapped
					row = append(row, code)
				}
				if !mapped {
					continue
				}
				if swatches {
					row = append([]string{colour.Block(e.RGB, 2)}, row...)
				}
				tbl.AddRow(row)
				shown++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog table %s: %d colours\n\n", t.Version(), shown)
			_, err = io.WriteString(out, tbl.Render())
			return err
		},
	}
	cmd.Flags().StringVar(&name, "catalog", "", "only list colours of this catalog")
	cmd.Flags().BoolVar(&swatches, "preview", false, "show colour swatches")
	return cmd
}

func newCatalogLookupCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "lookup <hex>...",
		Short: "Find the codes of hex colours",
		Long: `Find the codes of hex colours. Colours without a code print as "-".

With --catalog only that catalog's code is printed; otherwise every catalog
is shown.

Examples:
  beadwork catalog lookup '#FAF4C8'
  beadwork catalog lookup --catalog COCO FAF4C8 '#FFFFFF'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.table()
			if err != nil {
				return err
			}
			catalogs := t.Catalogs()
			if name != "" {
				if !t.HasCatalog(name) {
					return fmt.Errorf("%w: %s (valid: %v)", catalog.ErrUnknownCatalog, name, catalogs)
				}
				catalogs = []string{name}
			}

			tbl := NewTable(append([]string{"HEX"}, catalogs...))
			for _, arg := range args {
				hex, ok := colour.NormaliseHex(arg)
				if !ok {
					a.logger.Warn("not a hex colour", "value", arg)
					hex = arg
				}
				row := []string{hex}
				for _, c := range catalogs {
					row = append(row, t.Lookup(hex, c))
				}
				tbl.AddRow(row)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), tbl.Render())
			return err
		},
	}
	cmd.Flags().StringVar(&name, "catalog", "", "only show codes of this catalog")
	return cmd
}

func newCatalogReverseCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "reverse <code>",
		Short: "Find the colour of a catalog code",
		Long: `Find the hex colour of a code in a catalog.

Examples:
  beadwork catalog reverse A1
  beadwork catalog reverse --catalog COCO A11`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.table()
			if err != nil {
				return err
			}
			catalogName, err := a.catalogName(t, name)
			if err != nil {
				return err
			}
			hex, ok := t.Reverse(args[0], catalogName)
			if !ok {
				return fmt.Errorf("code %s not found in %s", args[0], catalogName)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "catalog", "", "catalog the code belongs to (default MARD)")
	return cmd
}

func newCatalogTranslateCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate <code>",
		Short: "Translate a code from one catalog to another",
		Long: `Translate a code from one catalog to another through its colour.
Colours the target catalog does not carry print as "-".

Examples:
  beadwork catalog translate --from MARD --to COCO A1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.table()
			if err != nil {
				return err
			}
			code, err := t.Translate(args[0], from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "catalog of the code")
	cmd.Flags().StringVar(&to, "to", "", "catalog to translate to")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
