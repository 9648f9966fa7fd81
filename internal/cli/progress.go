package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadwork/internal/catalog"
	"github.com/jmylchreest/beadwork/internal/colour"
	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/recommend"
	"github.com/jmylchreest/beadwork/internal/region"
	"github.com/jmylchreest/beadwork/internal/session"
)

// sessionCmd is the state shared by the commands that operate on a session file.
type sessionCmd struct {
	a       *app
	catalog string
	json    bool
}

func (c *sessionCmd) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.catalog, "catalog", "", "catalog used to display colour codes")
	cmd.Flags().BoolVar(&c.json, "json", false, "output as JSON")
}

// catalogFor returns the table and catalog name used to label colours.
func (c *sessionCmd) catalogFor() (*catalog.Table, string, error) {
	t, err := c.a.table()
	if err != nil {
		return nil, "", err
	}
	name, err := c.a.catalogName(t, c.catalog)
	if err != nil {
		return nil, "", err
	}
	return t, name, nil
}

// label formats a colour as "#RRGGBB (code)", or just the hex when the
// catalog has no code for it.
func label(t *catalog.Table, catalogName, id string) string {
	if code := t.Lookup(id, catalogName); code != catalog.Unmapped {
		return fmt.Sprintf("%s (%s)", id, code)
	}
	return id
}

func newColourCmd(a *app) *cobra.Command {
	c := &sessionCmd{a: a}
	cmd := &cobra.Command{
		Use:   "colour <session> [hex|code]",
		Short: "Show or switch the colour being assembled",
		Long: `Show or switch the colour being assembled.

With a colour, the session switches to it and its progress starts over. The
colour may be a hex value or a code in the selected catalog. Without one, the
active colour and its progress are shown.

Examples:
  # Work on white next
  beadwork colour photo.session.json '#FFFFFF'

  # Select a colour by its MARD code
  beadwork colour photo.session.json F2

  # Select a colour by its COCO code
  beadwork colour --catalog COCO photo.session.json F12`,
		Aliases: []string{"color"},
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runColour(cmd, args)
		},
	}
	c.addFlags(cmd)
	return cmd
}

func (c *sessionCmd) runColour(cmd *cobra.Command, args []string) error {
	s, err := session.Load(args[0])
	if err != nil {
		return err
	}
	t, catalogName, err := c.catalogFor()
	if err != nil {
		return err
	}

	if len(args) == 2 {
		id, err := resolveColour(s.Grid, t, catalogName, args[1])
		if err != nil {
			return err
		}
		if err := s.SetActive(id); err != nil {
			return err
		}
		if err := s.Save(args[0]); err != nil {
			return err
		}
		c.a.logger.Debug("active colour changed", "colour", id)
	}

	p, err := s.Progress()
	if err != nil {
		if errors.Is(err, session.ErrNoActiveColour) {
			return fmt.Errorf("%w: choose one with 'beadwork colour %s <hex|code>'", err, args[0])
		}
		return err
	}
	if c.json {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Active colour: %s\n", label(t, catalogName, s.Active))
	writeProgress(cmd.OutOrStdout(), p)
	return nil
}

// resolveColour maps a hex value or catalog code to a colour of g.
func resolveColour(g *grid.Grid, t *catalog.Table, catalogName, arg string) (string, error) {
	counts := g.Counts()
	if hex, ok := colour.NormaliseHex(arg); ok {
		if _, ok := counts[hex]; ok {
			return hex, nil
		}
	}
	if hex, ok := t.Reverse(arg, catalogName); ok {
		if _, ok := counts[hex]; ok {
			return hex, nil
		}
		return "", fmt.Errorf("%w: %s is %s in %s", session.ErrUnknownColour, arg, hex, catalogName)
	}
	return "", fmt.Errorf("%w: %s", session.ErrUnknownColour, arg)
}

func writeProgress(w io.Writer, p recommend.Progress) {
	fmt.Fprintf(w, "Progress: %d/%d regions, %d/%d beads\n", p.Complete, p.Regions, p.DoneCells, p.Cells)
}

func newRegionsCmd(a *app) *cobra.Command {
	c := &sessionCmd{a: a}
	var colourArg string
	cmd := &cobra.Command{
		Use:   "regions <session>",
		Short: "List the regions of a colour",
		Long: `List the connected regions of a colour in discovery order (top to bottom,
left to right) with their size, bounds, centre and completion.

The active colour is used unless --colour is given.

Examples:
  beadwork regions photo.session.json
  beadwork regions --colour F2 photo.session.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Load(args[0])
			if err != nil {
				return err
			}
			t, catalogName, err := c.catalogFor()
			if err != nil {
				return err
			}

			id := s.Active
			if colourArg != "" {
				if id, err = resolveColour(s.Grid, t, catalogName, colourArg); err != nil {
					return err
				}
			}
			if id == grid.Empty {
				return session.ErrNoActiveColour
			}

			// Completion is only tracked for the active colour.
			done := s.Done
			if id != s.Active {
				done = grid.NewCoordSetFor(s.Grid)
			}
			regions := region.Of(s.Grid, id)

			if c.json {
				return writeJSON(cmd.OutOrStdout(), regionRows(regions, done))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Regions of %s: %d\n\n", label(t, catalogName, id), len(regions))
			_, err = io.WriteString(cmd.OutOrStdout(), regionsTable(regions, done).Render())
			return err
		},
	}
	c.addFlags(cmd)
	cmd.Flags().StringVar(&colourArg, "colour", "", "colour to list instead of the active one (hex or code)")
	return cmd
}

type regionJSON struct {
	Index    int             `json:"index"`
	Cells    int             `json:"cells"`
	Bounds   region.Box      `json:"bounds"`
	Center   recommend.Point `json:"center"`
	Complete bool            `json:"complete"`
}

func regionRows(regions []region.Region, done *grid.CoordSet) []regionJSON {
	out := make([]regionJSON, len(regions))
	for i, r := range regions {
		row, col := r.Center()
		out[i] = regionJSON{
			Index:    i + 1,
			Cells:    r.Len(),
			Bounds:   r.Bounds,
			Center:   recommend.Point{Row: row, Col: col},
			Complete: region.IsComplete(r, done),
		}
	}
	return out
}

func regionsTable(regions []region.Region, done *grid.CoordSet) *Table {
	tbl := NewTable([]string{"#", "CELLS", "ROWS", "COLS", "CENTRE", "DONE"})
	tbl.AlignRight(0)
	tbl.AlignRight(1)
	for _, r := range regionRows(regions, done) {
		mark := ""
		if r.Complete {
			mark = "✓"
		}
		tbl.AddRow([]string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Cells),
			fmt.Sprintf("%d-%d", r.Bounds.MinRow, r.Bounds.MaxRow),
			fmt.Sprintf("%d-%d", r.Bounds.MinCol, r.Bounds.MaxCol),
			fmt.Sprintf("%.1f,%.1f", r.Center.Row, r.Center.Col),
			mark,
		})
	}
	return tbl
}

func newNextCmd(a *app) *cobra.Command {
	c := &sessionCmd{a: a}
	policy := recommend.Nearest
	var showPreview bool
	cmd := &cobra.Command{
		Use:   "next <session>",
		Short: "Recommend the next region to fill",
		Long: `Recommend the next incomplete region of the active colour.

Policies:
  nearest     closest to the last marked cell (or the grid centre)
  largest     the region with the most cells
  edge-first  regions touching the grid border first, then nearest

Examples:
  beadwork next photo.session.json
  beadwork next --policy largest --preview photo.session.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("policy") {
				s.Policy = policy
			}
			t, catalogName, err := c.catalogFor()
			if err != nil {
				return err
			}

			rec, err := s.Recommend()
			if err != nil {
				return err
			}
			if c.json {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			writeRecommendation(cmd.OutOrStdout(), t, catalogName, s, rec)
			if showPreview && rec.Region != nil {
				return previewSession(cmd.OutOrStdout(), s, rec)
			}
			return nil
		},
	}
	c.addFlags(cmd)
	cmd.Flags().Var(recommend.PolicyFlag{Policy: &policy}, "policy", "recommendation policy (nearest, largest, edge-first)")
	cmd.Flags().BoolVar(&showPreview, "preview", false, "show the pattern with the recommended region highlighted")
	return cmd
}

func writeRecommendation(w io.Writer, t *catalog.Table, catalogName string, s *session.Session, rec recommend.Recommendation) {
	name := label(t, catalogName, s.Active)
	if rec.Region == nil {
		fmt.Fprintf(w, "All regions of %s are complete\n", name)
		return
	}
	r := rec.Region
	fmt.Fprintf(w, "Next %s region (%s): %d beads, rows %d-%d, cols %d-%d, centre %.1f,%.1f\n",
		name, s.Policy, r.Len(), r.Bounds.MinRow, r.Bounds.MaxRow, r.Bounds.MinCol, r.Bounds.MaxCol,
		rec.Center.Row, rec.Center.Col)
}

func newMarkCmd(a *app) *cobra.Command {
	c := &sessionCmd{a: a}
	cmd := &cobra.Command{
		Use:   "mark <session> <row> <col>",
		Short: "Toggle the region under a cell",
		Long: `Toggle the active-colour region containing a cell between complete and
incomplete, then show the next recommendation. Rows and columns start at 0.

Marking a cell of another colour only moves the reference point used by the
nearest policy.

Examples:
  beadwork mark photo.session.json 10 4`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid row %q: %w", args[1], err)
			}
			col, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid column %q: %w", args[2], err)
			}

			s, err := session.Load(args[0])
			if err != nil {
				return err
			}
			t, catalogName, err := c.catalogFor()
			if err != nil {
				return err
			}

			res, err := s.Click(row, col)
			if err != nil {
				return err
			}
			if err := s.Save(args[0]); err != nil {
				return err
			}
			c.a.logger.Debug("cell marked", "row", row, "col", col, "toggled", res.Region != nil)

			if c.json {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			out := cmd.OutOrStdout()
			switch {
			case res.Region == nil:
				fmt.Fprintf(out, "No %s region at %d,%d\n", label(t, catalogName, s.Active), row, col)
			case res.Complete:
				fmt.Fprintf(out, "Marked %d beads complete\n", res.Region.Len())
			default:
				fmt.Fprintf(out, "Cleared %d beads\n", res.Region.Len())
			}
			writeRecommendation(out, t, catalogName, s, res.Next)
			return nil
		},
	}
	c.addFlags(cmd)
	return cmd
}

func newCountsCmd(a *app) *cobra.Command {
	c := &sessionCmd{a: a}
	var swatches bool
	cmd := &cobra.Command{
		Use:   "counts <session>",
		Short: "Show how many beads of each colour a pattern needs",
		Long: `Show how many beads of each colour a pattern needs, most used first,
with the colour codes of the selected catalog.

Examples:
  beadwork counts photo.session.json
  beadwork counts --catalog COCO --preview photo.session.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Load(args[0])
			if err != nil {
				return err
			}
			t, catalogName, err := c.catalogFor()
			if err != nil {
				return err
			}
			if c.json {
				return writeJSON(cmd.OutOrStdout(), countRows(s.Grid, t, catalogName))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d beads in %d colours (catalog %s)\n\n", s.Grid.Beads(), s.Grid.Distinct(), catalogName)
			_, err = io.WriteString(out, countsTable(s.Grid, t, catalogName, swatches).Render())
			return err
		},
	}
	c.addFlags(cmd)
	cmd.Flags().BoolVar(&swatches, "preview", false, "show colour swatches")
	return cmd
}
