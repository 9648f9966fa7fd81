package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadwork/internal/catalog"
	"github.com/jmylchreest/beadwork/internal/colour"
	"github.com/jmylchreest/beadwork/internal/config"
	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/image"
	"github.com/jmylchreest/beadwork/internal/palette"
	"github.com/jmylchreest/beadwork/internal/pattern"
	"github.com/jmylchreest/beadwork/internal/preview"
	"github.com/jmylchreest/beadwork/internal/sampler"
	"github.com/jmylchreest/beadwork/internal/session"
)

// Output formats of the generate command.
const (
	formatText = "text"
	formatJSON = "json"
	formatANSI = "ansi"
)

var generateFormats = []string{formatText, formatJSON, formatANSI, string(preview.FormatPNG), string(preview.FormatWebP)}

type generateFlags struct {
	cols             int
	rows             int
	mode             sampler.Mode
	catalog          string
	palette          []string
	fallback         string
	maxColours       int
	reduce           string
	merge            float64
	removeBackground bool
	format           string
	output           string
	session          string
	cellSize         int
	gridLines        bool
	refresh          bool
	preview          bool
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	defaults := config.Default().Generate

	cmd := &cobra.Command{
		Use:   "generate <image>",
		Short: "Generate a bead pattern from an image",
		Long: `Generate a bead pattern from an image.

The image is divided into a grid of cells. Each cell is sampled (average or
dominant colour) and matched to the nearest colour of a bead catalog. Similar
colours can then be merged and the background cut away, so only real beads
remain in the pattern.

The image may be a local file or an HTTP(S) URL.

Supported image formats: ` + strings.Join(image.SupportedImageExtensions(), ", ") + `

Examples:
  # Generate a 52x52 pattern using the MARD catalog
  beadwork generate photo.jpg

  # Generate a 29x29 pattern, merging close colours and removing the background
  beadwork generate --cols 29 --rows 29 --merge 30 --remove-background photo.png

  # Limit the pattern to 12 catalog colours and save a session to work from
  beadwork generate --max-colours 12 --session photo.session.json photo.png

  # Preview the pattern in the terminal
  beadwork generate --format ansi photo.png

  # Export a printable PNG with grid lines
  beadwork generate --format png --grid-lines --output pattern.png photo.png

  # Match against your own hex colours instead of a catalog
  beadwork generate --palette '#000000,#FFFFFF,#FF0000' logo.webp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, f, args[0])
		},
	}

	f.mode = defaults.Mode
	flags := cmd.Flags()
	flags.IntVar(&f.cols, "cols", defaults.Cols, fmt.Sprintf("grid columns (1-%d)", pattern.MaxDimension))
	flags.IntVar(&f.rows, "rows", defaults.Rows, fmt.Sprintf("grid rows (1-%d)", pattern.MaxDimension))
	flags.Var(sampler.ModeFlag{Mode: &f.mode}, "mode", "cell sampling mode (average, dominant)")
	flags.StringVar(&f.catalog, "catalog", "", "bead catalog to match against (default MARD)")
	flags.StringSliceVar(&f.palette, "palette", nil, "comma-separated hex colours to match against instead of a catalog")
	flags.StringVar(&f.fallback, "fallback", "#000000", "colour used for every cell when the palette is empty")
	flags.IntVar(&f.maxColours, "max-colours", defaults.MaxColours, "limit the palette to this many colours (0 = no limit)")
	flags.StringVar(&f.reduce, "reduce", string(defaults.Reduce), "palette reduction method (frequency, dominant, kmeans)")
	flags.Float64Var(&f.merge, "merge", defaults.Merge, "merge colours closer than this RGB distance (0 = off)")
	flags.BoolVar(&f.removeBackground, "remove-background", defaults.RemoveBackground, "mark the background connected to the border as external")
	flags.StringVarP(&f.format, "format", "f", formatText, "output format ("+strings.Join(generateFormats, ", ")+")")
	flags.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	flags.StringVarP(&f.session, "session", "s", "", "save a progress session for the pattern to this file")
	flags.IntVar(&f.cellSize, "cell-size", defaults.CellSize, "pixels per cell for png and webp output")
	flags.BoolVar(&f.gridLines, "grid-lines", false, "draw grid lines in png and webp output")
	flags.BoolVar(&f.refresh, "refresh", false, "re-download cached URL images")
	flags.BoolVar(&f.preview, "preview", false, "show colour swatches in text output")

	return cmd
}

// resolve applies flags the user set over the config defaults.
func (f *generateFlags) resolve(cmd *cobra.Command, g config.Generate) (config.Generate, error) {
	flags := cmd.Flags()
	if flags.Changed("cols") {
		g.Cols = f.cols
	}
	if flags.Changed("rows") {
		g.Rows = f.rows
	}
	if flags.Changed("mode") {
		g.Mode = f.mode
	}
	if flags.Changed("max-colours") {
		g.MaxColours = f.maxColours
	}
	if flags.Changed("reduce") {
		m, err := palette.ParseReduceMethod(f.reduce)
		if err != nil {
			return g, err
		}
		g.Reduce = m
	}
	if flags.Changed("merge") {
		g.Merge = f.merge
	}
	if flags.Changed("remove-background") {
		g.RemoveBackground = f.removeBackground
	}
	if flags.Changed("cell-size") {
		g.CellSize = f.cellSize
	}
	if g.CellSize < 1 {
		return g, fmt.Errorf("cell size must be at least 1, got %d", g.CellSize)
	}
	return g, nil
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, a *app, f *generateFlags, path string) error {
	format := strings.ToLower(f.format)
	if !slices.Contains(generateFormats, format) {
		return fmt.Errorf("invalid output format: %s (valid: %s)", f.format, strings.Join(generateFormats, ", "))
	}
	if err := image.ValidateImagePath(path); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	settings, err := f.resolve(cmd, a.cfg.Generate)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	opts := settings.Options()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	table, err := a.table()
	if err != nil {
		return err
	}
	catalogName, err := a.catalogName(table, f.catalog)
	if err != nil {
		return err
	}

	var pal *palette.Palette
	if len(f.palette) > 0 {
		pal, err = palette.FromHex(f.palette)
	} else {
		pal, err = palette.FromCatalog(table, catalogName)
	}
	if err != nil {
		return fmt.Errorf("failed to build palette: %w", err)
	}
	fallback, err := palette.NewEntry(f.fallback)
	if err != nil {
		return fmt.Errorf("invalid fallback colour: %w", err)
	}

	loader := image.NewSmartLoader()
	if a.cfg.CacheDir != "" {
		loader.Cache = &image.Cache{Dir: a.cfg.CacheDir, Refresh: f.refresh}
	}
	a.logger.Debug("loading image", "path", path)
	img, err := loader.Load(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	a.logger.Debug("image loaded", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	res, err := pattern.Generate(img, pal, fallback, opts, a.logger)
	if err != nil {
		return fmt.Errorf("failed to generate pattern: %w", err)
	}

	if f.session != "" {
		s := session.New(res.Grid)
		s.Policy = a.cfg.Policy
		if err := s.Save(f.session); err != nil {
			return err
		}
		a.logger.Info("session saved", "path", f.session)
	}

	return writeOutput(cmd, f.output, func(w io.Writer) error {
		switch format {
		case formatJSON:
			return writeJSON(w, newPatternJSON(res, table, catalogName, opts))
		case formatANSI:
			return preview.Terminal(w, res.Grid, preview.TerminalOptions{})
		case formatText:
			return writeSummary(w, res, table, catalogName, opts, f.preview)
		default:
			img := preview.Render(res.Grid, settings.CellSize, preview.Options{GridLines: f.gridLines})
			return preview.Encode(w, img, preview.Format(format))
		}
	})
}

// patternJSON is the JSON output of the generate command.
type patternJSON struct {
	Catalog    string            `json:"catalog"`
	Mode       sampler.Mode      `json:"mode"`
	Cols       int               `json:"cols"`
	Rows       int               `json:"rows"`
	Beads      int               `json:"beads"`
	Counts     []countJSON       `json:"counts"`
	Merged     map[string]string `json:"merged,omitempty"`
	Background string            `json:"background,omitempty"`
	Grid       *grid.Grid        `json:"grid"`
}

func newPatternJSON(res *pattern.Result, t *catalog.Table, catalogName string, opts pattern.Options) patternJSON {
	out := patternJSON{
		Catalog: catalogName,
		Mode:    opts.Mode,
		Cols:    res.Grid.Cols(),
		Rows:    res.Grid.Rows(),
		Beads:   res.Grid.Beads(),
		Counts:  countRows(res.Grid, t, catalogName),
		Grid:    res.Grid,
	}
	if len(res.Merge.Merged) > 0 {
		out.Merged = res.Merge.Merged
	}
	if res.Background != nil && res.Background.ID != grid.Empty {
		out.Background = res.Background.Hex
	}
	return out
}

// writeSummary prints a readable report of a generated pattern.
func writeSummary(w io.Writer, res *pattern.Result, t *catalog.Table, catalogName string, opts pattern.Options, swatches bool) error {
	g := res.Grid
	fmt.Fprintf(w, "Pattern: %dx%d (%s, catalog %s)\n", g.Cols(), g.Rows(), opts.Mode, catalogName)
	fmt.Fprintf(w, "  └─ %d beads in %d colours\n", g.Beads(), g.Distinct())
	if n := len(res.Merge.Merged); n > 0 {
		fmt.Fprintf(w, "  └─ merged %d colours into their neighbours (%d cells)\n", n, res.Merge.Cells)
	}
	if bg := res.Background; bg != nil && bg.ID != grid.Empty {
		fmt.Fprintf(w, "  └─ background %s removed (%d cells)\n", bg.Hex, bg.Marked)
	}
	fmt.Fprintln(w)
	_, err := io.WriteString(w, countsTable(g, t, catalogName, swatches).Render())
	return err
}

// countJSON is a colour count with its catalog code.
type countJSON struct {
	grid.Count
	Code string `json:"code"`
}

func countRows(g *grid.Grid, t *catalog.Table, catalogName string) []countJSON {
	counts := g.SortedCounts()
	out := make([]countJSON, len(counts))
	for i, c := range counts {
		out[i] = countJSON{Count: c, Code: t.Lookup(c.Hex, catalogName)}
	}
	return out
}

// countsTable lists every colour of g with its code and bead count.
func countsTable(g *grid.Grid, t *catalog.Table, catalogName string, swatches bool) *Table {
	headers := []string{"CODE", "HEX", "COUNT"}
	if swatches {
		headers = append([]string{""}, headers...)
	}
	tbl := NewTable(headers)
	tbl.AlignRight(len(headers) - 1)
	for _, c := range countRows(g, t, catalogName) {
		row := []string{c.Code, c.Hex, fmt.Sprint(c.Count.Count)}
		if swatches {
			block := ""
			if rgb, err := colour.ParseHex(c.Hex); err == nil {
				block = colour.Block(rgb, 2)
			}
			row = append([]string{block}, row...)
		}
		tbl.AddRow(row)
	}
	return tbl
}
