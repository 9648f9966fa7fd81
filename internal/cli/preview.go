package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadwork/internal/config"
	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/preview"
	"github.com/jmylchreest/beadwork/internal/recommend"
	"github.com/jmylchreest/beadwork/internal/session"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		format    string
		output    string
		cellSize  int
		gridLines bool
		external  bool
	)
	cmd := &cobra.Command{
		Use:   "preview <session>",
		Short: "Show or export the pattern of a session",
		Long: `Show the pattern of a session in the terminal, or export it as an image.

In the terminal, completed beads of the active colour are marked with 'x' and
the recommended region with '*'.

Examples:
  beadwork preview photo.session.json
  beadwork preview --format png --grid-lines --output pattern.png photo.session.json
  beadwork preview --format webp --cell-size 8 --output pattern.webp photo.session.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Load(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("cell-size") {
				cellSize = a.cfg.Generate.CellSize
			}

			if strings.EqualFold(format, formatANSI) {
				var rec recommend.Recommendation
				if s.Active != grid.Empty {
					if rec, err = s.Recommend(); err != nil {
						return err
					}
				}
				return writeOutput(cmd, output, func(w io.Writer) error {
					return previewSession(w, s, rec)
				})
			}

			f, err := preview.ParseFormat(format)
			if err != nil {
				return err
			}
			if cellSize < 1 {
				return fmt.Errorf("cell size must be at least 1, got %d", cellSize)
			}
			img := preview.Render(s.Grid, cellSize, preview.Options{GridLines: gridLines, ShowExternal: external})
			return writeOutput(cmd, output, func(w io.Writer) error {
				return preview.Encode(w, img, f)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatANSI, "output format (ansi, png, webp)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&cellSize, "cell-size", config.DefaultCellSize, "pixels per cell for png and webp output")
	cmd.Flags().BoolVar(&gridLines, "grid-lines", false, "draw grid lines in png and webp output")
	cmd.Flags().BoolVar(&external, "show-background", false, "draw removed background cells in png and webp output")
	return cmd
}

// previewSession draws s in the terminal with its progress and recommendation.
func previewSession(w io.Writer, s *session.Session, rec recommend.Recommendation) error {
	opts := preview.TerminalOptions{Done: s.Done}
	if rec.Region != nil {
		opts.Highlight = rec.Region.Cells
	}
	return preview.Terminal(w, s.Grid, opts)
}
