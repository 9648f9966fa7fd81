package preview

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jmylchreest/beadwork/internal/colour"
	"github.com/jmylchreest/beadwork/internal/grid"
)

// TerminalOptions controls the ANSI preview.
type TerminalOptions struct {
	// Done cells are drawn with a mark over their colour.
	Done *grid.CoordSet

	// Highlight cells are drawn with a different mark, for a recommended region.
	Highlight []grid.Coord

	// Width is the terminal width in columns. Zero detects it when w is a
	// terminal and assumes no limit otherwise.
	Width int
}

const (
	doneMark      = "x"
	highlightMark = "*"
)

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { // #nosec G115 - file descriptors fit in int
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd())) // #nosec G115 - file descriptors fit in int
	if err != nil {
		return 0
	}
	return width
}

// Terminal writes an ANSI true-colour preview of g, two characters per cell,
// or one when two would not fit the terminal width. External and empty cells
// are left blank.
func Terminal(w io.Writer, g *grid.Grid, opts TerminalOptions) error {
	width := opts.Width
	if width == 0 {
		width = terminalWidth(w)
	}
	cellWidth := 2
	if width > 0 && g.Cols()*2 > width {
		cellWidth = 1
	}

	highlight := make(map[grid.Coord]bool, len(opts.Highlight))
	for _, c := range opts.Highlight {
		highlight[c] = true
	}

	bw := bufio.NewWriter(w)
	blank := strings.Repeat(" ", cellWidth)
	for r := range g.Rows() {
		for c := range g.Cols() {
			cell := g.At(r, c)
			rgb, err := colour.ParseHex(cell.Hex)
			if cell.IsEmpty() || cell.External || err != nil {
				bw.WriteString(blank)
				continue
			}

			p := grid.Coord{Row: r, Col: c}
			switch {
			case highlight[p]:
				bw.WriteString(colour.BlockWithText(rgb, highlightMark, cellWidth))
			case opts.Done.Has(p):
				bw.WriteString(colour.BlockWithText(rgb, doneMark, cellWidth))
			default:
				bw.WriteString(colour.Block(rgb, cellWidth))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
