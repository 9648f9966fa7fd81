package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/webp"

	"github.com/jmylchreest/beadwork/internal/grid"
)

func sampleGrid() *grid.Grid {
	g := grid.New(2, 3)
	g.Paint(0, 0, "#FF0000", "#FF0000")
	g.Paint(0, 1, "#00FF00", "#00FF00")
	g.Paint(0, 2, "#0000FF", "#0000FF")
	g.Paint(1, 0, "#FFFFFF", "#FFFFFF")
	g.Paint(1, 1, "#FFFFFF", "#FFFFFF")
	g.SetExternal(1, 1, true)
	return g
}

func TestRender(t *testing.T) {
	g := sampleGrid()
	img := Render(g, 4, Options{})

	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
		t.Fatalf("bounds = %v, want 12x8", img.Bounds())
	}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{name: "red cell", x: 1, y: 1, want: color.NRGBA{R: 255, A: 255}},
		{name: "blue cell far corner", x: 11, y: 3, want: color.NRGBA{B: 255, A: 255}},
		{name: "white cell", x: 2, y: 6, want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "external cell", x: 5, y: 5, want: color.NRGBA{}},
		{name: "empty cell", x: 9, y: 7, want: color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	shown := Render(g, 1, Options{ShowExternal: true})
	if shown.NRGBAAt(1, 1).A != 255 {
		t.Error("ShowExternal did not draw the external cell")
	}
}

func TestRenderGridLines(t *testing.T) {
	img := Render(sampleGrid(), 5, Options{GridLines: true})
	if got := img.NRGBAAt(5, 2); got != defaultLine {
		t.Errorf("vertical line pixel = %v, want %v", got, defaultLine)
	}
	if got := img.NRGBAAt(2, 5); got != defaultLine {
		t.Errorf("horizontal line pixel = %v, want %v", got, defaultLine)
	}
	if got := img.NRGBAAt(2, 2); got.R != 255 || got.G != 0 {
		t.Errorf("cell interior = %v, want red", got)
	}
}

func TestEncode(t *testing.T) {
	img := Render(sampleGrid(), 3, Options{})

	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatPNG); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil || decoded.Bounds() != img.Bounds() {
		t.Errorf("png round trip: %v, bounds %v", err, decoded.Bounds())
	}

	buf.Reset()
	if err := Encode(&buf, img, FormatWebP); err != nil {
		t.Fatal(err)
	}
	decoded, err = webp.Decode(&buf)
	if err != nil {
		t.Fatalf("webp decode: %v", err)
	}
	if decoded.Bounds().Dx() != img.Bounds().Dx() {
		t.Errorf("webp width = %d, want %d", decoded.Bounds().Dx(), img.Bounds().Dx())
	}

	if err := Encode(&buf, img, "tiff"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("WEBP"); err != nil || f != FormatWebP {
		t.Errorf("ParseFormat(WEBP) = %q, %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("expected error for gif")
	}
}

func TestTerminal(t *testing.T) {
	g := sampleGrid()
	done := grid.NewCoordSetFor(g)
	done.Add(grid.Coord{Row: 0, Col: 1})

	var buf bytes.Buffer
	err := Terminal(&buf, g, TerminalOptions{
		Done:      done,
		Highlight: []grid.Coord{{Row: 0, Col: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "\033[48;2;255;0;0m") {
		t.Error("red cell missing from first row")
	}
	if !strings.Contains(lines[0], doneMark) || !strings.Contains(lines[0], highlightMark) {
		t.Errorf("marks missing from first row: %q", lines[0])
	}
	// External and empty cells print as blanks.
	if !strings.HasSuffix(lines[1], "    ") {
		t.Errorf("second row should end with blank cells: %q", lines[1])
	}
}

func TestTerminalNarrow(t *testing.T) {
	g := grid.New(1, 10)
	for c := range 10 {
		g.Paint(0, c, "#000000", "#000000")
	}

	var wide, narrow bytes.Buffer
	if err := Terminal(&wide, g, TerminalOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := Terminal(&narrow, g, TerminalOptions{Width: 15}); err != nil {
		t.Fatal(err)
	}
	if strings.Count(wide.String(), "  ") < 10 {
		t.Error("wide preview should use two characters per cell")
	}
	if narrow.Len() >= wide.Len() {
		t.Error("narrow preview was not reduced to one character per cell")
	}
}
