package recommend

import (
	"testing"

	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/region"
)

const red = "#FF0000"

func build(rows ...string) *grid.Grid {
	g := grid.New(len(rows), len(rows[0]))
	for r, row := range rows {
		for c := 0; c < len(row); c++ {
			switch row[c] {
			case 'R':
				g.Paint(r, c, red, red)
			case 'W':
				g.Paint(r, c, "#FFFFFF", "#FFFFFF")
			}
		}
	}
	return g
}

func first(rec Recommendation) grid.Coord {
	return rec.Region.Cells[0]
}

func TestEdgeFirstPrefersBorderRegion(t *testing.T) {
	// Two equal-size incomplete regions, the interior one discovered first.
	g := build(
		"WWWWW",
		"WRRWW",
		"WWWWW",
		"WWWWW",
		"WWRRW",
	)
	regions := region.Of(g, red)
	if len(regions) != 2 || regions[0].Len() != regions[1].Len() {
		t.Fatalf("setup: want two equal regions, got %d", len(regions))
	}

	rec := Next(g, red, grid.NewCoordSetFor(g), nil, EdgeFirst)
	if rec.Region == nil {
		t.Fatal("no recommendation")
	}
	if !rec.Region.TouchesBorder(g.Rows(), g.Cols()) {
		t.Errorf("edge-first recommended interior region starting at %v", first(rec))
	}

	rowEdge := build(
		"WRRWW",
		"WWWWW",
		"WWWWW",
		"WWRRW",
		"WWWWW",
	)
	rec = Next(rowEdge, red, grid.NewCoordSetFor(rowEdge), nil, EdgeFirst)
	if got := first(rec); got != (grid.Coord{Row: 0, Col: 1}) {
		t.Errorf("edge-first picked region at %v, want the one touching row 0", got)
	}
}

func TestEdgeFirstFallsBackToFirstIncomplete(t *testing.T) {
	g := build(
		"WWWWW",
		"WRWRW",
		"WWWWW",
	)
	done := grid.NewCoordSetFor(g)
	done.Add(grid.Coord{Row: 1, Col: 1})

	rec := Next(g, red, done, nil, EdgeFirst)
	if got := first(rec); got != (grid.Coord{Row: 1, Col: 3}) {
		t.Errorf("fallback picked %v, want (1,3)", got)
	}
}

func TestNearest(t *testing.T) {
	g := build(
		"R....",
		".....",
		"....R",
		".....",
		"R...R",
	)

	tests := []struct {
		name string
		last *grid.Coord
		want grid.Coord
	}{
		{name: "grid centre", last: nil, want: grid.Coord{Row: 2, Col: 4}},
		{name: "near top left", last: &grid.Coord{Row: 1, Col: 0}, want: grid.Coord{Row: 0, Col: 0}},
		{name: "near bottom right", last: &grid.Coord{Row: 4, Col: 3}, want: grid.Coord{Row: 4, Col: 4}},
		{name: "equidistant keeps discovery order", last: &grid.Coord{Row: 2, Col: 0}, want: grid.Coord{Row: 0, Col: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Next(g, red, grid.NewCoordSetFor(g), tt.last, Nearest)
			if got := first(rec); got != tt.want {
				t.Errorf("Nearest picked %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLargest(t *testing.T) {
	g := build(
		"R.RR",
		"..RR",
		"R...",
		"RR.R",
	)
	rec := Next(g, red, grid.NewCoordSetFor(g), nil, Largest)
	if rec.Region.Len() != 4 {
		t.Fatalf("Largest picked a region of %d cells, want 4", rec.Region.Len())
	}
	if rec.Center.Row != 0.5 || rec.Center.Col != 2.5 {
		t.Errorf("centre = %+v, want (0.5, 2.5)", *rec.Center)
	}
}

func TestLargestTieKeepsDiscoveryOrder(t *testing.T) {
	g := build(
		"RR.RR",
		"R...R",
	)
	rec := Next(g, red, grid.NewCoordSetFor(g), nil, Largest)
	if got := first(rec); got != (grid.Coord{Row: 0, Col: 0}) {
		t.Errorf("tie picked %v, want (0,0)", got)
	}
}

func TestExhaustion(t *testing.T) {
	g := build("RWR", "WRW")
	done := grid.NewCoordSetFor(g)

	for _, policy := range ValidPolicies() {
		t.Run(policy.String(), func(t *testing.T) {
			done.Clear()
			for range region.Of(g, red) {
				rec := Next(g, red, done, nil, policy)
				if rec.Region == nil {
					t.Fatal("recommendation ran out early")
				}
				region.Toggle(done, *rec.Region)
			}
			rec := Next(g, red, done, nil, policy)
			if rec.Region != nil || rec.Center != nil {
				t.Errorf("expected no recommendation once complete, got %+v", rec)
			}
		})
	}
}

func TestNoRegions(t *testing.T) {
	g := build("WW", "WW")
	if rec := Next(g, red, grid.NewCoordSetFor(g), nil, Nearest); rec.Region != nil {
		t.Errorf("recommendation for absent colour: %+v", rec)
	}
}

func TestReference(t *testing.T) {
	g := grid.New(4, 5)
	if got := Reference(g, nil); got != (Point{Row: 1.5, Col: 2}) {
		t.Errorf("Reference(nil) = %+v", got)
	}
	if got := Reference(g, &grid.Coord{Row: 3, Col: 1}); got != (Point{Row: 3, Col: 1}) {
		t.Errorf("Reference(last) = %+v", got)
	}
}

func TestProgressOf(t *testing.T) {
	g := build("RRW", "WWR", "RWR")
	done := grid.NewCoordSetFor(g)
	done.Add(grid.Coord{Row: 0, Col: 0})
	done.Add(grid.Coord{Row: 0, Col: 1})
	done.Add(grid.Coord{Row: 1, Col: 2})

	p := ProgressOf(g, red, done)
	want := Progress{ID: red, Regions: 3, Complete: 1, Cells: 5, DoneCells: 3}
	if p != want {
		t.Errorf("ProgressOf() = %+v, want %+v", p, want)
	}
	if p.Finished() {
		t.Error("Finished() true with incomplete regions")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "nearest", want: Nearest},
		{in: "LARGEST", want: Largest},
		{in: "edge-first", want: EdgeFirst},
		{in: "edge_first", want: EdgeFirst},
		{in: "random", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePolicy(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	var p Policy
	f := PolicyFlag{Policy: &p}
	if err := f.Set("edge-first"); err != nil || p != EdgeFirst || f.String() != "edge-first" {
		t.Errorf("PolicyFlag.Set: p=%v err=%v", p, err)
	}
}
