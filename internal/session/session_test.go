package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/recommend"
)

const (
	red   = "#FF0000"
	white = "#FFFFFF"
)

func testGrid() *grid.Grid {
	rows := []string{
		"RRWWR",
		"WWWWR",
		"WRWWW",
	}
	g := grid.New(len(rows), len(rows[0]))
	for r, row := range rows {
		for c := 0; c < len(row); c++ {
			id := white
			if row[c] == 'R' {
				id = red
			}
			g.Paint(r, c, id, id)
		}
	}
	return g
}

func TestSetActive(t *testing.T) {
	s := New(testGrid())
	if err := s.SetActive("#123456"); !errors.Is(err, ErrUnknownColour) {
		t.Errorf("expected ErrUnknownColour, got %v", err)
	}

	if err := s.SetActive(red); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Click(0, 0); err != nil {
		t.Fatal(err)
	}
	if s.Done.Len() == 0 || s.Last == nil {
		t.Fatal("click did not record progress")
	}

	if err := s.SetActive(white); err != nil {
		t.Fatal(err)
	}
	if s.Done.Len() != 0 || s.Last != nil {
		t.Error("switching colour kept the previous colour's progress")
	}
}

func TestRequiresActiveColour(t *testing.T) {
	s := New(testGrid())
	if _, err := s.Click(0, 0); !errors.Is(err, ErrNoActiveColour) {
		t.Errorf("Click: expected ErrNoActiveColour, got %v", err)
	}
	if _, err := s.Recommend(); !errors.Is(err, ErrNoActiveColour) {
		t.Errorf("Recommend: expected ErrNoActiveColour, got %v", err)
	}
	if _, err := s.Progress(); !errors.Is(err, ErrNoActiveColour) {
		t.Errorf("Progress: expected ErrNoActiveColour, got %v", err)
	}
}

func TestClickTogglesRegion(t *testing.T) {
	s := New(testGrid())
	if err := s.SetActive(red); err != nil {
		t.Fatal(err)
	}

	res, err := s.Click(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Region == nil || res.Region.Len() != 2 || !res.Complete {
		t.Fatalf("first click = %+v, want the 2-cell region completed", res)
	}
	if s.Done.Len() != 2 {
		t.Errorf("done = %d cells, want 2", s.Done.Len())
	}
	// Measured from the click at (0,1), the single cell at (2,1) is nearest.
	if res.Next.Region == nil || res.Next.Region.Cells[0] != (grid.Coord{Row: 2, Col: 1}) {
		t.Errorf("next = %+v, want region at (2,1)", res.Next.Region)
	}

	res, err = s.Click(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Complete || s.Done.Len() != 0 {
		t.Errorf("second click should clear the region, done = %d", s.Done.Len())
	}
}

func TestClickOtherColour(t *testing.T) {
	s := New(testGrid())
	if err := s.SetActive(red); err != nil {
		t.Fatal(err)
	}

	res, err := s.Click(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if res.Region != nil || s.Done.Len() != 0 {
		t.Errorf("clicking a white cell toggled %+v", res.Region)
	}
	if s.Last == nil || *s.Last != (grid.Coord{Row: 2, Col: 4}) {
		t.Errorf("last = %v, want (2,4)", s.Last)
	}
	if res.Next.Region == nil || res.Next.Region.Cells[0] != (grid.Coord{Row: 0, Col: 4}) {
		t.Errorf("next = %+v, want region at (0,4) nearest to the click", res.Next.Region)
	}

	if _, err := s.Click(10, 10); err != nil {
		t.Fatal(err)
	}
	if *s.Last != (grid.Coord{Row: 2, Col: 4}) {
		t.Error("out of range click moved the reference point")
	}
}

func TestClickUntilFinished(t *testing.T) {
	s := New(testGrid())
	s.Policy = recommend.Largest
	if err := s.SetActive(red); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		next, err := s.Recommend()
		if err != nil {
			t.Fatal(err)
		}
		if next.Region == nil {
			break
		}
		c := next.Region.Cells[0]
		if _, err := s.Click(c.Row, c.Col); err != nil {
			t.Fatal(err)
		}
	}

	p, err := s.Progress()
	if err != nil {
		t.Fatal(err)
	}
	if !p.Finished() || p.Regions != 3 || p.DoneCells != 5 {
		t.Errorf("progress = %+v, want all 3 regions and 5 cells done", p)
	}
}

func TestSaveLoad(t *testing.T) {
	s := New(testGrid())
	s.Policy = recommend.EdgeFirst
	if err := s.SetActive(red); err != nil {
		t.Fatal(err)
	}
	g := s.Grid
	g.SetExternal(1, 0, true)
	if _, err := s.Click(1, 4); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "pattern.json")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Active != red || got.Policy != recommend.EdgeFirst {
		t.Errorf("loaded active=%q policy=%v", got.Active, got.Policy)
	}
	if got.Done.Len() != 2 || !got.Done.Has(grid.Coord{Row: 0, Col: 4}) {
		t.Errorf("loaded done = %v", got.Done.Coords())
	}
	if got.Last == nil || *got.Last != (grid.Coord{Row: 1, Col: 4}) {
		t.Errorf("loaded last = %v", got.Last)
	}
	if got.Grid.Rows() != 3 || got.Grid.Cols() != 5 || !got.Grid.At(1, 0).External {
		t.Error("grid did not round-trip")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"policy": "edge-first"`) {
		t.Errorf("policy not saved by name:\n%s", data)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{"},
		{name: "wrong version", content: `{"version": 99, "grid": {"rows":1,"cols":1,"cells":[[{"id":"","hex":"","external":false}]]}}`},
		{name: "no grid", content: `{"version": 1}`},
		{name: "done outside grid", content: `{"version": 1, "grid": {"rows":1,"cols":1,"cells":[[{"id":"","hex":"","external":false}]]}, "done": {"rows":2,"cols":2,"coords":[{"row":1,"col":1}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
