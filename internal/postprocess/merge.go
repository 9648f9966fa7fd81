// Package postprocess provides in-place grid transforms applied after palette
// matching: merging visually similar colours and removing the background.
package postprocess

import (
	"slices"

	"github.com/jmylchreest/beadwork/internal/colour"
	"github.com/jmylchreest/beadwork/internal/grid"
)

// MergeResult describes what a Merge call changed.
type MergeResult struct {
	// Merged maps each absorbed identifier to its representative.
	Merged map[string]string

	// Before and After are the distinct colour counts around the merge.
	Before int
	After  int

	// Cells is the number of cells rewritten.
	Cells int
}

type tally struct {
	id    string
	hex   string
	rgb   colour.RGB
	count int
	first int
}

// Merge collapses similar colours into the more frequent one.
//
// Colours are visited in descending order of occurrence (equal counts keep
// first-occurrence order). Each colour not yet absorbed becomes a
// representative and absorbs every later, unabsorbed colour closer than
// threshold in RGB space. The pass is greedy: a colour absorbed into one
// representative is never reconsidered, so results depend on frequency order
// rather than forming an optimal clustering. External and empty cells are not
// touched. Threshold 0 (or less) merges nothing.
func Merge(g *grid.Grid, threshold float64) MergeResult {
	tallies := tallyColours(g)
	result := MergeResult{Merged: make(map[string]string), Before: len(tallies), After: len(tallies)}
	if threshold <= 0 || len(tallies) < 2 {
		return result
	}

	slices.SortStableFunc(tallies, func(a, b *tally) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return a.first - b.first
	})

	// Compare squared distances to avoid a square root per pair.
	limit := threshold * threshold
	merged := make([]bool, len(tallies))
	target := make(map[string]*tally)

	for i, a := range tallies {
		if merged[i] {
			continue
		}
		for j := i + 1; j < len(tallies); j++ {
			if merged[j] {
				continue
			}
			b := tallies[j]
			if float64(colour.DistanceSq(a.rgb, b.rgb)) < limit {
				merged[j] = true
				target[b.id] = a
				result.Merged[b.id] = a.id
			}
		}
	}

	if len(target) == 0 {
		return result
	}

	for r := range g.Rows() {
		for c := range g.Cols() {
			cell := g.At(r, c)
			if cell.External || cell.IsEmpty() {
				continue
			}
			if rep, ok := target[cell.ID]; ok {
				g.Set(r, c, grid.Cell{ID: rep.id, Hex: rep.hex})
				result.Cells++
			}
		}
	}

	result.After = result.Before - len(target)
	return result
}

// tallyColours counts each non-external, non-empty colour in first-seen order.
func tallyColours(g *grid.Grid) []*tally {
	var out []*tally
	index := make(map[string]*tally)
	pos := 0

	g.Each(func(_, _ int, cell grid.Cell) {
		pos++
		if cell.External || cell.IsEmpty() {
			return
		}
		t, ok := index[cell.ID]
		if !ok {
			rgb, err := colour.ParseHex(cell.Hex)
			if err != nil {
				// Cells without a parsable colour cannot be compared.
				return
			}
			t = &tally{id: cell.ID, hex: cell.Hex, rgb: rgb, first: pos}
			index[cell.ID] = t
			out = append(out, t)
		}
		t.count++
	})
	return out
}
