// Package pattern runs the full generation pipeline: optional palette
// reduction, grid sampling, palette matching and the post-processors.
package pattern

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/beadwork/internal/grid"
	"github.com/jmylchreest/beadwork/internal/palette"
	"github.com/jmylchreest/beadwork/internal/postprocess"
	"github.com/jmylchreest/beadwork/internal/sampler"
)

const (
	// MaxDimension is the largest supported grid side.
	MaxDimension = 300

	// DefaultDimension is the default grid side.
	DefaultDimension = 52
)

// Options configures one pattern generation.
type Options struct {
	Cols int
	Rows int
	Mode sampler.Mode

	// MergeThreshold is the RGB distance below which colours merge.
	// Zero disables merging.
	MergeThreshold float64

	// RemoveBackground flags the outer background region as external.
	RemoveBackground bool

	// MaxColours limits the palette before matching. Zero means no limit.
	MaxColours   int
	ReduceMethod palette.ReduceMethod
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		Cols:         DefaultDimension,
		Rows:         DefaultDimension,
		Mode:         sampler.ModeAverage,
		ReduceMethod: palette.ReduceFrequency,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Cols < 1 || o.Cols > MaxDimension {
		return fmt.Errorf("cols must be between 1 and %d, got %d", MaxDimension, o.Cols)
	}
	if o.Rows < 1 || o.Rows > MaxDimension {
		return fmt.Errorf("rows must be between 1 and %d, got %d", MaxDimension, o.Rows)
	}
	if o.MergeThreshold < 0 {
		return fmt.Errorf("merge threshold cannot be negative, got %g", o.MergeThreshold)
	}
	if o.MaxColours < 0 {
		return fmt.Errorf("max colours cannot be negative, got %d", o.MaxColours)
	}
	if o.MaxColours > 0 && o.ReduceMethod != "" {
		if _, err := palette.ParseReduceMethod(string(o.ReduceMethod)); err != nil {
			return err
		}
	}
	return nil
}

// Result is a generated pattern plus a report of each stage.
type Result struct {
	Grid *grid.Grid

	// Palette is the palette cells were matched against, after reduction.
	Palette *palette.Palette

	Merge      postprocess.MergeResult
	Background *postprocess.BackgroundResult
}

// Generate converts img into a bead grid using pal. fallback colours every
// opaque cell when pal is empty. logger receives per-stage debug output and
// may be nil.
func Generate(img image.Image, pal *palette.Palette, fallback palette.Entry, opts Options, logger hclog.Logger) (*Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	active := pal
	if opts.MaxColours > 0 && pal.Len() > 0 {
		reduced, err := palette.Reduce(img, pal, opts.MaxColours, opts.ReduceMethod)
		if err != nil {
			return nil, fmt.Errorf("failed to reduce palette: %w", err)
		}
		logger.Debug("palette reduced", "method", opts.ReduceMethod, "from", pal.Len(), "to", reduced.Len())
		active = reduced
	}
	if active.Len() == 0 {
		logger.Warn("palette is empty, using fallback colour", "fallback", fallback.Hex)
	}

	buf := sampler.FromImage(img)
	samples := sampler.Sample(buf, opts.Cols, opts.Rows, opts.Mode)
	logger.Debug("image sampled", "width", buf.Width, "height", buf.Height,
		"cols", opts.Cols, "rows", opts.Rows, "mode", opts.Mode)

	g := palette.Match(samples, active, fallback)
	logger.Debug("palette matched", "colours", g.Distinct(), "beads", g.Beads())

	res := &Result{Grid: g, Palette: active}
	if opts.MergeThreshold > 0 {
		res.Merge = postprocess.Merge(g, opts.MergeThreshold)
		logger.Debug("colours merged", "threshold", opts.MergeThreshold,
			"before", res.Merge.Before, "after", res.Merge.After, "cells", res.Merge.Cells)
	} else {
		n := g.Distinct()
		res.Merge = postprocess.MergeResult{Merged: map[string]string{}, Before: n, After: n}
	}

	if opts.RemoveBackground {
		bg := postprocess.RemoveBackground(g)
		res.Background = &bg
		logger.Debug("background removed", "colour", bg.ID, "marked", bg.Marked)
	}

	logger.Debug("pattern generated", "cols", opts.Cols, "rows", opts.Rows,
		"colours", g.Distinct(), "beads", g.Beads())
	return res, nil
}
