package palette

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/jmylchreest/beadwork/internal/colour"
)

// ReduceMethod selects how representative image colours are found when
// limiting a palette to a maximum number of colours.
type ReduceMethod string

const (
	// ReduceFrequency keeps the palette entries that most image pixels match.
	ReduceFrequency ReduceMethod = "frequency"

	// ReduceDominant snaps the image's dominant colours to the palette.
	ReduceDominant ReduceMethod = "dominant"

	// ReduceKMeans snaps k-means cluster centres to the palette.
	ReduceKMeans ReduceMethod = "kmeans"
)

// ValidReduceMethods returns every palette reduction method.
func ValidReduceMethods() []ReduceMethod {
	return []ReduceMethod{ReduceFrequency, ReduceDominant, ReduceKMeans}
}

// ParseReduceMethod converts a method name to a ReduceMethod.
func ParseReduceMethod(s string) (ReduceMethod, error) {
	for _, m := range ValidReduceMethods() {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid reduce method: %s (valid: %v)", s, ValidReduceMethods())
}

// maxSamples bounds the pixels inspected during reduction.
const maxSamples = 5000

// Reduce returns a sub-palette of at most k entries chosen for img.
// The result keeps p's order. When k is not positive, k covers the whole
// palette, or no representative colour can be found, p is returned unchanged.
func Reduce(img image.Image, p *Palette, k int, method ReduceMethod) (*Palette, error) {
	if k <= 0 || k >= p.Len() {
		return p, nil
	}

	var candidates []colour.RGB
	switch method {
	case ReduceFrequency, "":
		return reduceByFrequency(img, p, k), nil
	case ReduceDominant:
		candidates = dominantCandidates(img, k)
	case ReduceKMeans:
		var err error
		candidates, err = kmeansCandidates(img, k)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid reduce method: %s (valid: %v)", method, ValidReduceMethods())
	}

	keep := make(map[string]bool, k)
	for _, c := range candidates {
		if len(keep) >= k {
			break
		}
		e, _, ok := p.Nearest(c)
		if ok {
			keep[e.ID] = true
		}
	}
	if len(keep) == 0 {
		return p, nil
	}
	return p.Subset(keep), nil
}

// samplePixels returns opaque pixels from a regular grid over img,
// at most maxSamples of them.
func samplePixels(img image.Image) []colour.RGB {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return nil
	}

	step := max(int(math.Sqrt(float64(total)/float64(maxSamples))), 1)

	pixels := make([]colour.RGB, 0, min(total, maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			pixels = append(pixels, colour.ToRGB(c))
		}
	}
	return pixels
}

// reduceByFrequency keeps the k entries matched by the most sampled pixels.
// Equal counts go to the entry listed first in the palette.
func reduceByFrequency(img image.Image, p *Palette, k int) *Palette {
	counts := make(map[string]int)
	for _, px := range samplePixels(img) {
		e, _, _ := p.Nearest(px)
		counts[e.ID]++
	}
	if len(counts) == 0 {
		return p
	}

	ranked := make([]Entry, 0, len(counts))
	for _, e := range p.Entries() {
		if counts[e.ID] > 0 {
			ranked = append(ranked, e)
		}
	}
	slices.SortStableFunc(ranked, func(a, b Entry) int {
		return counts[b.ID] - counts[a.ID]
	})

	keep := make(map[string]bool, k)
	for _, e := range ranked[:min(k, len(ranked))] {
		keep[e.ID] = true
	}
	return p.Subset(keep)
}

// dominantCandidates returns the image's dominant colours, heaviest first.
func dominantCandidates(img image.Image, k int) []colour.RGB {
	found := dominantcolor.FindWeight(img, max(k*3, 8))
	slices.SortStableFunc(found, func(a, b dominantcolor.Color) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		default:
			return 0
		}
	})

	out := make([]colour.RGB, 0, len(found))
	for _, c := range found {
		out = append(out, colour.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B})
	}
	return out
}

// kmeansCandidates clusters sampled pixels and returns the centres of the
// most populated clusters first.
func kmeansCandidates(img image.Image, k int) ([]colour.RGB, error) {
	pixels := samplePixels(img)
	if len(pixels) == 0 {
		return nil, nil
	}

	dataset := make(clusters.Observations, 0, len(pixels))
	for _, px := range pixels {
		dataset = append(dataset, clusters.Coordinates{
			float64(px.R) / 255.0,
			float64(px.G) / 255.0,
			float64(px.B) / 255.0,
		})
	}

	workK := min(k*2, len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil {
		return nil, fmt.Errorf("k-means partition failed: %w", err)
	}

	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make([]colour.RGB, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		out = append(out, colour.RGB{
			R: unitToByte(c.Center[0]),
			G: unitToByte(c.Center[1]),
			B: unitToByte(c.Center[2]),
		})
	}
	return out, nil
}

func unitToByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) // #nosec G115 - clamped to [0, 255]
}
