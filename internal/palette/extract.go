package palette

import (
	"fmt"
	"image"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/printlab/filagrid/internal/colorx"
)

// Algorithm selects how ExtractFromImage derives a palette.
type Algorithm string

const (
	// AlgorithmKMeans clusters pixel colors with k-means and uses the
	// cluster centers. Slower, better for photographic artwork.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmDominant picks the most dominant colors by histogram
	// weight. Fast, better for flat-color artwork.
	AlgorithmDominant Algorithm = "dominant"
)

// ExtractFromImage derives a count-color palette from an arbitrary
// image. This is the third palette source next to scan measurement and
// GPL import: it lets a user quantize artwork against its own colors
// before any calibration grid exists.
func ExtractFromImage(img image.Image, count int, alg Algorithm) (*Palette, error) {
	if count < 1 {
		return nil, fmt.Errorf("palette extract: count %d out of range", count)
	}
	switch alg {
	case AlgorithmKMeans:
		return extractKMeans(img, count)
	case AlgorithmDominant:
		return extractDominant(img, count)
	default:
		return nil, fmt.Errorf("palette extract: unknown algorithm %q (valid: %q, %q)",
			alg, AlgorithmKMeans, AlgorithmDominant)
	}
}

func extractKMeans(img image.Image, count int) (*Palette, error) {
	b := img.Bounds()
	// Subsample large images: cluster quality saturates long before
	// one observation per pixel.
	step := 1
	if pixels := b.Dx() * b.Dy(); pixels > 256*256 {
		step = pixels / (256 * 256)
		if step < 1 {
			step = 1
		}
	}

	var obs clusters.Observations
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if i%step == 0 {
				r, g, bl, _ := img.At(x, y).RGBA()
				obs = append(obs, clusters.Coordinates{
					float64(r >> 8), float64(g >> 8), float64(bl >> 8),
				})
			}
			i++
		}
	}
	if len(obs) == 0 {
		return nil, ErrNoEntries
	}
	if count > len(obs) {
		count = len(obs)
	}

	km := kmeans.New()
	cls, err := km.Partition(obs, count)
	if err != nil {
		return nil, fmt.Errorf("palette extract: kmeans: %w", err)
	}

	p := &Palette{Name: "kmeans"}
	for _, c := range cls {
		center := c.Center
		p.Add(colorx.RGB{
			R: colorx.RoundHalfUp(center[0]),
			G: colorx.RoundHalfUp(center[1]),
			B: colorx.RoundHalfUp(center[2]),
		}, "")
	}
	p.Dedupe()
	if len(p.Entries) == 0 {
		return nil, ErrNoEntries
	}
	return p, nil
}

func extractDominant(img image.Image, count int) (*Palette, error) {
	found := dominantcolor.FindN(img, count)
	p := &Palette{Name: "dominant"}
	for _, c := range found {
		p.Add(colorx.RGB{R: c.R, G: c.G, B: c.B}, "")
	}
	p.Dedupe()
	if len(p.Entries) == 0 {
		return nil, ErrNoEntries
	}
	return p, nil
}
