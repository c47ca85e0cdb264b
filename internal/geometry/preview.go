package geometry

import (
	"fmt"
	"image"
	"image/color"

	"github.com/printlab/filagrid/internal/colorx"
)

// Preview renders one compacted layer as a raster: each filament's
// pixels in that filament's color over a transparent background. The
// UI stacks these per-layer rasters for a print preview.
func Preview(e *Expansion, layer int, filamentColors []colorx.RGB) (*image.NRGBA, error) {
	if layer < 0 || layer >= e.Layers {
		return nil, fmt.Errorf("layer preview: layer %d out of range [0,%d)", layer, e.Layers)
	}
	if len(filamentColors) < e.Filaments {
		return nil, fmt.Errorf("layer preview: %d colors for %d filaments", len(filamentColors), e.Filaments)
	}

	img := image.NewNRGBA(image.Rect(0, 0, e.Width, e.Height))
	for f := 0; f < e.Filaments; f++ {
		b := e.Buckets[layer][f]
		if b.Count == 0 {
			continue
		}
		c := filamentColors[f]
		fill := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
		for i, on := range b.Mask {
			if on {
				img.SetNRGBA(i%e.Width, i/e.Width, fill)
			}
		}
	}
	return img, nil
}
