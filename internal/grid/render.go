package grid

import (
	"fmt"
	"image"
	"image/color"

	"github.com/printlab/filagrid/internal/colorx"
)

// Render colors for the parts of the grid that carry no tile color.
var (
	gapFill    = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	unusedFill = color.NRGBA{R: 205, G: 205, B: 205, A: 255}
	hatchLine  = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
)

// Render draws the grid preview raster: one square per tile filled with
// its simulated (or measured) color, gaps in neutral grey, and unused
// trailing cells hatched so they read as "not a sample".
//
// tileColors holds one color per sequence in grid order; cells past
// len(tileColors) are the unused cells. pixelsPerMM sets the raster
// scale and must be positive.
func Render(l *Layout, tileColors []colorx.RGB, pixelsPerMM float64) (*image.NRGBA, error) {
	if pixelsPerMM <= 0 {
		return nil, fmt.Errorf("grid render: pixelsPerMM %v out of range", pixelsPerMM)
	}
	tile := int(pixelsPerMM * l.TileMM)
	gap := int(pixelsPerMM * l.GapMM)
	if tile < 1 {
		return nil, fmt.Errorf("grid render: tile size %.2fmm at %.2f px/mm renders below one pixel", l.TileMM, pixelsPerMM)
	}

	w := l.Cols*tile + (l.Cols-1)*gap
	h := l.Rows*tile + (l.Rows-1)*gap
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, gapFill)
		}
	}

	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			cell := row*l.Cols + col
			x0 := col * (tile + gap)
			y0 := row * (tile + gap)
			if cell < len(tileColors) {
				fillTile(img, x0, y0, tile, tileColors[cell].NRGBA())
				continue
			}
			fillTile(img, x0, y0, tile, unusedFill)
			// Diagonal hatch marks the cell as unused.
			for d := 0; d < tile; d += 4 {
				for k := 0; k <= d; k++ {
					img.SetNRGBA(x0+d-k, y0+k, hatchLine)
				}
			}
		}
	}
	return img, nil
}

func fillTile(img *image.NRGBA, x0, y0, size int, c color.NRGBA) {
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}
