package scan

import (
	"fmt"
	"image"

	"github.com/printlab/filagrid/internal/colorx"
	"github.com/printlab/filagrid/internal/grid"
)

// OutOfBoundsColor is the sentinel recorded for tiles whose sampling
// window falls outside the scan: neutral grey, so a misaligned pass
// degrades visibly instead of aborting.
var OutOfBoundsColor = colorx.RGB{R: 128, G: 128, B: 128}

// Result holds the measured color of every non-unused tile, in grid
// order, plus sampling quality metrics.
type Result struct {
	// Colors has one entry per sequence-bearing tile in grid order.
	Colors []colorx.RGB `json:"colors"`

	// OutOfBounds counts tiles that received the grey sentinel because
	// their window left the image. A nonzero count is a quality signal
	// that the alignment is off, not an error.
	OutOfBounds int `json:"outOfBounds"`
}

// Sample measures the average color of every non-unused tile of a
// printed grid photograph.
//
// The tile footprint in tile space is mapped through align, then
// shrunk concentrically by deadSpace (0-1): a 0.2 dead space samples
// the central 80% per axis, keeping edge bleed and inter-tile shadows
// out of the mean. Windows that leave the image bounds record the grey
// sentinel and bump the OutOfBounds counter.
func Sample(img image.Image, layout *grid.Layout, align Alignment, deadSpace float64) (*Result, error) {
	if deadSpace < 0 || deadSpace >= 1 {
		return nil, fmt.Errorf("scan sample: dead space %v out of range [0,1)", deadSpace)
	}
	tiles := layout.Rows*layout.Cols - len(layout.UnusedCells)
	res := &Result{Colors: make([]colorx.RGB, 0, tiles)}

	for cell := 0; cell < tiles; cell++ {
		row := cell / layout.Cols
		col := cell % layout.Cols

		x0mm := float64(col) * (layout.TileMM + layout.GapMM)
		y0mm := float64(row) * (layout.TileMM + layout.GapMM)
		inset := layout.TileMM * deadSpace / 2
		px0, py0 := align.Apply(x0mm+inset, y0mm+inset)
		px1, py1 := align.Apply(x0mm+layout.TileMM-inset, y0mm+layout.TileMM-inset)

		c, ok := meanWindow(img, int(px0), int(py0), int(px1), int(py1))
		if !ok {
			c = OutOfBoundsColor
			res.OutOfBounds++
		}
		res.Colors = append(res.Colors, c)
	}
	return res, nil
}

// meanWindow averages all pixels in [x0,x1)x[y0,y1). ok is false when
// the window is empty or not fully inside the image.
func meanWindow(img image.Image, x0, y0, x1, y1 int) (colorx.RGB, bool) {
	b := img.Bounds()
	if x0 >= x1 || y0 >= y1 {
		return colorx.RGB{}, false
	}
	if x0 < b.Min.X || y0 < b.Min.Y || x1 > b.Max.X || y1 > b.Max.Y {
		return colorx.RGB{}, false
	}

	var r, g, bl float64
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			r += float64(pr >> 8)
			g += float64(pg >> 8)
			bl += float64(pb >> 8)
			n++
		}
	}
	d := float64(n)
	return colorx.RGB{
		R: colorx.RoundHalfUp(r / d),
		G: colorx.RoundHalfUp(g / d),
		B: colorx.RoundHalfUp(bl / d),
	}, true
}
