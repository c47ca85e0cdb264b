package scan

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Alignment maps tile space (grid millimeters, origin at the grid's
// top-left corner) into scan pixel space. Axes are independent: photos
// are rarely scaled isotropically.
type Alignment struct {
	OffsetX float64 `json:"offsetX"` // scan px of tile-space x=0
	OffsetY float64 `json:"offsetY"` // scan px of tile-space y=0
	ScaleX  float64 `json:"scaleX"`  // scan px per tile-space mm, x axis
	ScaleY  float64 `json:"scaleY"`  // scan px per tile-space mm, y axis
}

// Apply maps a tile-space point to scan pixels.
func (a Alignment) Apply(xmm, ymm float64) (px, py float64) {
	return a.OffsetX + a.ScaleX*xmm, a.OffsetY + a.ScaleY*ymm
}

// PointPair is one user-provided correspondence between a tile-space
// point and where it appears in the scan.
type PointPair struct {
	TileX float64 `json:"tileX"` // mm
	TileY float64 `json:"tileY"` // mm
	ScanX float64 `json:"scanX"` // px
	ScanY float64 `json:"scanY"` // px
}

// FitAlignment computes the least-squares offset and scale per axis
// from reference point pairs. Two pairs determine the transform
// exactly; more pairs average out click error. Fewer than two pairs,
// or pairs with no spread on an axis, leave that axis' scale
// indeterminate and fail.
func FitAlignment(pairs []PointPair) (Alignment, error) {
	if len(pairs) < 2 {
		return Alignment{}, fmt.Errorf("alignment fit: need at least 2 point pairs, got %d", len(pairs))
	}

	ox, sx, err := fitAxis(pairs, func(p PointPair) (float64, float64) { return p.TileX, p.ScanX })
	if err != nil {
		return Alignment{}, fmt.Errorf("alignment fit: x axis: %w", err)
	}
	oy, sy, err := fitAxis(pairs, func(p PointPair) (float64, float64) { return p.TileY, p.ScanY })
	if err != nil {
		return Alignment{}, fmt.Errorf("alignment fit: y axis: %w", err)
	}
	return Alignment{OffsetX: ox, OffsetY: oy, ScaleX: sx, ScaleY: sy}, nil
}

// fitAxis solves scan = offset + scale*tile in the least-squares sense
// for one axis.
func fitAxis(pairs []PointPair, axis func(PointPair) (tile, scan float64)) (offset, scale float64, err error) {
	n := len(pairs)
	a := mat.NewDense(n, 2, nil)
	b := mat.NewVecDense(n, nil)
	var minT, maxT float64
	for i, p := range pairs {
		t, s := axis(p)
		a.Set(i, 0, 1)
		a.Set(i, 1, t)
		b.SetVec(i, s)
		if i == 0 || t < minT {
			minT = t
		}
		if i == 0 || t > maxT {
			maxT = t
		}
	}
	if maxT == minT {
		return 0, 0, fmt.Errorf("reference points have no spread (all at %.3fmm), scale indeterminate", minT)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return 0, 0, fmt.Errorf("least squares solve: %w", err)
	}
	return x.AtVec(0), x.AtVec(1), nil
}
