package grid

import (
	"fmt"
	"math"
)

// Layout describes one planned calibration grid.
type Layout struct {
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	TileMM   float64 `json:"tile"`   // tile edge length, mm
	GapMM    float64 `json:"gap"`    // spacing between tiles, mm
	WidthMM  float64 `json:"width"`  // overall footprint width, mm
	HeightMM float64 `json:"height"` // overall footprint height, mm

	// UnusedCells lists the trailing row-major cell indices with no
	// sequence assigned: [sequenceCount, Rows*Cols). They are rendered
	// distinctly and never sampled or exported.
	UnusedCells []int `json:"unusedCells"`
}

// CapacityError reports a grid that cannot fit the requested number of
// tiles inside the usable area (the smaller of print bed and scanner
// per axis).
type CapacityError struct {
	Tiles    int     // requested tile count
	MaxCols  int     // tiles that fit across
	MaxRows  int     // tiles that fit down
	TileMM   float64
	GapMM    float64
	MaxWmm   float64
	MaxHmm   float64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("grid capacity exceeded: %d tiles of %.1fmm (gap %.1fmm) cannot fit %.1fx%.1fmm (max %dx%d=%d tiles)",
		e.Tiles, e.TileMM, e.GapMM, e.MaxWmm, e.MaxHmm, e.MaxCols, e.MaxRows, e.MaxCols*e.MaxRows)
}

// tilesPerAxis returns how many tiles of size tile separated by gap fit
// into span millimeters: the largest k with k*tile + (k-1)*gap <= span.
func tilesPerAxis(span, tile, gap float64) int {
	if tile <= 0 || span < tile {
		return 0
	}
	return int(math.Floor((span + gap) / (tile + gap)))
}

// Plan lays out count tiles of tileMM edge with gapMM spacing inside a
// maxWmm x maxHmm area.
//
// The heuristic starts square (cols = ceil(sqrt(count)), rows =
// ceil(count/cols)) and then repairs overflow one axis at a time: when
// the column count exceeds what fits across, it grows rows and
// recomputes columns; otherwise it grows columns and recomputes rows.
// Growth that can never reach count tiles fails with a *CapacityError.
func Plan(count int, tileMM, gapMM, maxWmm, maxHmm float64) (*Layout, error) {
	if count < 1 {
		return nil, fmt.Errorf("grid plan: tile count %d out of range", count)
	}
	maxCols := tilesPerAxis(maxWmm, tileMM, gapMM)
	maxRows := tilesPerAxis(maxHmm, tileMM, gapMM)
	capErr := &CapacityError{
		Tiles: count, MaxCols: maxCols, MaxRows: maxRows,
		TileMM: tileMM, GapMM: gapMM, MaxWmm: maxWmm, MaxHmm: maxHmm,
	}
	if maxCols < 1 || maxRows < 1 || count > maxCols*maxRows {
		return nil, capErr
	}

	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := ceilDiv(count, cols)
	for cols > maxCols || rows > maxRows {
		if cols > maxCols {
			rows++
			cols = ceilDiv(count, rows)
		} else {
			cols++
			rows = ceilDiv(count, cols)
		}
		if rows*cols > maxRows*maxCols {
			return nil, capErr
		}
	}

	unused := make([]int, 0, rows*cols-count)
	for i := count; i < rows*cols; i++ {
		unused = append(unused, i)
	}
	return &Layout{
		Rows:        rows,
		Cols:        cols,
		TileMM:      tileMM,
		GapMM:       gapMM,
		WidthMM:     float64(cols)*tileMM + float64(cols-1)*gapMM,
		HeightMM:    float64(rows)*tileMM + float64(rows-1)*gapMM,
		UnusedCells: unused,
	}, nil
}

// IsUnused reports whether the row-major cell index has no sequence.
func (l *Layout) IsUnused(cell int) bool {
	// UnusedCells is a sorted trailing range, so a bound check suffices.
	return len(l.UnusedCells) > 0 && cell >= l.UnusedCells[0]
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
