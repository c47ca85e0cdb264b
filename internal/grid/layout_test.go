package grid

import (
	"errors"
	"testing"
)

func TestPlanSquareIsh(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		wantRows int
		wantCols int
	}{
		{"perfect square", 9, 3, 3},
		{"six tiles", 6, 2, 3},
		{"seven tiles", 7, 3, 3},
		{"single tile", 1, 1, 1},
		{"two tiles", 2, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Plan(tt.count, 10, 2, 250, 250)
			if err != nil {
				t.Fatalf("Plan(%d): %v", tt.count, err)
			}
			if l.Rows != tt.wantRows || l.Cols != tt.wantCols {
				t.Errorf("Plan(%d) = %dx%d, want %dx%d", tt.count, l.Rows, l.Cols, tt.wantRows, tt.wantCols)
			}
			if l.Rows*l.Cols < tt.count {
				t.Errorf("Plan(%d): %d cells cannot hold the tiles", tt.count, l.Rows*l.Cols)
			}
		})
	}
}

func TestPlanUnusedCells(t *testing.T) {
	l, err := Plan(7, 10, 2, 250, 250)
	if err != nil {
		t.Fatal(err)
	}
	// 3x3 grid, cells 7 and 8 unused.
	if len(l.UnusedCells) != 2 || l.UnusedCells[0] != 7 || l.UnusedCells[1] != 8 {
		t.Errorf("UnusedCells = %v, want [7 8]", l.UnusedCells)
	}
	if l.IsUnused(6) || !l.IsUnused(7) || !l.IsUnused(8) {
		t.Error("IsUnused misclassifies trailing cells")
	}
}

func TestPlanGrowsWhenWidthConstrained(t *testing.T) {
	// 12 tiles of 10mm+2mm gap in a 40mm-wide area: at most 3 columns
	// fit, so the square 4x3 start must become taller, not wider.
	l, err := Plan(12, 10, 2, 40, 300)
	if err != nil {
		t.Fatal(err)
	}
	if l.Cols > 3 {
		t.Errorf("Cols = %d, want <= 3 for a 40mm row", l.Cols)
	}
	if l.Rows*l.Cols < 12 {
		t.Errorf("grid %dx%d too small", l.Rows, l.Cols)
	}
	if l.Rows != 4 || l.Cols != 3 {
		t.Errorf("Plan(12) width-constrained = %dx%d, want 4x3", l.Rows, l.Cols)
	}
}

func TestPlanPhysicalSize(t *testing.T) {
	l, err := Plan(6, 10, 2, 250, 250)
	if err != nil {
		t.Fatal(err)
	}
	// 2 rows x 3 cols: width 3*10+2*2 = 34, height 2*10+1*2 = 22.
	if l.WidthMM != 34 || l.HeightMM != 22 {
		t.Errorf("size = %.1fx%.1f, want 34x22", l.WidthMM, l.HeightMM)
	}
}

func TestPlanCapacityError(t *testing.T) {
	_, err := Plan(100, 10, 2, 30, 30)
	if err == nil {
		t.Fatal("expected capacity error")
	}
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error %T, want *CapacityError", err)
	}
	if capErr.Tiles != 100 {
		t.Errorf("CapacityError.Tiles = %d, want 100", capErr.Tiles)
	}
	if capErr.MaxCols != 2 || capErr.MaxRows != 2 {
		t.Errorf("CapacityError max = %dx%d, want 2x2", capErr.MaxCols, capErr.MaxRows)
	}
}

func TestPlanTileLargerThanArea(t *testing.T) {
	if _, err := Plan(1, 50, 0, 30, 30); err == nil {
		t.Error("expected capacity error when one tile exceeds the area")
	}
}

func TestTilesPerAxis(t *testing.T) {
	tests := []struct {
		span, tile, gap float64
		want            int
	}{
		{34, 10, 2, 3},  // exactly 3 tiles + 2 gaps
		{33.9, 10, 2, 2},
		{10, 10, 2, 1},
		{9.9, 10, 2, 0},
		{100, 10, 0, 10},
	}
	for _, tt := range tests {
		if got := tilesPerAxis(tt.span, tt.tile, tt.gap); got != tt.want {
			t.Errorf("tilesPerAxis(%v, %v, %v) = %d, want %d", tt.span, tt.tile, tt.gap, got, tt.want)
		}
	}
}
