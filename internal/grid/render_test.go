package grid

import (
	"testing"

	"github.com/printlab/filagrid/internal/colorx"
)

func TestRenderDimensionsAndColors(t *testing.T) {
	l, err := Plan(3, 10, 2, 250, 250)
	if err != nil {
		t.Fatal(err)
	}
	// 1 row x 2 cols won't hold 3; Plan gives 2x2 with cell 3 unused.
	colors := []colorx.RGB{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}}

	img, err := Render(l, colors, 2) // 2 px/mm: 20px tiles, 4px gaps
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantW := l.Cols*20 + (l.Cols-1)*4
	wantH := l.Rows*20 + (l.Rows-1)*4
	b := img.Bounds()
	if b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("raster %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}

	// Center of tile 0 is pure red.
	if got := colorx.FromColor(img.At(10, 10)); got != colors[0] {
		t.Errorf("tile 0 center = %v, want %v", got, colors[0])
	}
	// Center of tile 1 (second column) is pure green.
	if got := colorx.FromColor(img.At(24+10, 10)); got != colors[1] {
		t.Errorf("tile 1 center = %v, want %v", got, colors[1])
	}
	// First gap pixel column is the gap fill.
	if got := colorx.FromColor(img.At(20, 10)); got != (colorx.RGB{R: 235, G: 235, B: 235}) {
		t.Errorf("gap = %v, want grey fill", got)
	}
}

func TestRenderUnusedCellIsNotATileColor(t *testing.T) {
	l, err := Plan(3, 10, 2, 250, 250)
	if err != nil {
		t.Fatal(err)
	}
	colors := []colorx.RGB{{R: 255, G: 0, B: 0}, {R: 0, G: 255, B: 0}, {R: 0, G: 0, B: 255}}
	img, err := Render(l, colors, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Cell 3 (row 1, col 1) is unused; its center must be none of the
	// sample colors.
	got := colorx.FromColor(img.At(24+10, 24+10))
	for _, c := range colors {
		if got == c {
			t.Fatalf("unused cell rendered as sample color %v", c)
		}
	}
}

func TestRenderRejectsBadScale(t *testing.T) {
	l, err := Plan(1, 10, 2, 250, 250)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Render(l, nil, 0); err == nil {
		t.Error("expected error for zero pixelsPerMM")
	}
	if _, err := Render(l, nil, 0.01); err == nil {
		t.Error("expected error when tiles render below one pixel")
	}
}
