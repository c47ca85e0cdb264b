package quantize

import (
	"image"
	"image/color"
	"testing"

	"github.com/printlab/filagrid/internal/colorx"
)

var bwPalette = []colorx.RGB{
	{R: 0, G: 0, B: 0},
	{R: 255, G: 255, B: 255},
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestQuantizePaletteImageIsIdentity(t *testing.T) {
	// An image made solely of exact palette colors must come back
	// bit-identical with dithering off.
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			c := bwPalette[(x+y)%2]
			img.Set(x, y, color.RGBA{c.R, c.G, c.B, 255})
		}
	}

	for _, dither := range []bool{false, true} {
		q, err := Quantize(img, bwPalette, Options{Dither: dither})
		if err != nil {
			t.Fatalf("Quantize(dither=%v): %v", dither, err)
		}
		for y := 0; y < 4; y++ {
			for x := 0; x < 8; x++ {
				want := bwPalette[(x+y)%2]
				if got := q.At(x, y); got != want {
					t.Fatalf("dither=%v pixel (%d,%d) = %v, want %v", dither, x, y, got, want)
				}
				if !q.Kept(x, y) {
					t.Fatalf("dither=%v pixel (%d,%d) unexpectedly filtered", dither, x, y)
				}
			}
		}
	}
}

func TestQuantizeNearestWithoutDither(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{70, 70, 70, 255})
	q, err := Quantize(img, bwPalette, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// 70 is nearer to black than white; every pixel snaps to black.
	for i, c := range q.Pixels {
		if c != bwPalette[0] {
			t.Fatalf("pixel %d = %v, want black", i, c)
		}
	}
}

func TestQuantizeDitherPreservesMeanTone(t *testing.T) {
	// A mid grey against black/white must dither to a mix of both,
	// with the white fraction near the grey level.
	img := solidImage(64, 64, color.RGBA{128, 128, 128, 255})
	q, err := Quantize(img, bwPalette, Options{Dither: true})
	if err != nil {
		t.Fatal(err)
	}
	white := 0
	for _, idx := range q.PaletteIndex {
		if idx == 1 {
			white++
		}
	}
	frac := float64(white) / float64(len(q.PaletteIndex))
	if frac < 0.42 || frac > 0.58 {
		t.Errorf("white fraction = %.3f, want about 128/255", frac)
	}

	// Without dithering the same grey collapses to a single class.
	q2, err := Quantize(img, bwPalette, Options{})
	if err != nil {
		t.Fatal(err)
	}
	first := q2.PaletteIndex[0]
	for i, idx := range q2.PaletteIndex {
		if idx != first {
			t.Fatalf("undithered pixel %d class %d differs from %d", i, idx, first)
		}
	}
}

func TestQuantizeDitherScanOrder(t *testing.T) {
	// 2x2 mid grey against black/white, dithered. Row-major FS:
	// (0,0): 128 -> white (tie toward... 128 is closer to 255? No:
	// 128 vs black = 128^2*3, vs white = 127^2*3 -> white), error
	// 128-255 = -127 diffused 7/16 right, 3/16+5/16+1/16 down.
	img := solidImage(2, 2, color.RGBA{128, 128, 128, 255})
	q, err := Quantize(img, bwPalette, Options{Dither: true})
	if err != nil {
		t.Fatal(err)
	}
	// (0,0) white; (1,0) gets 128-55.5=72.4 -> rounds 72 -> black.
	want := []int{1, 0, 0, 1}
	for i, idx := range q.PaletteIndex {
		if idx != want[i] {
			t.Fatalf("PaletteIndex = %v, want %v (deterministic scan order)", q.PaletteIndex, want)
		}
	}
}

func TestMinDetailFiltersIsolatedPixel(t *testing.T) {
	// A single white pixel in a black field cannot print at 1mm detail.
	img := solidImage(9, 9, color.RGBA{0, 0, 0, 255})
	img.Set(4, 4, color.RGBA{255, 255, 255, 255})

	q, err := Quantize(img, bwPalette, Options{
		MinDetailMM: 1,
		PixelsPerMM: 2, // radius 2 -> 5x5 neighborhood
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Kept(4, 4) {
		t.Error("isolated pixel should be filtered")
	}
	if q.At(4, 4) != bwPalette[1] {
		t.Errorf("filtered pixel color = %v, want quantized white for preview continuity", q.At(4, 4))
	}
	if q.Filtered != 1 {
		t.Errorf("Filtered = %d, want 1", q.Filtered)
	}
	if !q.Kept(0, 0) || !q.Kept(8, 8) {
		t.Error("uniform background must survive the filter")
	}
}

func TestMinDetailKeepsLargeRegions(t *testing.T) {
	// Left half black, right half white: every pixel has a solid
	// same-class majority except nothing - the halves are large.
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 8 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	q, err := Quantize(img, bwPalette, Options{MinDetailMM: 0.5, PixelsPerMM: 2})
	if err != nil {
		t.Fatal(err)
	}
	if q.Filtered != 0 {
		t.Errorf("Filtered = %d, want 0 for two large halves", q.Filtered)
	}
}

func TestQuantizeMask(t *testing.T) {
	img := solidImage(2, 1, color.RGBA{10, 10, 10, 255})
	mask := []bool{true, false}
	q, err := Quantize(img, bwPalette, Options{Mask: mask})
	if err != nil {
		t.Fatal(err)
	}
	if !q.Kept(0, 0) || q.Kept(1, 0) {
		t.Errorf("Keep = %v, want mask applied", q.Keep)
	}
	if q.At(1, 0) != bwPalette[0] {
		t.Error("masked pixel still receives a quantized color")
	}
}

func TestQuantizeErrors(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{})
	if _, err := Quantize(img, nil, Options{}); err == nil {
		t.Error("expected error for empty palette")
	}
	if _, err := Quantize(img, bwPalette, Options{Mask: []bool{true}}); err == nil {
		t.Error("expected error for mask length mismatch")
	}
	if _, err := Quantize(img, bwPalette, Options{MinDetailMM: 1}); err == nil {
		t.Error("expected error for min detail without pixelsPerMM")
	}
	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Quantize(empty, bwPalette, Options{}); err == nil {
		t.Error("expected error for empty image")
	}
}
