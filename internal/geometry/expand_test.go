package geometry

import (
	"testing"

	"github.com/printlab/filagrid/internal/colorx"
	"github.com/printlab/filagrid/internal/quantize"
	"github.com/printlab/filagrid/internal/sequence"
)

var expandSwatches = []sequence.Swatch{
	{Hex: "#FF0000", Name: "Red"},
	{Hex: "#0000FF", Name: "Blue"},
}

// quantizedFixture fabricates a quantized image directly; the expander
// only reads Width/Height, Pixels and Keep.
func quantizedFixture(w, h int, pixels []colorx.RGB, keep []bool) *quantize.Image {
	return &quantize.Image{
		Width:  w,
		Height: h,
		Pixels: pixels,
		Keep:   keep,
	}
}

func buildIndex(t *testing.T, seqs []sequence.Sequence) *sequence.Index {
	t.Helper()
	idx, err := sequence.Build(seqs, expandSwatches, 3)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestExpandCompactsLayers(t *testing.T) {
	// [2 1 0 0]: blue then red, compacted to layers 0 and 1.
	seqs := []sequence.Sequence{{2, 1, 0, 0}}
	idx := buildIndex(t, seqs)
	c, err := sequence.Simulate(seqs[0], expandSwatches)
	if err != nil {
		t.Fatal(err)
	}

	q := quantizedFixture(2, 1, []colorx.RGB{c, c}, []bool{true, true})
	exp, err := Expand(q, idx, 2)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if exp.Layers != 2 {
		t.Fatalf("Layers = %d, want 2 (compacted)", exp.Layers)
	}
	// Layer 0 -> filament 2 (index 1), layer 1 -> filament 1 (index 0).
	if got := exp.Buckets[0][1].Count; got != 2 {
		t.Errorf("layer 0 blue bucket = %d pixels, want 2", got)
	}
	if got := exp.Buckets[1][0].Count; got != 2 {
		t.Errorf("layer 1 red bucket = %d pixels, want 2", got)
	}
	if got := exp.Buckets[0][0].Count + exp.Buckets[1][1].Count; got != 0 {
		t.Errorf("unexpected pixels in unrelated buckets: %d", got)
	}
	if exp.Misses != 0 {
		t.Errorf("Misses = %d, want 0", exp.Misses)
	}
}

func TestExpandCountsMissesAndSkipsFiltered(t *testing.T) {
	seqs := []sequence.Sequence{{1, 0}}
	idx := buildIndex(t, seqs)
	red := colorx.RGB{R: 255, G: 0, B: 0}
	unknown := colorx.RGB{R: 1, G: 2, B: 3}

	q := quantizedFixture(3, 1,
		[]colorx.RGB{red, unknown, red},
		[]bool{true, true, false}, // third pixel filtered out
	)
	exp, err := Expand(q, idx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if exp.Misses != 1 {
		t.Errorf("Misses = %d, want 1 (unknown color dropped quietly)", exp.Misses)
	}
	if got := exp.Buckets[0][0].Count; got != 1 {
		t.Errorf("bucket = %d pixels, want 1 (filtered pixel excluded)", got)
	}
	if exp.Buckets[0][0].Mask[0] != true || exp.Buckets[0][0].Mask[2] != false {
		t.Error("wrong pixels in bucket")
	}
}

func TestExpandFilamentBuckets(t *testing.T) {
	seqs := []sequence.Sequence{{1, 1}}
	idx := buildIndex(t, seqs)
	red := colorx.RGB{R: 255, G: 0, B: 0}
	q := quantizedFixture(1, 1, []colorx.RGB{red}, []bool{true})
	exp, err := Expand(q, idx, 2)
	if err != nil {
		t.Fatal(err)
	}
	redBuckets := exp.FilamentBuckets(0)
	if len(redBuckets) != 2 {
		t.Fatalf("red appears in %d layers, want 2", len(redBuckets))
	}
	if redBuckets[0].Layer != 0 || redBuckets[1].Layer != 1 {
		t.Errorf("buckets out of layer order: %v, %v", redBuckets[0].Layer, redBuckets[1].Layer)
	}
	if len(exp.FilamentBuckets(1)) != 0 {
		t.Error("blue filament should have no buckets")
	}
}

func TestExpandErrors(t *testing.T) {
	seqs := []sequence.Sequence{{1, 0}}
	idx := buildIndex(t, seqs)
	q := quantizedFixture(1, 1, []colorx.RGB{{R: 255, G: 0, B: 0}}, []bool{true})
	if _, err := Expand(q, idx, 0); err == nil {
		t.Error("expected error for filament count < 1")
	}
	seqs2 := []sequence.Sequence{{2, 0}}
	idx2 := buildIndex(t, seqs2)
	blue := colorx.RGB{R: 0, G: 0, B: 255}
	q2 := quantizedFixture(1, 1, []colorx.RGB{blue}, []bool{true})
	if _, err := Expand(q2, idx2, 1); err == nil {
		t.Error("expected error when a sequence exceeds the filament count")
	}
}
