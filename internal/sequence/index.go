package sequence

import (
	"fmt"

	"github.com/printlab/filagrid/internal/colorx"
)

// Entry records everything the index knows about one keyed color: the
// color itself, the sequence that produces it, the swatches it was
// built with, and where its tile sits in the calibration grid.
type Entry struct {
	Color    colorx.RGB `json:"color"`
	Sequence Sequence   `json:"sequence"`
	Swatches []Swatch   `json:"swatches"`
	Row      int        `json:"row"`
	Col      int        `json:"col"`
	Cell     int        `json:"cell"` // row-major grid index
}

// Index maps a packed rounded-RGB key to the sequence entry that
// produces that color.
//
// An Index is immutable once built. Rebuilds construct a fresh Index
// and the owner swaps the shared pointer atomically, so concurrent
// readers observe either the old index or the complete new one, never
// a partially populated map.
type Index struct {
	entries map[colorx.Key]Entry
	// order holds each key at its first appearance in grid order. It
	// fixes the palette ordering Colors returns: map iteration order
	// would make quantization tie-breaks differ run to run.
	order []colorx.Key
	// Collisions counts keys that were overwritten during the build:
	// distinct sequences whose colors round to the same key.
	Collisions int
}

// Build walks every sequence in grid order through the color simulator
// and keys the resulting entries by packed rounded RGB. cols is the
// grid column count used to derive each sequence's (row, col) position.
//
// When two sequences simulate to the same rounded color, the later one
// in grid order overwrites the earlier. That is deliberately lossy: the
// printed grid genuinely contains two tiles of indistinguishable color,
// and a lookup can only ever name one of them.
func Build(seqs []Sequence, swatches []Swatch, cols int) (*Index, error) {
	return build(seqs, swatches, cols, func(i int) (colorx.RGB, error) {
		return Simulate(seqs[i], swatches)
	})
}

// BuildMeasured keys the index by measured tile colors instead of
// simulated ones: measured holds one color per sequence in grid order,
// as produced by the scan sampler. Lookups against artwork quantized
// with these colors then hit the calibrated entries directly. Collision
// behavior matches Build.
func BuildMeasured(seqs []Sequence, swatches []Swatch, cols int, measured []colorx.RGB) (*Index, error) {
	if len(measured) != len(seqs) {
		return nil, fmt.Errorf("index build: %d measured colors for %d sequences", len(measured), len(seqs))
	}
	return build(seqs, swatches, cols, func(i int) (colorx.RGB, error) {
		return measured[i], nil
	})
}

func build(seqs []Sequence, swatches []Swatch, cols int, colorAt func(int) (colorx.RGB, error)) (*Index, error) {
	if cols < 1 {
		return nil, fmt.Errorf("index build: column count %d out of range", cols)
	}
	idx := &Index{
		entries: make(map[colorx.Key]Entry, len(seqs)),
		order:   make([]colorx.Key, 0, len(seqs)),
	}
	for i, s := range seqs {
		c, err := colorAt(i)
		if err != nil {
			return nil, fmt.Errorf("index build: sequence %d: %w", i, err)
		}
		k := c.Key()
		if _, exists := idx.entries[k]; exists {
			idx.Collisions++
		} else {
			idx.order = append(idx.order, k)
		}
		idx.entries[k] = Entry{
			Color:    k.RGB(),
			Sequence: s,
			Swatches: swatches,
			Row:      i / cols,
			Col:      i % cols,
			Cell:     i,
		}
	}
	return idx, nil
}

// Lookup returns the entry for an exact rounded color, if any.
func (ix *Index) Lookup(c colorx.RGB) (Entry, bool) {
	e, ok := ix.entries[c.Key()]
	return e, ok
}

// LookupKey returns the entry for a packed key, if any.
func (ix *Index) LookupKey(k colorx.Key) (Entry, bool) {
	e, ok := ix.entries[k]
	return e, ok
}

// MaxLayers returns the largest compacted layer count over the indexed
// sequences: the number of layer buckets an expansion pass needs.
// Only winners of key collisions are counted, which is exactly the set
// of sequences a lookup can still return.
func (ix *Index) MaxLayers() int {
	m := 0
	for _, e := range ix.entries {
		if l := e.Sequence.Layers(); l > m {
			m = l
		}
	}
	return m
}

// Len returns the number of distinct color keys in the index.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Colors returns every keyed color in the index, ordered by first
// appearance in grid order. The order is deterministic and stable
// across processes, so quantization tie-breaks (earliest palette index
// wins) always resolve the same way for the same grid.
func (ix *Index) Colors() []colorx.RGB {
	out := make([]colorx.RGB, len(ix.order))
	for i, k := range ix.order {
		out[i] = k.RGB()
	}
	return out
}

// NearestEntry returns the entry whose keyed color is closest to c in
// Euclidean RGB distance, for colors that miss the exact key. Ties
// break toward the numerically smallest key so the result is
// deterministic. ok is false only for an empty index.
func (ix *Index) NearestEntry(c colorx.RGB) (Entry, bool) {
	var bestKey colorx.Key
	bestD := -1
	for k := range ix.entries {
		d := colorx.DistanceSq(c, k.RGB())
		if bestD < 0 || d < bestD || (d == bestD && k < bestKey) {
			bestD = d
			bestKey = k
		}
	}
	if bestD < 0 {
		return Entry{}, false
	}
	return ix.entries[bestKey], true
}
