package geometry

import (
	"fmt"

	"github.com/printlab/filagrid/internal/quantize"
	"github.com/printlab/filagrid/internal/sequence"
)

// Bucket is the pixel set printed by one filament at one compacted
// layer. Pixels are stored as a row-major bitmask so the vectorizer
// can scan them in its contractual order.
type Bucket struct {
	Layer    int    // compacted layer index, 0 = bottom
	Filament int    // 0-based filament index
	Mask     []bool // row-major, true = print here
	Count    int    // number of set pixels
}

// Expansion is the per-layer, per-filament decomposition of a
// quantized image.
type Expansion struct {
	Width     int
	Height    int
	Layers    int // compacted layer count
	Filaments int

	// Buckets is indexed [layer][filament]; entries with Count == 0
	// produce no geometry.
	Buckets [][]*Bucket

	// Misses counts kept pixels whose quantized color had no entry in
	// the index. A modest fraction is expected noise (collisions,
	// dithering); each miss drops its pixel from geometry.
	Misses int
}

// Expand walks every kept pixel of a quantized image through the color
// index and distributes it into layer buckets.
//
// A hit's sequence is read bottom-up; each nonzero entry consumes the
// next compacted layer slot, so sequence [2 3 0 0] sends the pixel to
// (layer 0, filament 2) and (layer 1, filament 3). Lookup misses are
// counted, not raised: the pixel silently prints nothing.
func Expand(q *quantize.Image, idx *sequence.Index, filaments int) (*Expansion, error) {
	if filaments < 1 {
		return nil, fmt.Errorf("layer expand: filament count %d out of range", filaments)
	}
	layers := idx.MaxLayers()
	if layers == 0 {
		return nil, fmt.Errorf("layer expand: index holds no printable sequences")
	}

	exp := &Expansion{
		Width:     q.Width,
		Height:    q.Height,
		Layers:    layers,
		Filaments: filaments,
		Buckets:   make([][]*Bucket, layers),
	}
	for l := 0; l < layers; l++ {
		exp.Buckets[l] = make([]*Bucket, filaments)
		for f := 0; f < filaments; f++ {
			exp.Buckets[l][f] = &Bucket{
				Layer:    l,
				Filament: f,
				Mask:     make([]bool, q.Width*q.Height),
			}
		}
	}

	for i, keep := range q.Keep {
		if !keep {
			continue
		}
		entry, ok := idx.LookupKey(q.Pixels[i].Key())
		if !ok {
			exp.Misses++
			continue
		}
		layer := 0
		for _, f := range entry.Sequence {
			if f == 0 {
				continue
			}
			if f > filaments {
				return nil, fmt.Errorf("layer expand: sequence %v references filament %d of %d", entry.Sequence, f, filaments)
			}
			b := exp.Buckets[layer][f-1]
			if !b.Mask[i] {
				b.Mask[i] = true
				b.Count++
			}
			layer++
		}
	}
	return exp, nil
}

// FilamentBuckets returns the non-empty buckets of one filament,
// bottom layer first. STL export concatenates them into one solid.
func (e *Expansion) FilamentBuckets(filament int) []*Bucket {
	var out []*Bucket
	for l := 0; l < e.Layers; l++ {
		if b := e.Buckets[l][filament]; b.Count > 0 {
			out = append(out, b)
		}
	}
	return out
}
