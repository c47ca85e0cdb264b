package sequence

import "fmt"

// Swatch is one named filament color from the catalog.
type Swatch struct {
	Hex  string `json:"hex"`  // "#RRGGBB"
	Name string `json:"name"` // display name, e.g. "Fire Engine Red"
}

// Sequence assigns a filament to each printed layer of one tile.
//
// Entries are 1-based filament indices; 0 means no material at that
// layer. Valid sequences are never all zero and never resume material
// after a zero: printing is bottom-up and cannot bridge a gap.
type Sequence []int

// ConfigError reports sequence-generation input that cannot produce a
// valid enumeration. It carries the offending counts so callers can
// surface them without parsing the message.
type ConfigError struct {
	Filaments int
	Layers    int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid sequence configuration: %d filaments, %d layers (need filaments >= 1, layers >= 1)",
		e.Filaments, e.Layers)
}

// Count returns the number of sequences Generate produces for n
// filaments and m layers: n·(n^m−1)/(n−1) for n>1, m for n==1.
func Count(n, m int) int {
	if n <= 1 {
		return m
	}
	// Geometric series sum n + n^2 + ... + n^m.
	total, pow := 0, 1
	for i := 0; i < m; i++ {
		pow *= n
		total += pow
	}
	return total
}

// Generate enumerates every valid sequence for n filaments and m layers
// in the fixed grid-placement order.
//
// Enumeration is length-major: all stacks that print exactly one layer,
// then all stacks of two layers, up to m; within one length the stacks
// run lexicographically by filament index with the bottom layer most
// significant, and the unprinted tail is zero-padded. Combined with the
// zero-suffix invariant this visits exactly the valid sequences once,
// so Generate(2,2) yields [1 0], [2 0], [1 1], [1 2], [2 1], [2 2], in
// that order. The order is contractual: it is the grid placement order.
//
// n==1 is the degenerate single-filament case and produces the m
// sequences [1 0 0 ...], [1 1 0 ...], ..., [1 1 ... 1]. n<1 or m<1
// fails with a *ConfigError.
func Generate(n, m int) ([]Sequence, error) {
	if n < 1 || m < 1 {
		return nil, &ConfigError{Filaments: n, Layers: m}
	}

	out := make([]Sequence, 0, Count(n, m))
	for k := 1; k <= m; k++ {
		// Odometer over k nonzero positions, bottom layer most
		// significant, counting each digit through 1..n.
		digits := make([]int, k)
		for i := range digits {
			digits[i] = 1
		}
		for {
			seq := make(Sequence, m)
			copy(seq, digits)
			out = append(out, seq)

			i := k - 1
			for i >= 0 && digits[i] == n {
				digits[i] = 1
				i--
			}
			if i < 0 {
				break
			}
			digits[i]++
		}
	}
	return out, nil
}

// Layers returns the number of nonzero entries in the sequence: the
// count of compacted layers this tile actually prints.
func (s Sequence) Layers() int {
	n := 0
	for _, f := range s {
		if f != 0 {
			n++
		}
	}
	return n
}

// MaxLayers returns the largest compacted layer count across all
// sequences. It sizes the layer buckets built during layer expansion.
func MaxLayers(seqs []Sequence) int {
	m := 0
	for _, s := range seqs {
		if l := s.Layers(); l > m {
			m = l
		}
	}
	return m
}

// Valid reports whether the sequence obeys the structural invariants:
// not all zero, and no nonzero entry after a zero.
func (s Sequence) Valid() bool {
	if len(s) == 0 {
		return false
	}
	seenZero := false
	any := false
	for _, f := range s {
		switch {
		case f == 0:
			seenZero = true
		case seenZero:
			return false
		default:
			any = true
		}
	}
	return any
}
