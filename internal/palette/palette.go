package palette

import (
	"errors"

	"github.com/printlab/filagrid/internal/colorx"
)

// ErrNoEntries is returned by importers when not a single valid color
// line or cluster could be produced. Partial garbage is tolerated;
// total absence of entries is fatal.
var ErrNoEntries = errors.New("palette: no valid entries")

// Entry is one palette color with an optional display name.
type Entry struct {
	Color colorx.RGB `json:"color"`
	Name  string     `json:"name,omitempty"`
}

// Palette is an ordered list of colors. Order matters: the quantizer's
// tie-break prefers earlier entries, so reordering a palette can change
// output pixel classes.
type Palette struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Colors returns just the RGB triples, in palette order.
func (p *Palette) Colors() []colorx.RGB {
	out := make([]colorx.RGB, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Color
	}
	return out
}

// Add appends a color, preserving order.
func (p *Palette) Add(c colorx.RGB, name string) {
	p.Entries = append(p.Entries, Entry{Color: c, Name: name})
}

// Dedupe removes exact duplicate colors, keeping the first occurrence
// of each so earlier entries retain their tie-break priority. Returns
// the number of entries removed.
func (p *Palette) Dedupe() int {
	seen := make(map[colorx.Key]bool, len(p.Entries))
	kept := p.Entries[:0]
	removed := 0
	for _, e := range p.Entries {
		k := e.Color.Key()
		if seen[k] {
			removed++
			continue
		}
		seen[k] = true
		kept = append(kept, e)
	}
	p.Entries = kept
	return removed
}
