package sequence

import (
	"fmt"

	"github.com/printlab/filagrid/internal/colorx"
)

// Simulate predicts the printed color of a sequence as the arithmetic
// mean of its nonzero layers' swatch colors. Translucent layers stack
// roughly additively, so the mean is a usable first-order model; the
// scan path exists to replace these predictions with measured colors.
//
// Channels are rounded half-up, the canonical key convention. A
// sequence with no nonzero layer (defensive, Generate never emits one)
// simulates to white: the bare substrate.
func Simulate(seq Sequence, swatches []Swatch) (colorx.RGB, error) {
	var r, g, b float64
	n := 0
	for _, f := range seq {
		if f == 0 {
			continue
		}
		if f < 1 || f > len(swatches) {
			return colorx.RGB{}, fmt.Errorf("sequence references filament %d but only %d swatches are selected", f, len(swatches))
		}
		c, err := colorx.ParseHex(swatches[f-1].Hex)
		if err != nil {
			return colorx.RGB{}, fmt.Errorf("swatch %q: %w", swatches[f-1].Name, err)
		}
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
		n++
	}
	if n == 0 {
		return colorx.RGB{R: 255, G: 255, B: 255}, nil
	}
	d := float64(n)
	return colorx.RGB{
		R: colorx.RoundHalfUp(r / d),
		G: colorx.RoundHalfUp(g / d),
		B: colorx.RoundHalfUp(b / d),
	}, nil
}
