package colorx

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// RGB is an 8-bit-per-channel RGB color.
//
// Each component ranges from 0 to 255. Alpha is not modeled: filament
// opacity is handled by the layer-stacking simulation, not per pixel.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Key is a packed 24-bit RGB value (0xRRGGBB) used as a map key.
//
// It replaces string "r,g,b" keys; two colors produce the same Key
// exactly when all three rounded channels are equal, so the documented
// last-write-wins collision behavior of the sequence index is preserved.
type Key uint32

// ParseHex parses a hex color string like "#1A2B3C" or "1a2b3c".
//
// Returns an error for any string that is not exactly six hex digits
// after the optional leading '#'.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q: want 6 hex digits", s)
	}
	val, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val)}, nil
}

// Hex formats the color as "#RRGGBB" with uppercase digits.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Key packs the color into a 24-bit integer key.
func (c RGB) Key() Key {
	return Key(uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
}

// RGB unpacks the key back into its color.
func (k Key) RGB() RGB {
	return RGB{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k)}
}

// NRGBA converts the color to a fully opaque stdlib color value.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// FromColor converts any stdlib color to an 8-bit RGB triple.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// RoundHalfUp converts a float channel value to an 8-bit channel using
// the canonical rounding convention: halves round up, the result is
// clamped to [0,255]. Every conversion from simulated or averaged float
// channels to a key channel goes through this function.
func RoundHalfUp(v float64) uint8 {
	r := math.Floor(v + 0.5)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// DistanceSq returns the squared Euclidean distance between two colors
// in RGB space. Squared form: every caller only compares distances.
func DistanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Nearest returns the index of the palette entry closest to c in
// Euclidean RGB distance. Ties break toward the earliest index, so the
// result is stable for any palette ordering. Returns -1 for an empty
// palette.
func Nearest(c RGB, palette []RGB) int {
	best := -1
	bestD := math.MaxInt
	for i, p := range palette {
		if d := DistanceSq(c, p); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
