package quantize

import (
	"fmt"
	"image"
	"math"

	"github.com/printlab/filagrid/internal/colorx"
)

// DefaultNeighborShare is the fraction of a pixel's neighborhood that
// must share its palette class for the pixel to survive the min-detail
// filter. The 50% majority is an inherited heuristic; it is a tunable
// option rather than a constant precisely because no stronger rationale
// is known.
const DefaultNeighborShare = 0.5

// Options controls one quantization pass.
type Options struct {
	// Dither enables Floyd-Steinberg error diffusion on kept pixels.
	Dither bool

	// MinDetailMM is the smallest color feature worth printing, in mm.
	// Zero disables the min-detail filter.
	MinDetailMM float64

	// PixelsPerMM converts MinDetailMM into a pixel radius:
	// radius = round(MinDetailMM * PixelsPerMM). Required (positive)
	// when MinDetailMM is set.
	PixelsPerMM float64

	// NeighborShare overrides DefaultNeighborShare when positive.
	NeighborShare float64

	// Mask optionally pre-filters pixels (row-major, true = keep).
	// Masked-out pixels behave like min-detail-filtered ones: they
	// still get a quantized color but are excluded from geometry and
	// never receive or emit diffusion error.
	Mask []bool
}

// Image is the result of one quantization pass.
type Image struct {
	Width  int
	Height int

	// Pixels holds the palette color chosen for each pixel, row-major.
	// Filtered pixels also carry a color, for visual continuity; the
	// Keep flag is what excludes them from geometry.
	Pixels []colorx.RGB

	// PaletteIndex is the chosen palette entry per pixel.
	PaletteIndex []int

	// Keep marks pixels that survive masking and the min-detail
	// filter. Only kept pixels feed layer expansion.
	Keep []bool

	// Filtered counts pixels with Keep == false.
	Filtered int
}

// At returns the quantized color at (x, y).
func (q *Image) At(x, y int) colorx.RGB {
	return q.Pixels[y*q.Width+x]
}

// Kept reports whether the pixel at (x, y) survives filtering.
func (q *Image) Kept(x, y int) bool {
	return q.Keep[y*q.Width+x]
}

// Quantize maps every pixel of src onto the nearest palette color.
//
// Nearest is Euclidean RGB distance with ties broken toward the
// earliest palette index. With Options.Dither the quantization error
// of each kept pixel is diffused Floyd-Steinberg style, row-major so
// later pixels see already-diffused error: 7/16 to the right neighbor,
// 3/16 below-left, 5/16 below, 1/16 below-right, each channel clamped
// to [0,255] after injection. The min-detail filter classifies pixels
// on the original (pre-dither) image, so the two features compose
// independently.
//
// An image already composed solely of exact palette colors comes back
// bit-identical when dithering is off (and also when it is on: exact
// matches diffuse zero error).
func Quantize(src image.Image, palette []colorx.RGB, opts Options) (*Image, error) {
	if len(palette) == 0 {
		return nil, fmt.Errorf("quantize: empty palette")
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("quantize: empty source image")
	}
	if opts.Mask != nil && len(opts.Mask) != w*h {
		return nil, fmt.Errorf("quantize: mask length %d does not match %dx%d image", len(opts.Mask), w, h)
	}
	if opts.MinDetailMM > 0 && opts.PixelsPerMM <= 0 {
		return nil, fmt.Errorf("quantize: min detail %vmm requires a positive pixelsPerMM", opts.MinDetailMM)
	}

	// Working float buffer: dithering injects fractional error.
	buf := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := (y*w + x) * 3
			buf[o] = float64(r >> 8)
			buf[o+1] = float64(g >> 8)
			buf[o+2] = float64(bl >> 8)
		}
	}

	out := &Image{
		Width:        w,
		Height:       h,
		Pixels:       make([]colorx.RGB, w*h),
		PaletteIndex: make([]int, w*h),
		Keep:         make([]bool, w*h),
	}

	// Pre-dither palette classes drive the min-detail filter.
	classes := make([]int, w*h)
	for i := 0; i < w*h; i++ {
		o := i * 3
		c := colorx.RGB{
			R: colorx.RoundHalfUp(buf[o]),
			G: colorx.RoundHalfUp(buf[o+1]),
			B: colorx.RoundHalfUp(buf[o+2]),
		}
		classes[i] = colorx.Nearest(c, palette)
		out.Keep[i] = opts.Mask == nil || opts.Mask[i]
	}
	if opts.MinDetailMM > 0 {
		applyMinDetail(out.Keep, classes, w, h, opts)
	}
	for _, k := range out.Keep {
		if !k {
			out.Filtered++
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			o := i * 3
			c := colorx.RGB{
				R: colorx.RoundHalfUp(buf[o]),
				G: colorx.RoundHalfUp(buf[o+1]),
				B: colorx.RoundHalfUp(buf[o+2]),
			}
			idx := colorx.Nearest(c, palette)
			out.PaletteIndex[i] = idx
			out.Pixels[i] = palette[idx]

			if !opts.Dither || !out.Keep[i] {
				continue
			}
			chosen := palette[idx]
			errR := buf[o] - float64(chosen.R)
			errG := buf[o+1] - float64(chosen.G)
			errB := buf[o+2] - float64(chosen.B)
			diffuse(buf, out.Keep, w, h, x+1, y, errR, errG, errB, 7.0/16)
			diffuse(buf, out.Keep, w, h, x-1, y+1, errR, errG, errB, 3.0/16)
			diffuse(buf, out.Keep, w, h, x, y+1, errR, errG, errB, 5.0/16)
			diffuse(buf, out.Keep, w, h, x+1, y+1, errR, errG, errB, 1.0/16)
		}
	}
	return out, nil
}

// diffuse injects a weighted share of quantization error into one
// neighbor, clamping each channel to [0,255]. Filtered pixels never
// receive error: their color must stay faithful to the original.
func diffuse(buf []float64, keep []bool, w, h, x, y int, errR, errG, errB, weight float64) {
	if x < 0 || x >= w || y < 0 || y >= h {
		return
	}
	i := y*w + x
	if !keep[i] {
		return
	}
	o := i * 3
	buf[o] = clampChannel(buf[o] + errR*weight)
	buf[o+1] = clampChannel(buf[o+1] + errG*weight)
	buf[o+2] = clampChannel(buf[o+2] + errB*weight)
}

func clampChannel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// applyMinDetail clears the keep flag of pixels whose square
// neighborhood does not reach the required share of same-class pixels.
// Both the share threshold and the radius formula are inherited
// heuristics kept configurable (see Options).
func applyMinDetail(keep []bool, classes []int, w, h int, opts Options) {
	radius := int(math.Round(opts.MinDetailMM * opts.PixelsPerMM))
	if radius < 1 {
		return
	}
	share := opts.NeighborShare
	if share <= 0 {
		share = DefaultNeighborShare
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !keep[i] {
				continue
			}
			center := classes[i]
			total, same := 0, 0
			for ny := y - radius; ny <= y+radius; ny++ {
				if ny < 0 || ny >= h {
					continue
				}
				for nx := x - radius; nx <= x+radius; nx++ {
					if nx < 0 || nx >= w {
						continue
					}
					total++
					if classes[ny*w+nx] == center {
						same++
					}
				}
			}
			if float64(same) < share*float64(total) {
				keep[i] = false
			}
		}
	}
}
