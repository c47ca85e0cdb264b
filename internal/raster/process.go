package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// ResizeToPrintWidth resamples artwork so that one pixel covers
// 1/pixelsPerMM millimeters at the requested print width. Height
// follows the aspect ratio. Lanczos resampling keeps hard color edges
// usable for quantization.
func ResizeToPrintWidth(img image.Image, printWidthMM, pixelsPerMM float64) (*image.NRGBA, error) {
	if printWidthMM <= 0 || pixelsPerMM <= 0 {
		return nil, fmt.Errorf("resize: print width %vmm at %v px/mm out of range", printWidthMM, pixelsPerMM)
	}
	targetW := int(math.Round(printWidthMM * pixelsPerMM))
	if targetW < 1 {
		return nil, fmt.Errorf("resize: print width %vmm at %v px/mm resolves below one pixel", printWidthMM, pixelsPerMM)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("resize: empty source image")
	}
	targetH := int(math.Round(float64(targetW) * float64(b.Dy()) / float64(b.Dx())))
	if targetH < 1 {
		targetH = 1
	}
	return imaging.Resize(img, targetW, targetH, imaging.Lanczos), nil
}

// Smooth applies a Gaussian blur with the given sigma, in pixels.
// Scan photographs carry sensor noise and print texture that bias
// small sampling windows; a light blur before sampling averages it
// out. Sigma 0 returns the input unchanged.
func Smooth(img image.Image, sigma float64) (image.Image, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("smooth: sigma %v out of range", sigma)
	}
	if sigma == 0 {
		return img, nil
	}
	return blur.Gaussian(img, sigma), nil
}
