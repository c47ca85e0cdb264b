package geometry

// Rect is an axis-aligned rectangle in pixel units.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Vectorize covers a pixel mask with disjoint rectangles using the
// greedy maximal-rectangle scan.
//
// The scan is row-major. At each unprocessed on pixel the run grows
// rightward while pixels stay on and unprocessed, then downward while
// the entire full-width row slice stays on and unprocessed; the
// covered pixels are marked processed and the rectangle emitted. The
// cover is exact and disjoint but not minimal, and the scan order is
// contractual: the same mask always yields the same rectangles.
func Vectorize(mask []bool, w, h int) []Rect {
	processed := make([]bool, len(mask))
	var rects []Rect

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !mask[i] || processed[i] {
				continue
			}

			width := 1
			for x+width < w {
				j := y*w + x + width
				if !mask[j] || processed[j] {
					break
				}
				width++
			}

			height := 1
		grow:
			for y+height < h {
				row := (y + height) * w
				for dx := 0; dx < width; dx++ {
					j := row + x + dx
					if !mask[j] || processed[j] {
						break grow
					}
				}
				height++
			}

			for dy := 0; dy < height; dy++ {
				row := (y + dy) * w
				for dx := 0; dx < width; dx++ {
					processed[row+x+dx] = true
				}
			}
			rects = append(rects, Rect{X: x, Y: y, W: width, H: height})
		}
	}
	return rects
}
