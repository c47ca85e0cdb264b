package stl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/printlab/filagrid/internal/geometry"
)

// Precision is the significant-digit count used for every coordinate
// and normal component. Fixed so that identical geometry always
// produces byte-identical files.
const Precision = 6

// LayerRects is the rectangle cover of one compacted layer together
// with its vertical extent in millimeters.
type LayerRects struct {
	Rects []geometry.Rect
	Z0    float64 // bottom of the layer, mm
	Z1    float64 // top of the layer, mm
}

// ZRange computes a layer's vertical extent from its compacted index,
// the layer height, and the optional base-stack offset, all in mm.
func ZRange(layer int, layerHeight, baseHeight float64) (z0, z1 float64) {
	z0 = baseHeight + float64(layer)*layerHeight
	return z0, z0 + layerHeight
}

// Emit writes one filament's solid: every rectangle of every layer as
// a closed box, concatenated between "solid name" and "endsolid name".
// mmPerPixel scales rectangle pixel units into millimeters.
func Emit(w io.Writer, name string, layers []LayerRects, mmPerPixel float64) error {
	if mmPerPixel <= 0 {
		return fmt.Errorf("stl emit: mmPerPixel %v out of range", mmPerPixel)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, layer := range layers {
		for _, r := range layer.Rects {
			writeBox(bw,
				float64(r.X)*mmPerPixel, float64(r.Y)*mmPerPixel, layer.Z0,
				float64(r.X+r.W)*mmPerPixel, float64(r.Y+r.H)*mmPerPixel, layer.Z1,
			)
		}
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl emit: %w", err)
	}
	return nil
}

type vec struct{ x, y, z float64 }

// writeBox emits the 12 facets of the closed box [x0,x1]x[y0,y1]x[z0,z1]
// with outward normals and consistent counter-clockwise winding seen
// from outside.
func writeBox(w *bufio.Writer, x0, y0, z0, x1, y1, z1 float64) {
	v000 := vec{x0, y0, z0}
	v100 := vec{x1, y0, z0}
	v010 := vec{x0, y1, z0}
	v110 := vec{x1, y1, z0}
	v001 := vec{x0, y0, z1}
	v101 := vec{x1, y0, z1}
	v011 := vec{x0, y1, z1}
	v111 := vec{x1, y1, z1}

	// Bottom, -Z.
	writeFacet(w, vec{0, 0, -1}, v000, v010, v110)
	writeFacet(w, vec{0, 0, -1}, v110, v100, v000)
	// Top, +Z.
	writeFacet(w, vec{0, 0, 1}, v001, v101, v111)
	writeFacet(w, vec{0, 0, 1}, v111, v011, v001)
	// Front, -Y.
	writeFacet(w, vec{0, -1, 0}, v000, v100, v101)
	writeFacet(w, vec{0, -1, 0}, v101, v001, v000)
	// Back, +Y.
	writeFacet(w, vec{0, 1, 0}, v110, v010, v011)
	writeFacet(w, vec{0, 1, 0}, v011, v111, v110)
	// Left, -X.
	writeFacet(w, vec{-1, 0, 0}, v010, v000, v001)
	writeFacet(w, vec{-1, 0, 0}, v001, v011, v010)
	// Right, +X.
	writeFacet(w, vec{1, 0, 0}, v100, v110, v111)
	writeFacet(w, vec{1, 0, 0}, v111, v101, v100)
}

func writeFacet(w *bufio.Writer, n, a, b, c vec) {
	fmt.Fprintf(w, "facet normal %s %s %s\n", num(n.x), num(n.y), num(n.z))
	fmt.Fprintln(w, "outer loop")
	for _, v := range []vec{a, b, c} {
		fmt.Fprintf(w, "vertex %s %s %s\n", num(v.x), num(v.y), num(v.z))
	}
	fmt.Fprintln(w, "endloop")
	fmt.Fprintln(w, "endfacet")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', Precision, 64)
}
