package scan

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/printlab/filagrid/internal/colorx"
	"github.com/printlab/filagrid/internal/sequence"
)

// WriteReport emits the expected-versus-measured CSV for a sampled
// grid: one row per tile with its position, sequence, the simulated
// color, the measured color, and two distance columns — plain RGB
// Euclidean distance and CIE-Lab delta-E, which tracks perceived
// difference much better on mid tones.
//
// measured must be in grid order, as produced by Sample; a shorter
// measured list reports only the covered tiles.
func WriteReport(w io.Writer, seqs []sequence.Sequence, swatches []sequence.Swatch, cols int, measured []colorx.RGB) error {
	if cols < 1 {
		return fmt.Errorf("scan report: column count %d out of range", cols)
	}
	cw := csv.NewWriter(w)
	header := []string{"cell", "row", "col", "sequence", "expected", "measured", "dist_rgb", "delta_e"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("scan report: %w", err)
	}

	n := len(seqs)
	if len(measured) < n {
		n = len(measured)
	}
	for i := 0; i < n; i++ {
		expected, err := sequence.Simulate(seqs[i], swatches)
		if err != nil {
			return fmt.Errorf("scan report: cell %d: %w", i, err)
		}
		m := measured[i]
		rec := []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", i/cols),
			fmt.Sprintf("%d", i%cols),
			formatSequence(seqs[i]),
			expected.Hex(),
			m.Hex(),
			fmt.Sprintf("%.2f", math.Sqrt(float64(colorx.DistanceSq(expected, m)))),
			fmt.Sprintf("%.2f", deltaE(expected, m)),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("scan report: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("scan report: %w", err)
	}
	return nil
}

func deltaE(a, b colorx.RGB) float64 {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	return ca.DistanceLab(cb)
}

// formatSequence renders a sequence as "1-2-0" for spreadsheet use.
func formatSequence(s sequence.Sequence) string {
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = fmt.Sprintf("%d", f)
	}
	return strings.Join(parts, "-")
}
