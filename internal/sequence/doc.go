// Package sequence enumerates printable layer sequences, simulates the
// color each sequence produces, and builds the color-to-sequence index
// used by the scan and artwork pipelines.
//
// A sequence assigns a filament (or no material) to each printed layer
// of one calibration tile, bottom to top. The enumeration order is part
// of the package contract: it determines where each sequence lands in
// the calibration grid, and every index, sampler and exporter relies on
// it being reproducible.
package sequence
