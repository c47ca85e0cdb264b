// Package quantize snaps artwork to a printable palette: nearest-color
// mapping with a stable tie-break, optional Floyd-Steinberg error
// diffusion, and a min-detail filter that drops color regions too
// small to survive the nozzle.
package quantize
