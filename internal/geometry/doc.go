// Package geometry turns quantized pixels into printable shapes: it
// decomposes pixels into per-(layer, filament) buckets through the
// color index, covers each bucket with a deterministic greedy set of
// rectangles, and renders per-layer preview rasters.
package geometry
