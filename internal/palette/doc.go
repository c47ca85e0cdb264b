// Package palette manages the ordered color lists the quantizer works
// against: scan-measured palettes, GPL (GIMP palette) files, and
// palettes extracted from an arbitrary image.
package palette
