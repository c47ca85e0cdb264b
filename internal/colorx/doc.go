// Package colorx provides the color arithmetic shared by the whole
// calibration pipeline: 8-bit RGB triples, hex parsing and formatting,
// the packed 24-bit map key, the canonical round-half-up conversion,
// and nearest-palette matching.
//
// Every place a color becomes a lookup key uses the same convention:
// each channel is rounded half-up to an integer, then the three channels
// are packed into one uint32. Keeping the conversion in one package is
// what makes scan lookups, index builds and layer expansion agree.
package colorx
