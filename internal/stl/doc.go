// Package stl emits printable geometry as ASCII STL. Each rectangle
// becomes one closed axis-aligned box of 12 triangular facets; all
// boxes of one filament concatenate into a single solid. Shared faces
// between stacked boxes are not deduplicated — the union is non-minimal
// but prints correctly.
package stl
