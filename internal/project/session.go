package project

import (
	"sync"
	"sync/atomic"

	"github.com/printlab/filagrid/internal/geometry"
	"github.com/printlab/filagrid/internal/grid"
	"github.com/printlab/filagrid/internal/palette"
	"github.com/printlab/filagrid/internal/quantize"
	"github.com/printlab/filagrid/internal/raster"
	"github.com/printlab/filagrid/internal/scan"
	"github.com/printlab/filagrid/internal/sequence"
)

// GridState is the grid half of a session: layout, sequences in grid
// order, the swatches they reference, and the print settings that
// travel with them. It is replaced as a unit whenever a grid is
// generated or imported.
type GridState struct {
	Layout   *grid.Layout
	Seqs     []sequence.Sequence
	Swatches []sequence.Swatch
	Settings grid.Settings
}

// Session owns all state shared between tool calls.
//
// The color index lives behind an atomic pointer: Build produces an
// immutable Index and SetGrid swaps the pointer, so a concurrent
// reader sees either the old index or the complete new one, never a
// partial rebuild. Everything else sits behind a mutex and is
// replaced wholesale.
type Session struct {
	Cache *raster.Cache
	Tasks *Runner

	index atomic.Pointer[sequence.Index]

	mu          sync.RWMutex
	grid        *GridState
	palette     *palette.Palette
	align       *scan.Alignment
	lastScan    *scan.Result
	quantized   *quantize.Image
	pixelsPerMM float64
	expansion   *geometry.Expansion
}

// NewSession creates an empty session with a fresh image cache and
// task runner.
func NewSession() *Session {
	return &Session{
		Cache: raster.NewCache(),
		Tasks: NewRunner(),
	}
}

// Index returns the current color index, or nil before any grid is
// defined.
func (s *Session) Index() *sequence.Index {
	return s.index.Load()
}

// SetGrid installs a new grid and its index. Downstream artifacts
// (scan measurement, quantized artwork, expansion) are invalidated:
// they were derived from the previous grid.
func (s *Session) SetGrid(g *GridState, idx *sequence.Index) {
	s.mu.Lock()
	s.grid = g
	s.lastScan = nil
	s.quantized = nil
	s.expansion = nil
	s.mu.Unlock()
	s.index.Store(idx)
}

// SetIndex swaps the color index alone, keeping the grid and the scan
// measurement: this is the calibration refinement path, where the
// index is rebuilt from measured tile colors. Artifacts derived from
// the old index (quantized artwork, expansion) are invalidated.
func (s *Session) SetIndex(idx *sequence.Index) {
	s.mu.Lock()
	s.quantized = nil
	s.expansion = nil
	s.mu.Unlock()
	s.index.Store(idx)
}

// Grid returns the current grid state, or nil before any grid is
// defined. Callers must not mutate the returned value.
func (s *Session) Grid() *GridState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

// SetPalette replaces the working palette.
func (s *Session) SetPalette(p *palette.Palette) {
	s.mu.Lock()
	s.palette = p
	s.mu.Unlock()
}

// Palette returns the working palette, or nil when none is loaded.
func (s *Session) Palette() *palette.Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.palette
}

// SetAlignment stores the grid-to-scan transform used by Sample.
func (s *Session) SetAlignment(a scan.Alignment) {
	s.mu.Lock()
	s.align = &a
	s.mu.Unlock()
}

// Alignment returns the stored transform and whether one is set.
func (s *Session) Alignment() (scan.Alignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.align == nil {
		return scan.Alignment{}, false
	}
	return *s.align, true
}

// SetScan stores the most recent sampling result for the CSV report.
func (s *Session) SetScan(r *scan.Result) {
	s.mu.Lock()
	s.lastScan = r
	s.mu.Unlock()
}

// Scan returns the most recent sampling result, or nil.
func (s *Session) Scan() *scan.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastScan
}

// SetQuantized stores the quantized artwork and the pixel density it
// was produced at. The previous expansion is invalidated.
func (s *Session) SetQuantized(q *quantize.Image, pixelsPerMM float64) {
	s.mu.Lock()
	s.quantized = q
	s.pixelsPerMM = pixelsPerMM
	s.expansion = nil
	s.mu.Unlock()
}

// Quantized returns the quantized artwork and its pixel density, or
// nil when no quantization has run.
func (s *Session) Quantized() (*quantize.Image, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quantized, s.pixelsPerMM
}

// SetExpansion stores the layer decomposition.
func (s *Session) SetExpansion(e *geometry.Expansion) {
	s.mu.Lock()
	s.expansion = e
	s.mu.Unlock()
}

// Expansion returns the layer decomposition, or nil.
func (s *Session) Expansion() *geometry.Expansion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expansion
}
