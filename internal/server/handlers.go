package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/printlab/filagrid/internal/colorx"
	"github.com/printlab/filagrid/internal/geometry"
	"github.com/printlab/filagrid/internal/grid"
	"github.com/printlab/filagrid/internal/palette"
	"github.com/printlab/filagrid/internal/project"
	"github.com/printlab/filagrid/internal/quantize"
	"github.com/printlab/filagrid/internal/raster"
	"github.com/printlab/filagrid/internal/scan"
	"github.com/printlab/filagrid/internal/sequence"
	"github.com/printlab/filagrid/internal/stl"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "grid_generate", "stl_export").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Grid
	case "grid_generate":
		return s.handleGridGenerate(args)
	case "grid_export_json":
		return s.handleGridExportJSON(args)
	case "grid_import_json":
		return s.handleGridImportJSON(args)

	// Scan
	case "scan_fit_alignment":
		return s.handleScanFitAlignment(args)
	case "scan_sample":
		return s.handleScanSample(args)
	case "scan_refine_index":
		return s.handleScanRefineIndex(args)
	case "scan_report_csv":
		return s.handleScanReportCSV(args)

	// Palette
	case "palette_import_gpl":
		return s.handlePaletteImportGPL(args)
	case "palette_export_gpl":
		return s.handlePaletteExportGPL(args)
	case "palette_extract":
		return s.handlePaletteExtract(args)
	case "palette_dedupe":
		return s.handlePaletteDedupe(args)

	// Artwork
	case "artwork_quantize":
		return s.handleArtworkQuantize(args)
	case "artwork_expand":
		return s.handleArtworkExpand(args)
	case "stl_export":
		return s.handleSTLExport(args)
	case "layer_preview":
		return s.handleLayerPreview(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// requireGrid returns the current grid state or a uniform error telling
// the caller which tools establish one.
func (s *Server) requireGrid() (*project.GridState, *sequence.Index, error) {
	g := s.session.Grid()
	idx := s.session.Index()
	if g == nil || idx == nil {
		return nil, nil, fmt.Errorf("no grid defined: run grid_generate or grid_import_json first")
	}
	return g, idx, nil
}

// === Grid Handlers ===

type gridGenerateArgs struct {
	Colours     []string `json:"colours"`
	Layers      int      `json:"layers"`
	TileMM      float64  `json:"tile"`
	GapMM       float64  `json:"gap"`
	MaxWidthMM  float64  `json:"max_width"`
	MaxHeightMM float64  `json:"max_height"`
	LayerHeight float64  `json:"layer_height"`
	BaseLayers  int      `json:"base_layers"`
	PreviewPath string   `json:"preview_path"`
	PixelsPerMM float64  `json:"pixels_per_mm"`
}

type gridSummary struct {
	Filaments   int     `json:"filaments"`
	Layers      int     `json:"layers"`
	Sequences   int     `json:"sequences"`
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	WidthMM     float64 `json:"widthMM"`
	HeightMM    float64 `json:"heightMM"`
	UnusedCells int     `json:"unusedCells"`
	IndexSize   int     `json:"indexSize"`
	Collisions  int     `json:"collisions"`
	Preview     string  `json:"preview,omitempty"`
}

func (s *Server) handleGridGenerate(args json.RawMessage) (interface{}, error) {
	var a gridGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Layers == 0 {
		a.Layers = 3
	}
	if a.TileMM == 0 {
		a.TileMM = 10
	}
	if a.GapMM == 0 {
		a.GapMM = 2
	}
	if a.MaxWidthMM == 0 {
		a.MaxWidthMM = 200
	}
	if a.MaxHeightMM == 0 {
		a.MaxHeightMM = 200
	}
	if a.LayerHeight == 0 {
		a.LayerHeight = 0.2
	}
	if a.BaseLayers == 0 {
		a.BaseLayers = 3
	}
	if a.PixelsPerMM == 0 {
		a.PixelsPerMM = 4
	}
	if len(a.Colours) < 2 {
		return nil, fmt.Errorf("grid needs at least two filament colours, got %d", len(a.Colours))
	}

	swatches, err := resolveSwatches(a.Colours)
	if err != nil {
		return nil, err
	}

	seqs, err := sequence.Generate(len(swatches), a.Layers)
	if err != nil {
		return nil, err
	}
	layout, err := grid.Plan(len(seqs), a.TileMM, a.GapMM, a.MaxWidthMM, a.MaxHeightMM)
	if err != nil {
		return nil, err
	}
	idx, err := sequence.Build(seqs, swatches, layout.Cols)
	if err != nil {
		return nil, err
	}

	s.session.SetGrid(&project.GridState{
		Layout:   layout,
		Seqs:     seqs,
		Swatches: swatches,
		Settings: grid.Settings{
			Rows:        layout.Rows,
			Cols:        layout.Cols,
			TileMM:      layout.TileMM,
			GapMM:       layout.GapMM,
			Layers:      a.Layers,
			LayerHeight: a.LayerHeight,
			BaseLayers:  a.BaseLayers,
		},
	}, idx)

	res := gridSummary{
		Filaments:   len(swatches),
		Layers:      a.Layers,
		Sequences:   len(seqs),
		Rows:        layout.Rows,
		Cols:        layout.Cols,
		WidthMM:     layout.WidthMM,
		HeightMM:    layout.HeightMM,
		UnusedCells: len(layout.UnusedCells),
		IndexSize:   idx.Len(),
		Collisions:  idx.Collisions,
	}

	if a.PreviewPath != "" {
		tileColors := make([]colorx.RGB, len(seqs))
		for i, seq := range seqs {
			tileColors[i], err = sequence.Simulate(seq, swatches)
			if err != nil {
				return nil, err
			}
		}
		img, err := grid.Render(layout, tileColors, a.PixelsPerMM)
		if err != nil {
			return nil, err
		}
		if err := imaging.Save(img, a.PreviewPath); err != nil {
			return nil, fmt.Errorf("grid preview: %w", err)
		}
		res.Preview = a.PreviewPath
	}
	return res, nil
}

// resolveSwatches maps each colour argument to a swatch: catalog names
// first, hex codes otherwise.
func resolveSwatches(colours []string) ([]sequence.Swatch, error) {
	swatches := make([]sequence.Swatch, len(colours))
	for i, name := range colours {
		if sw, ok := project.FindSwatch(name); ok {
			swatches[i] = sw
			continue
		}
		c, err := colorx.ParseHex(name)
		if err != nil {
			return nil, fmt.Errorf("colour %q is neither a catalog name nor a hex code", name)
		}
		swatches[i] = sequence.Swatch{Hex: c.Hex(), Name: name}
	}
	return swatches, nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleGridExportJSON(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, _, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	data, err := grid.ExportJSON(g.Layout, g.Seqs, g.Swatches,
		g.Settings.Layers, g.Settings.LayerHeight, g.Settings.BaseLayers)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(a.Path, data, 0o644); err != nil {
		return nil, fmt.Errorf("grid export: %w", err)
	}
	return map[string]interface{}{
		"path":      a.Path,
		"bytes":     len(data),
		"sequences": len(g.Seqs),
	}, nil
}

func (s *Server) handleGridImportJSON(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, fmt.Errorf("grid import: %w", err)
	}
	layout, seqs, idx, cfg, err := grid.ImportJSON(data)
	if err != nil {
		return nil, err
	}

	s.session.SetGrid(&project.GridState{
		Layout:   layout,
		Seqs:     seqs,
		Swatches: cfg.Colours,
		Settings: cfg.Settings,
	}, idx)

	return gridSummary{
		Filaments:   len(cfg.Colours),
		Layers:      cfg.Settings.Layers,
		Sequences:   len(seqs),
		Rows:        layout.Rows,
		Cols:        layout.Cols,
		WidthMM:     layout.WidthMM,
		HeightMM:    layout.HeightMM,
		UnusedCells: len(layout.UnusedCells),
		IndexSize:   idx.Len(),
		Collisions:  idx.Collisions,
	}, nil
}

// === Scan Handlers ===

type scanFitAlignmentArgs struct {
	Pairs []struct {
		TileX float64 `json:"tile_x"`
		TileY float64 `json:"tile_y"`
		ScanX float64 `json:"scan_x"`
		ScanY float64 `json:"scan_y"`
	} `json:"pairs"`
}

func (s *Server) handleScanFitAlignment(args json.RawMessage) (interface{}, error) {
	var a scanFitAlignmentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	pairs := make([]scan.PointPair, len(a.Pairs))
	for i, p := range a.Pairs {
		pairs[i] = scan.PointPair{TileX: p.TileX, TileY: p.TileY, ScanX: p.ScanX, ScanY: p.ScanY}
	}
	align, err := scan.FitAlignment(pairs)
	if err != nil {
		return nil, err
	}
	s.session.SetAlignment(align)
	return align, nil
}

type scanSampleArgs struct {
	Path      string  `json:"path"`
	DeadSpace float64 `json:"dead_space"`
	BlurSigma float64 `json:"blur_sigma"`
}

func (s *Server) handleScanSample(args json.RawMessage) (interface{}, error) {
	var a scanSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.DeadSpace == 0 {
		a.DeadSpace = 0.3
	}
	g, _, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	align, ok := s.session.Alignment()
	if !ok {
		return nil, fmt.Errorf("no alignment set: run scan_fit_alignment first")
	}

	img, err := s.session.Cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	img, err = raster.Smooth(img, a.BlurSigma)
	if err != nil {
		return nil, err
	}

	res, err := scan.Sample(img, g.Layout, align, a.DeadSpace)
	if err != nil {
		return nil, err
	}
	s.session.SetScan(res)

	hexes := make([]string, len(res.Colors))
	for i, c := range res.Colors {
		hexes[i] = c.Hex()
	}
	return map[string]interface{}{
		"tiles":       len(res.Colors),
		"colors":      hexes,
		"outOfBounds": res.OutOfBounds,
	}, nil
}

// handleScanRefineIndex rebuilds the color index from the latest scan
// measurement: lookups then match what the printer and scanner really
// produce instead of the simulated mix. The grid and the measurement
// stay; artwork quantized against the old index is invalidated.
func (s *Server) handleScanRefineIndex(args json.RawMessage) (interface{}, error) {
	g, _, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	measured := s.session.Scan()
	if measured == nil {
		return nil, fmt.Errorf("no scan sampled: run scan_sample first")
	}

	idx, err := sequence.BuildMeasured(g.Seqs, g.Swatches, g.Layout.Cols, measured.Colors)
	if err != nil {
		return nil, err
	}
	s.session.SetIndex(idx)

	return map[string]interface{}{
		"indexSize":   idx.Len(),
		"collisions":  idx.Collisions,
		"outOfBounds": measured.OutOfBounds,
	}, nil
}

func (s *Server) handleScanReportCSV(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, _, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	measured := s.session.Scan()
	if measured == nil {
		return nil, fmt.Errorf("no scan sampled: run scan_sample first")
	}

	f, err := os.Create(a.Path)
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}
	defer f.Close()
	if err := scan.WriteReport(f, g.Seqs, g.Swatches, g.Layout.Cols, measured.Colors); err != nil {
		return nil, err
	}
	rows := len(g.Seqs)
	if len(measured.Colors) < rows {
		rows = len(measured.Colors)
	}
	return map[string]interface{}{
		"path": a.Path,
		"rows": rows,
	}, nil
}

// === Palette Handlers ===

// paletteSummary lists the working palette for the UI.
type paletteSummary struct {
	Name    string         `json:"name"`
	Entries []paletteEntry `json:"entries"`
}

type paletteEntry struct {
	Hex  string `json:"hex"`
	Name string `json:"name,omitempty"`
}

func summarizePalette(p *palette.Palette) paletteSummary {
	out := paletteSummary{Name: p.Name, Entries: make([]paletteEntry, len(p.Entries))}
	for i, e := range p.Entries {
		out.Entries[i] = paletteEntry{Hex: e.Color.Hex(), Name: e.Name}
	}
	return out
}

func (s *Server) handlePaletteImportGPL(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("palette import: %w", err)
	}
	defer f.Close()
	p, err := palette.ReadGPL(f)
	if err != nil {
		return nil, err
	}
	s.session.SetPalette(p)
	return summarizePalette(p), nil
}

func (s *Server) handlePaletteExportGPL(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p := s.session.Palette()
	if p == nil {
		return nil, fmt.Errorf("no palette loaded: run palette_import_gpl or palette_extract first")
	}
	f, err := os.Create(a.Path)
	if err != nil {
		return nil, fmt.Errorf("palette export: %w", err)
	}
	defer f.Close()
	if err := palette.WriteGPL(f, p); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"path":    a.Path,
		"entries": len(p.Entries),
	}, nil
}

type paletteExtractArgs struct {
	Path      string `json:"path"`
	Count     int    `json:"count"`
	Algorithm string `json:"algorithm"`
}

func (s *Server) handlePaletteExtract(args json.RawMessage) (interface{}, error) {
	var a paletteExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	if a.Algorithm == "" {
		a.Algorithm = string(palette.AlgorithmKMeans)
	}
	img, err := s.session.Cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	p, err := palette.ExtractFromImage(img, a.Count, palette.Algorithm(a.Algorithm))
	if err != nil {
		return nil, err
	}
	s.session.SetPalette(p)
	return summarizePalette(p), nil
}

func (s *Server) handlePaletteDedupe(args json.RawMessage) (interface{}, error) {
	p := s.session.Palette()
	if p == nil {
		return nil, fmt.Errorf("no palette loaded: run palette_import_gpl or palette_extract first")
	}
	// Dedupe a copy and swap it in; the palette returned by the session
	// may be read by a concurrent tool call.
	next := &palette.Palette{
		Name:    p.Name,
		Entries: append([]palette.Entry(nil), p.Entries...),
	}
	removed := next.Dedupe()
	s.session.SetPalette(next)
	return map[string]interface{}{
		"removed":   removed,
		"remaining": len(next.Entries),
	}, nil
}

// === Artwork Handlers ===

type artworkQuantizeArgs struct {
	Path          string  `json:"path"`
	PrintWidthMM  float64 `json:"print_width"`
	PixelsPerMM   float64 `json:"pixels_per_mm"`
	Dither        bool    `json:"dither"`
	MinDetailMM   float64 `json:"min_detail"`
	NeighborShare float64 `json:"neighbor_share"`
	Palette       string  `json:"palette"`
}

func (s *Server) handleArtworkQuantize(args json.RawMessage) (interface{}, error) {
	var a artworkQuantizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.PixelsPerMM == 0 {
		a.PixelsPerMM = 4
	}
	if a.Palette == "" {
		a.Palette = "index"
	}
	_, idx, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	colors, err := s.quantizePalette(a.Palette, idx)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	err = s.session.Tasks.Do("artwork_quantize", func(ctx context.Context) error {
		src, err := s.session.Cache.Load(a.Path)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		resized, err := raster.ResizeToPrintWidth(src, a.PrintWidthMM, a.PixelsPerMM)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		q, err := quantize.Quantize(resized, colors, quantize.Options{
			Dither:        a.Dither,
			MinDetailMM:   a.MinDetailMM,
			PixelsPerMM:   a.PixelsPerMM,
			NeighborShare: a.NeighborShare,
		})
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.session.SetQuantized(q, a.PixelsPerMM)
		result = map[string]interface{}{
			"width":       q.Width,
			"height":      q.Height,
			"filtered":    q.Filtered,
			"paletteSize": len(colors),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// quantizePalette selects the quantization palette. "index" uses every
// achievable color in grid order. "session" restricts the print to the
// working palette: each entry is snapped to its nearest achievable
// index color (so layer expansion still hits), duplicates dropped,
// order preserved.
func (s *Server) quantizePalette(source string, idx *sequence.Index) ([]colorx.RGB, error) {
	switch source {
	case "index":
		return idx.Colors(), nil
	case "session":
		p := s.session.Palette()
		if p == nil {
			return nil, fmt.Errorf("no palette loaded: run palette_import_gpl or palette_extract first")
		}
		seen := make(map[colorx.Key]bool, len(p.Entries))
		colors := make([]colorx.RGB, 0, len(p.Entries))
		for _, e := range p.Entries {
			entry, ok := idx.NearestEntry(e.Color)
			if !ok {
				return nil, fmt.Errorf("color index is empty")
			}
			if k := entry.Color.Key(); !seen[k] {
				seen[k] = true
				colors = append(colors, entry.Color)
			}
		}
		return colors, nil
	default:
		return nil, fmt.Errorf("unknown palette source %q (valid: \"index\", \"session\")", source)
	}
}

func (s *Server) handleArtworkExpand(args json.RawMessage) (interface{}, error) {
	g, idx, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	q, _ := s.session.Quantized()
	if q == nil {
		return nil, fmt.Errorf("no quantized artwork: run artwork_quantize first")
	}

	exp, err := geometry.Expand(q, idx, len(g.Swatches))
	if err != nil {
		return nil, err
	}
	s.session.SetExpansion(exp)

	pixels := make([]int, exp.Filaments)
	for f := 0; f < exp.Filaments; f++ {
		for _, b := range exp.FilamentBuckets(f) {
			pixels[f] += b.Count
		}
	}
	return map[string]interface{}{
		"layers":         exp.Layers,
		"filaments":      exp.Filaments,
		"misses":         exp.Misses,
		"filamentPixels": pixels,
	}, nil
}

type stlExportArgs struct {
	Dir    string `json:"dir"`
	Prefix string `json:"prefix"`
}

type stlFileResult struct {
	Path       string `json:"path"`
	Filament   int    `json:"filament"`
	Name       string `json:"name"`
	Rectangles int    `json:"rectangles"`
}

func (s *Server) handleSTLExport(args json.RawMessage) (interface{}, error) {
	var a stlExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Prefix == "" {
		a.Prefix = "filagrid"
	}
	g, _, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	exp := s.session.Expansion()
	if exp == nil {
		return nil, fmt.Errorf("no expansion: run artwork_expand first")
	}
	_, pixelsPerMM := s.session.Quantized()
	if pixelsPerMM <= 0 {
		return nil, fmt.Errorf("no quantized artwork: run artwork_quantize first")
	}
	mmPerPixel := 1 / pixelsPerMM
	baseHeight := float64(g.Settings.BaseLayers) * g.Settings.LayerHeight

	var files []stlFileResult
	err = s.session.Tasks.Do("stl_export", func(ctx context.Context) error {
		// Vectorize every non-empty bucket concurrently; results land
		// in a slice indexed by (layer, filament) so assembly order is
		// deterministic regardless of scheduling.
		rects := make([][]geometry.Rect, exp.Layers*exp.Filaments)
		var wg sync.WaitGroup
		for l := 0; l < exp.Layers; l++ {
			for f := 0; f < exp.Filaments; f++ {
				b := exp.Buckets[l][f]
				if b.Count == 0 {
					continue
				}
				wg.Add(1)
				go func(slot int, b *geometry.Bucket) {
					defer wg.Done()
					rects[slot] = geometry.Vectorize(b.Mask, exp.Width, exp.Height)
				}(l*exp.Filaments+f, b)
			}
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return err
		}

		// One solid per filament, emitted concurrently.
		results := make([]*stlFileResult, exp.Filaments)
		errs := make([]error, exp.Filaments)
		var emitWG sync.WaitGroup
		for f := 0; f < exp.Filaments; f++ {
			var layers []stl.LayerRects
			total := 0
			for l := 0; l < exp.Layers; l++ {
				r := rects[l*exp.Filaments+f]
				if len(r) == 0 {
					continue
				}
				z0, z1 := stl.ZRange(l, g.Settings.LayerHeight, baseHeight)
				layers = append(layers, stl.LayerRects{Rects: r, Z0: z0, Z1: z1})
				total += len(r)
			}
			if len(layers) == 0 {
				continue
			}
			name := solidName(g.Swatches, f)
			path := filepath.Join(a.Dir, fmt.Sprintf("%s-%d-%s.stl", a.Prefix, f+1, name))
			emitWG.Add(1)
			go func(f int, name, path string, layers []stl.LayerRects, total int) {
				defer emitWG.Done()
				out, err := os.Create(path)
				if err != nil {
					errs[f] = fmt.Errorf("stl export: %w", err)
					return
				}
				defer out.Close()
				if err := stl.Emit(out, name, layers, mmPerPixel); err != nil {
					errs[f] = err
					return
				}
				results[f] = &stlFileResult{Path: path, Filament: f + 1, Name: name, Rectangles: total}
			}(f, name, path, layers, total)
		}
		emitWG.Wait()
		for _, e := range errs {
			if e != nil {
				return e
			}
		}
		for _, r := range results {
			if r != nil {
				files = append(files, *r)
			}
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"files":      files,
		"layers":     exp.Layers,
		"mmPerPixel": mmPerPixel,
	}, nil
}

// solidName derives a filesystem- and STL-safe name for a filament.
func solidName(swatches []sequence.Swatch, filament int) string {
	name := fmt.Sprintf("filament-%d", filament+1)
	if filament < len(swatches) && swatches[filament].Name != "" {
		name = swatches[filament].Name
	}
	name = strings.ToLower(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ' || r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	if name == "" {
		name = fmt.Sprintf("filament-%d", filament+1)
	}
	return name
}

type layerPreviewArgs struct {
	Layer int    `json:"layer"`
	Path  string `json:"path"`
}

func (s *Server) handleLayerPreview(args json.RawMessage) (interface{}, error) {
	var a layerPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, _, err := s.requireGrid()
	if err != nil {
		return nil, err
	}
	exp := s.session.Expansion()
	if exp == nil {
		return nil, fmt.Errorf("no expansion: run artwork_expand first")
	}

	colors := make([]colorx.RGB, len(g.Swatches))
	for i, sw := range g.Swatches {
		c, err := colorx.ParseHex(sw.Hex)
		if err != nil {
			return nil, fmt.Errorf("swatch %d: %w", i, err)
		}
		colors[i] = c
	}

	img, err := geometry.Preview(exp, a.Layer, colors)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(img, a.Path); err != nil {
		return nil, fmt.Errorf("layer preview: %w", err)
	}
	return map[string]interface{}{
		"path":   a.Path,
		"layer":  a.Layer,
		"width":  exp.Width,
		"height": exp.Height,
	}, nil
}
