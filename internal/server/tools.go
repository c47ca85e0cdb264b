package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Grid
		{
			Name:        "grid_generate",
			Description: "Plan a calibration grid for the selected filaments: enumerate all printable layer sequences, lay them out on the print bed, and build the color index. Replaces any previous grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"colours": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Filament colors, at least two: catalog names (e.g. 'White') or hex codes (e.g. '#C12E1F')",
					},
					"layers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum layers per tile (default 3)",
						"default":     3,
					},
					"tile": map[string]interface{}{
						"type":        "number",
						"description": "Tile edge length in mm (default 10)",
						"default":     10,
					},
					"gap": map[string]interface{}{
						"type":        "number",
						"description": "Gap between tiles in mm (default 2)",
						"default":     2,
					},
					"max_width": map[string]interface{}{
						"type":        "number",
						"description": "Printable bed width in mm (default 200)",
						"default":     200,
					},
					"max_height": map[string]interface{}{
						"type":        "number",
						"description": "Printable bed height in mm (default 200)",
						"default":     200,
					},
					"layer_height": map[string]interface{}{
						"type":        "number",
						"description": "Print layer height in mm (default 0.2)",
						"default":     0.2,
					},
					"base_layers": map[string]interface{}{
						"type":        "integer",
						"description": "Opaque base layers under the color stack (default 3)",
						"default":     3,
					},
					"preview_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path for a PNG preview of the grid with simulated tile colors",
					},
					"pixels_per_mm": map[string]interface{}{
						"type":        "number",
						"description": "Preview resolution (default 4)",
						"default":     4,
					},
				},
				"required": []string{"colours"},
			},
		},
		{
			Name:        "grid_export_json",
			Description: "Persist the current grid configuration (colours, sequences, physical settings) as JSON.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination file path",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "grid_import_json",
			Description: "Restore a grid configuration from JSON. The unused-cell list and the color index are rebuilt from the file's sequences; malformed sequences are skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Grid configuration file path",
					},
				},
				"required": []string{"path"},
			},
		},

		// Scan
		{
			Name:        "scan_fit_alignment",
			Description: "Fit the grid-to-scan transform (per-axis offset and scale) from reference point pairs by least squares. At least two pairs are required.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pairs": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"tile_x": map[string]interface{}{"type": "number", "description": "X in grid space, mm"},
								"tile_y": map[string]interface{}{"type": "number", "description": "Y in grid space, mm"},
								"scan_x": map[string]interface{}{"type": "number", "description": "Matching X in the scan, pixels"},
								"scan_y": map[string]interface{}{"type": "number", "description": "Matching Y in the scan, pixels"},
							},
							"required": []string{"tile_x", "tile_y", "scan_x", "scan_y"},
						},
						"description": "Corresponding grid/scan point pairs",
					},
				},
				"required": []string{"pairs"},
			},
		},
		{
			Name:        "scan_sample",
			Description: "Measure the average color of every grid tile from a scan photograph, using the fitted alignment. Tiles whose window leaves the image record a grey sentinel and are counted, not failed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the scan image",
					},
					"dead_space": map[string]interface{}{
						"type":        "number",
						"description": "Fraction of each tile edge excluded from sampling, 0-1 (default 0.3)",
						"default":     0.3,
					},
					"blur_sigma": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian pre-blur sigma in pixels for noisy scans (default 0, off)",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "scan_refine_index",
			Description: "Rebuild the color index from the latest scan measurement, so artwork quantization matches the colors the printer and scanner really produce instead of the simulated mix.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "scan_report_csv",
			Description: "Write the expected-vs-measured CSV for the latest scan sample: one row per tile with simulated color, measured color, RGB distance and CIE-Lab delta-E.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination CSV file path",
					},
				},
				"required": []string{"path"},
			},
		},

		// Palette
		{
			Name:        "palette_import_gpl",
			Description: "Load a GIMP palette (.gpl) file as the working palette. Lines that are not 'R G B [name]' entries are skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Palette file path",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_export_gpl",
			Description: "Write the working palette as a GIMP palette (.gpl) file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination file path",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_extract",
			Description: "Suggest a working palette from an arbitrary image, by k-means clustering or dominant-color analysis.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to extract (default 5)",
						"default":     5,
					},
					"algorithm": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"kmeans", "dominant"},
						"description": "Extraction algorithm (default 'kmeans')",
						"default":     "kmeans",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_dedupe",
			Description: "Remove duplicate colors from the working palette, keeping the first occurrence of each.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Artwork
		{
			Name:        "artwork_quantize",
			Description: "Resize artwork to the print width and quantize it to the colors the current grid can produce. Runs as a cancellable task; a new call supersedes an in-flight one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the artwork image",
					},
					"print_width": map[string]interface{}{
						"type":        "number",
						"description": "Target print width in mm",
					},
					"pixels_per_mm": map[string]interface{}{
						"type":        "number",
						"description": "Pixel density of the print raster (default 4)",
						"default":     4,
					},
					"dither": map[string]interface{}{
						"type":        "boolean",
						"description": "Apply Floyd-Steinberg dithering (default false)",
						"default":     false,
					},
					"min_detail": map[string]interface{}{
						"type":        "number",
						"description": "Smallest printable color feature in mm; 0 disables the filter (default 0)",
						"default":     0,
					},
					"neighbor_share": map[string]interface{}{
						"type":        "number",
						"description": "Neighborhood majority required to keep a pixel, 0-1 (default 0.5)",
						"default":     0.5,
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"index", "session"},
						"description": "Quantization palette: every achievable index color, or the working palette snapped to its nearest achievable colors (default 'index')",
						"default":     "index",
					},
				},
				"required": []string{"path", "print_width"},
			},
		},
		{
			Name:        "artwork_expand",
			Description: "Decompose the quantized artwork into per-layer, per-filament pixel buckets by looking each pixel up in the grid's color index.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "stl_export",
			Description: "Vectorize the layer buckets into rectangles and write one ASCII STL solid per filament. Runs as a cancellable task; a new call supersedes an in-flight one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"dir": map[string]interface{}{
						"type":        "string",
						"description": "Destination directory (must exist)",
					},
					"prefix": map[string]interface{}{
						"type":        "string",
						"description": "Output file name prefix (default 'filagrid')",
						"default":     "filagrid",
					},
				},
				"required": []string{"dir"},
			},
		},
		{
			Name:        "layer_preview",
			Description: "Render one compacted layer of the expansion as a PNG: filament color on transparent background.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layer": map[string]interface{}{
						"type":        "integer",
						"description": "Compacted layer index, 0 = bottom",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination PNG file path",
					},
				},
				"required": []string{"layer", "path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
