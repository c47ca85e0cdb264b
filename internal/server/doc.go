// Package server implements the MCP (Model Context Protocol) server for
// the filament grid calibration pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes the pipeline
// stages as tools, so a UI layer (or an MCP-compatible client) can drive
// the full workflow: plan a calibration grid, sample a scan of the
// printed grid, build a palette, quantize artwork against the achievable
// colors, and export per-filament STL solids.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Grid:
//   - grid_generate: Plan a calibration grid for the selected filaments
//   - grid_export_json: Persist the grid configuration
//   - grid_import_json: Restore a grid configuration and rebuild its index
//
// Scan:
//   - scan_fit_alignment: Fit the grid-to-scan transform from point pairs
//   - scan_sample: Measure per-tile colors from a scan photograph
//   - scan_refine_index: Rebuild the color index from measured tile colors
//   - scan_report_csv: Write the expected-vs-measured refinement report
//
// Palette:
//   - palette_import_gpl / palette_export_gpl: GIMP palette files
//   - palette_extract: Suggest a palette from an arbitrary image
//   - palette_dedupe: Drop duplicate palette entries
//
// Artwork:
//   - artwork_quantize: Resize and quantize artwork to the grid's colors
//   - artwork_expand: Decompose quantized artwork into layer buckets
//   - stl_export: Vectorize buckets and emit one STL solid per filament
//   - layer_preview: Render one compacted layer as a PNG
//
// # Session State
//
// Tool calls share one project.Session: the grid and its color index,
// the working palette, the latest scan measurement, and the quantized
// artwork persist between calls for the lifetime of the server process.
// Decoded rasters are cached by path in the session's image cache.
// artwork_quantize and stl_export run as cancellable tasks keyed by
// their target artifact; a new request for the same artifact supersedes
// the in-flight one.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
