// Package grid plans the physical calibration grid, renders its
// preview raster, and round-trips the grid configuration JSON.
//
// The planner is a greedy square-ish heuristic, not an optimal packer;
// its growth order is contractual because test fixtures and previously
// printed grids depend on it.
package grid
