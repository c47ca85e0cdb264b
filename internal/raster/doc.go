// Package raster loads and prepares the two photographic inputs of the
// pipeline: grid scans and artwork images. It provides a thread-safe
// decode cache, print-width resampling, and an optional Gaussian
// pre-blur for noisy scans.
package raster
