// Package scan turns a photograph of a printed calibration grid into
// measured colors: it maps tile space onto scan pixels through an
// alignment transform, averages a dead-space-shrunk window per tile,
// and reports expected-versus-measured quality data.
package scan
