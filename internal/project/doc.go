// Package project holds the cross-stage state of one calibration
// session: the selected filament swatches, the planned grid and its
// color index, the working palette, the latest scan measurement, and
// the quantized artwork. Stages replace state wholesale, never mutate
// it in place, so any stage can be re-run after a failure.
//
// The package also provides the static filament catalog and the
// cancellable task runner used for long-running tool calls.
package project
