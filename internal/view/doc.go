// Package view draws dipole-moment figures.
//
// A [DipoleView] loads every trial of a simulation, averages them and lays
// the result out as three stacked panels:
//
//   - Layer 2/3
//   - Layer 5
//   - Aggregate
//
// Index 0 shows the average together with all individual trials; index k
// shows trial k-1 alone with a heavier line and no average.
//
// A DipoleView is a [Figure]: anything that can report its size and draw
// itself onto a gonum/plot canvas. [Render] and [Save] turn a Figure into an
// image or a PNG, SVG or PDF file, and a [Host] such as a desktop window can
// display it.
//
// # Thread Safety
//
// A DipoleView is not safe for concurrent use. Construction, loading,
// averaging and drawing all happen on the calling goroutine.
package view
