// Package widget composes the treemap chart and the page shell around it.
//
// A [Chart] owns the whole lifecycle: it fetches categories from a
// [Source], lays them out for its [Canvas], draws one rectangle and two
// labels per leaf, and routes pointer events into the tooltip state
// machine. Every state change that affects the picture ends in a full
// redraw: the canvas is cleared and repainted from the current leaves,
// never patched.
//
// Fetch failures are not swallowed. The chart moves to [PhaseFailed], keeps
// the error, and draws an error message in place of the rectangles.
//
// A Chart is owned by a single goroutine, like a UI widget on an event
// loop; it performs no locking. Callers that share data across goroutines
// (the HTTP server, the refresh scheduler) hand each Chart its own snapshot
// through a [SourceFunc].
//
// [Shell] is the stateless page around the chart: a heading and a
// fixed-height, full-width chart container.
package widget
