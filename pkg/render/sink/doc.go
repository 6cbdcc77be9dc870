// Package sink provides the canvases a chart paints on and turns their
// contents into output artifacts.
//
// # Overview
//
// Every sink implements [widget.Canvas], so a chart draws the same
// sequence of rectangles, labels or error message regardless of the output:
//
//   - SVG: interactive vector output with the hover tooltip built in
//   - HTML: the SVG placed inside the page shell
//   - PNG: raster output drawn with fogleman/gg
//   - JSON: layout data export for external tools
//
// Canvases record draw commands and only serialize them in Bytes, so a
// Clear between fetches always drops everything drawn before.
//
// # Usage
//
//	canvas, err := sink.NewCanvas(sink.FormatSVG, 960, 600)
//	chart := widget.New(source, canvas, widget.DefaultOptions())
//	_ = chart.Mount(ctx) // failures are drawn as the error state
//	data, err := canvas.Bytes()
//
// # Tooltip
//
// The SVG carries a small script that mirrors the tooltip state machine of
// package tooltip: mouseover fills the tooltip with the leaf's coin images
// and shows it, mousemove only repositions it, mouseout hides it. The
// tooltip sits 10 units right of and below the pointer.
package sink
