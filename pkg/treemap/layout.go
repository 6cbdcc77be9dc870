package treemap

import "math"

// DefaultPadding is the gap between sibling rectangles and along the
// container edge.
const DefaultPadding = 2

// Options configures [Layout].
type Options struct {
	Width   float64
	Height  float64
	Padding float64 // zero means rectangles touch
}

// Layout assigns bounds to root and its children for a container of the
// given size. Non-finite or negative sizes and padding are treated as zero,
// so Layout never fails; callers validate user input beforehand.
func Layout(root *Node, opts Options) {
	if root == nil {
		return
	}
	w, h, p := clamp(opts.Width), clamp(opts.Height), clamp(opts.Padding)

	root.X0, root.Y0, root.X1, root.Y1 = 0, 0, w, h
	if len(root.Children) == 0 {
		return
	}

	// Children tile the root inset by half the padding; each child then
	// gives up the other half on every side, leaving full-padding gaps.
	half := p / 2
	x0, y0, x1, y1 := collapse(half, half, w-half, h-half)
	squarify(root, x0, y0, x1, y1)

	for _, c := range root.Children {
		c.X0, c.Y0, c.X1, c.Y1 = collapse(c.X0+half, c.Y0+half, c.X1-half, c.Y1-half)
	}
}

// collapse folds inverted extents onto their midpoint.
func collapse(x0, y0, x1, y1 float64) (float64, float64, float64, float64) {
	if x1 < x0 {
		x0 = (x0 + x1) / 2
		x1 = x0
	}
	if y1 < y0 {
		y0 = (y0 + y1) / 2
		y1 = y0
	}
	return x0, y0, x1, y1
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
