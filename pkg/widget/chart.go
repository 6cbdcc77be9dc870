package widget

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/observability"
	"github.com/matzehuels/coinmap/pkg/tooltip"
	"github.com/matzehuels/coinmap/pkg/treemap"
)

// Phase is the chart's data lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MissingChangeText is shown instead of the 24h change when the source did
// not report one.
const MissingChangeText = "n/a"

// Options configures a [Chart].
type Options struct {
	// Padding between rectangles and along the edge. Zero draws touching
	// rectangles; [DefaultOptions] uses treemap.DefaultPadding.
	Padding float64
}

// DefaultOptions returns the standard chart configuration.
func DefaultOptions() Options {
	return Options{Padding: treemap.DefaultPadding}
}

// Chart is the treemap widget.
type Chart struct {
	src    Source
	canvas Canvas
	opts   Options

	phase      Phase
	err        error
	generation string
	fetchedAt  time.Time

	cats   []category.Category
	leaves []treemap.Leaf
	stale  bool

	tip     tooltip.Machine
	hovered int
}

// New creates a chart that reads from src and paints on canvas. Nothing is
// fetched or drawn until [Chart.Mount].
func New(src Source, canvas Canvas, opts Options) *Chart {
	return &Chart{src: src, canvas: canvas, opts: opts, hovered: -1}
}

// Mount performs the initial fetch, then lays out and draws the result. On
// failure the error state is drawn and the error returned.
func (c *Chart) Mount(ctx context.Context) error {
	return c.load(ctx, false)
}

// Refresh fetches again, bypassing any source cache, and replaces the
// current categories wholesale.
func (c *Chart) Refresh(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Chart) load(ctx context.Context, refresh bool) error {
	c.phase = PhaseLoading
	hooks := observability.Widget()
	hooks.OnFetchStart(ctx)
	start := time.Now()

	cats, err := c.src.FetchCategories(ctx, refresh)
	hooks.OnFetchComplete(ctx, len(cats), time.Since(start), err)

	c.generation = uuid.NewString()
	c.fetchedAt = time.Now()
	c.tip.Leave()
	c.hovered = -1

	if err != nil {
		c.phase = PhaseFailed
		c.err = err
		c.cats = nil
		c.leaves = nil
		c.Redraw()
		return err
	}

	c.phase = PhaseReady
	c.err = nil
	c.cats = category.Normalize(cats)
	c.Relayout()
	return nil
}

// Relayout recomputes leaf bounds for the canvas's current size and
// redraws.
func (c *Chart) Relayout() {
	w, h := c.canvas.Size()
	c.leaves = treemap.Compute(c.cats, treemap.Options{Width: w, Height: h, Padding: c.opts.Padding})
	c.stale = false
	if c.hovered >= len(c.leaves) {
		c.PointerLeave()
	}
	c.Redraw()
}

// Resize changes the canvas size when the canvas supports it. The layout
// is not recomputed: rectangles keep the bounds of the last layout until
// [Chart.Relayout] is called, and [Chart.Stale] reports true meanwhile.
func (c *Chart) Resize(width, height float64) {
	if r, ok := c.canvas.(Resizer); ok {
		r.Resize(width, height)
	}
	if c.phase == PhaseReady {
		c.stale = true
	}
}

// Redraw clears the canvas and paints the current state: one rectangle and
// two labels per leaf, or the error message after a failed fetch.
func (c *Chart) Redraw() {
	c.canvas.Clear()
	if c.phase == PhaseFailed {
		c.canvas.ShowError(ErrorMessage(c.err))
		return
	}
	for i, l := range c.leaves {
		c.canvas.Rect(Shape{
			Index:    i,
			X:        l.X0,
			Y:        l.Y0,
			Width:    l.Width(),
			Height:   l.Height(),
			Fill:     l.Fill(),
			Category: l.Category,
		})
		c.canvas.Text(Label{Index: i, Kind: LabelName, X: NameLabelX, Y: NameLabelY, Size: LabelSize, Text: l.Category.Name})
		c.canvas.Text(Label{Index: i, Kind: LabelChange, X: ChangeLabelX, Y: ChangeLabelY, Size: LabelSize, Text: ChangeText(l.Category)})
	}
	w, h := c.canvas.Size()
	observability.Widget().OnRedraw(context.Background(), len(c.leaves), w, h)
}

// ChangeText formats a category's 24h change as drawn in its label.
func ChangeText(cat category.Category) string {
	if cat.MissingChange {
		return MissingChangeText
	}
	return category.FormatChange(cat.MarketCapChange24h)
}

// ErrorMessage is the text of the error state for err.
func ErrorMessage(err error) string {
	if err == nil {
		return "Could not load categories"
	}
	return "Could not load categories: " + errors.UserMessage(err)
}

// PointerEnter handles the pointer entering leaf i at (x, y).
func (c *Chart) PointerEnter(i int, x, y float64) {
	if i < 0 || i >= len(c.leaves) {
		return
	}
	c.hovered = i
	c.tip.Enter(c.leaves[i].Category.Top3Coins, x, y)
}

// PointerMove handles pointer motion over a leaf.
func (c *Chart) PointerMove(x, y float64) {
	c.tip.Move(x, y)
}

// PointerLeave handles the pointer leaving a leaf.
func (c *Chart) PointerLeave() {
	c.hovered = -1
	c.tip.Leave()
}

// Pointer routes an absolute pointer position for hosts that only report
// motion: it hit-tests the leaves and emits the leave, enter and move
// events a browser would.
func (c *Chart) Pointer(x, y float64) {
	i := treemap.HitTest(c.leaves, x, y)
	switch {
	case i == c.hovered && i >= 0:
		c.PointerMove(x, y)
	case i != c.hovered:
		if c.hovered >= 0 {
			c.PointerLeave()
		}
		if i >= 0 {
			c.PointerEnter(i, x, y)
		}
	}
}

// Phase returns the lifecycle state.
func (c *Chart) Phase() Phase { return c.phase }

// Err returns the last fetch error, or nil.
func (c *Chart) Err() error { return c.err }

// Generation identifies the most recent fetch attempt.
func (c *Chart) Generation() string { return c.generation }

// FetchedAt is when the most recent fetch attempt finished.
func (c *Chart) FetchedAt() time.Time { return c.fetchedAt }

// Stale reports whether the canvas was resized since the last layout.
func (c *Chart) Stale() bool { return c.stale }

// Categories returns the normalized categories of the last successful
// fetch.
func (c *Chart) Categories() []category.Category {
	return append([]category.Category(nil), c.cats...)
}

// Leaves returns the current layout.
func (c *Chart) Leaves() []treemap.Leaf {
	return append([]treemap.Leaf(nil), c.leaves...)
}

// Hovered returns the index of the leaf under the pointer, or -1.
func (c *Chart) Hovered() int { return c.hovered }

// Tooltip returns the tooltip state.
func (c *Chart) Tooltip() tooltip.State { return c.tip.State() }
