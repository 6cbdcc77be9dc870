package widget

import (
	"context"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/treemap"
)

// Label offsets inside a leaf, relative to its top-left corner.
const (
	NameLabelX   = 4
	NameLabelY   = 16
	ChangeLabelX = 4
	ChangeLabelY = 32

	// LabelSize is the label font size in layout units.
	LabelSize = 12
)

// Source supplies the category list.
type Source interface {
	FetchCategories(ctx context.Context, refresh bool) ([]category.Category, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context, refresh bool) ([]category.Category, error)

// FetchCategories calls f.
func (f SourceFunc) FetchCategories(ctx context.Context, refresh bool) ([]category.Category, error) {
	return f(ctx, refresh)
}

// Static is a Source that always returns the same categories.
type Static []category.Category

// FetchCategories returns a copy of s.
func (s Static) FetchCategories(context.Context, bool) ([]category.Category, error) {
	return append([]category.Category(nil), s...), nil
}

// Shape is a leaf rectangle. The rectangle is drawn at the origin of a
// group translated by (X, Y).
type Shape struct {
	Index    int
	X, Y     float64
	Width    float64
	Height   float64
	Fill     treemap.Color
	Category category.Category
}

// LabelKind tells the two leaf labels apart.
type LabelKind int

const (
	LabelName LabelKind = iota
	LabelChange
)

// Label is a text line inside a leaf. X and Y are relative to the leaf's
// top-left corner.
type Label struct {
	Index int
	Kind  LabelKind
	X, Y  float64
	Size  float64
	Text  string
}

// Canvas is the drawing surface a Chart paints on.
type Canvas interface {
	// Size returns the drawable width and height at this instant.
	Size() (width, height float64)
	// Clear removes everything previously drawn.
	Clear()
	// Rect draws a leaf rectangle.
	Rect(Shape)
	// Text draws a label belonging to the most recent Rect with the same
	// Index.
	Text(Label)
	// ShowError draws a message in place of the chart.
	ShowError(message string)
}

// Resizer is implemented by canvases whose size can be changed by the
// host (terminal resize, window resize).
type Resizer interface {
	Resize(width, height float64)
}
