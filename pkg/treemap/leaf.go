package treemap

import (
	"github.com/matzehuels/coinmap/pkg/category"
)

// Leaf is a laid-out category: the record plus its rectangle.
type Leaf struct {
	Index    int // position in the fetched list
	Category category.Category
	X0, Y0   float64
	X1, Y1   float64
}

// Leaves returns the leaves of a laid-out tree in input order. The root is
// never returned, even when it has no children.
func Leaves(root *Node) []Leaf {
	if root == nil {
		return nil
	}
	out := make([]Leaf, 0, len(root.Children))
	for i, c := range root.Children {
		if !c.IsLeaf() || c.Category == nil {
			continue
		}
		out = append(out, Leaf{
			Index:    i,
			Category: *c.Category,
			X0:       c.X0,
			Y0:       c.Y0,
			X1:       c.X1,
			Y1:       c.Y1,
		})
	}
	return out
}

// Compute builds, lays out and flattens cats in one step.
func Compute(cats []category.Category, opts Options) []Leaf {
	root := Build(cats)
	Layout(root, opts)
	return Leaves(root)
}

// Width returns the horizontal extent of the leaf.
func (l Leaf) Width() float64 { return l.X1 - l.X0 }

// Height returns the vertical extent of the leaf.
func (l Leaf) Height() float64 { return l.Y1 - l.Y0 }

// Area returns Width times Height.
func (l Leaf) Area() float64 { return l.Width() * l.Height() }

// Fill returns the leaf's fill color.
func (l Leaf) Fill() Color { return fillFor(&l.Category) }

// Contains reports whether (x, y) lies within the leaf, edges included, so
// that zero-area leaves can still be hit.
func (l Leaf) Contains(x, y float64) bool {
	return x >= l.X0 && x <= l.X1 && y >= l.Y0 && y <= l.Y1
}

// HitTest returns the index into leaves of the rectangle under (x, y), or
// -1. Later leaves win, matching paint order.
func HitTest(leaves []Leaf, x, y float64) int {
	for i := len(leaves) - 1; i >= 0; i-- {
		if leaves[i].Contains(x, y) {
			return i
		}
	}
	return -1
}
