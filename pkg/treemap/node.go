package treemap

import (
	"math"

	"github.com/matzehuels/coinmap/pkg/category"
)

// RootName is the name of the synthetic root node.
const RootName = "categories"

// Kind distinguishes the synthetic root from category leaves.
type Kind int

const (
	KindRoot Kind = iota
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// Node is a tree node. Category is set exactly when Kind is KindLeaf.
type Node struct {
	Kind     Kind
	Name     string
	Category *category.Category
	Children []*Node

	// Value is the layout weight: the market cap for leaves, the sum of the
	// children's weights for the root.
	Value float64

	X0, Y0, X1, Y1 float64
}

// Build creates the root node for cats. Negative or non-finite market caps
// weigh zero. The categories are copied; later changes to cats do not
// affect the tree.
func Build(cats []category.Category) *Node {
	root := &Node{Kind: KindRoot, Name: RootName}
	if len(cats) == 0 {
		return root
	}
	root.Children = make([]*Node, len(cats))
	for i := range cats {
		c := cats[i]
		w := c.MarketCap
		if !(w > 0) || math.IsInf(w, 1) {
			w = 0
		}
		root.Children[i] = &Node{
			Kind:     KindLeaf,
			Name:     c.Name,
			Category: &c,
			Value:    w,
		}
		root.Value += w
	}
	return root
}

// IsLeaf reports whether n is a category leaf.
func (n *Node) IsLeaf() bool { return n.Kind == KindLeaf }

// Width returns the horizontal extent of the node.
func (n *Node) Width() float64 { return n.X1 - n.X0 }

// Height returns the vertical extent of the node.
func (n *Node) Height() float64 { return n.Y1 - n.Y0 }
