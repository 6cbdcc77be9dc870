package treemap

import (
	"github.com/matzehuels/coinmap/pkg/category"
)

// Color is a fill color name understood by SVG and CSS.
type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Gray  Color = "gray"
)

// RGB returns the CSS named color's components.
func (c Color) RGB() (r, g, b uint8) {
	switch c {
	case Green:
		return 0x00, 0x80, 0x00
	case Red:
		return 0xff, 0x00, 0x00
	default:
		return 0x80, 0x80, 0x80
	}
}

// Fill returns the fill color of n. Leaves are green for a non-negative
// 24h change and red for a negative one. The root, and leaves whose source
// omitted the change, are gray.
func Fill(n *Node) Color {
	switch n.Kind {
	case KindLeaf:
		return fillFor(n.Category)
	default:
		return Gray
	}
}

func fillFor(c *category.Category) Color {
	if c == nil || c.MissingChange {
		return Gray
	}
	if c.MarketCapChange24h >= 0 {
		return Green
	}
	return Red
}
