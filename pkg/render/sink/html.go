package sink

import (
	"bytes"
	"html/template"

	"github.com/matzehuels/coinmap/pkg/widget"
)

// HTMLCanvas draws like an [SVGCanvas] and wraps the result in the page
// shell.
type HTMLCanvas struct {
	*SVGCanvas
	shell widget.Shell
}

// NewHTMLCanvas creates an empty HTML canvas.
func NewHTMLCanvas(width, height float64, shell widget.Shell) *HTMLCanvas {
	return &HTMLCanvas{SVGCanvas: NewSVGCanvas(width, height), shell: shell}
}

// ContentType implements [Artifact].
func (c *HTMLCanvas) ContentType() string { return "text/html; charset=utf-8" }

// Bytes renders the page.
func (c *HTMLCanvas) Bytes() ([]byte, error) {
	svg, err := c.SVGCanvas.Bytes()
	if err != nil {
		return nil, err
	}
	return RenderHTML(svg, c.shell)
}

// RenderHTML places an SVG produced by this package inside the page shell.
func RenderHTML(svg []byte, shell widget.Shell) ([]byte, error) {
	var buf bytes.Buffer
	if err := shell.Render(&buf, template.HTML(svg)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
