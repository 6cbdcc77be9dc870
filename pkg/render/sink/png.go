package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// PNGOption configures a [PNGCanvas].
type PNGOption func(*PNGCanvas)

// WithScale sets the PNG scale factor (default 1). Values <= 0 are
// ignored.
func WithScale(s float64) PNGOption {
	return func(c *PNGCanvas) {
		if s > 0 {
			c.scale = s
		}
	}
}

// PNGCanvas records a chart and rasterizes it with gg.
type PNGCanvas struct {
	recording
	scale float64
}

// NewPNGCanvas creates an empty PNG canvas.
func NewPNGCanvas(width, height float64, opts ...PNGOption) *PNGCanvas {
	c := &PNGCanvas{recording: recording{width: width, height: height}, scale: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType implements [Artifact].
func (c *PNGCanvas) ContentType() string { return "image/png" }

// Bytes rasterizes the recorded drawing.
func (c *PNGCanvas) Bytes() ([]byte, error) {
	w := int(math.Ceil(c.width * c.scale))
	h := int(math.Ceil(c.height * c.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("png: empty canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(c.scale, c.scale)
	dc.SetFontFace(basicfont.Face7x13)

	if c.errMsg != "" {
		dc.SetRGB255(0xfd, 0xec, 0xea)
		dc.DrawRectangle(0, 0, c.width, c.height)
		dc.Fill()
		dc.SetRGB255(0xb0, 0x00, 0x20)
		dc.DrawStringAnchored(c.errMsg, c.width/2, c.height/2, 0.5, 0.5)
	} else {
		for _, r := range c.leaves {
			drawLeaf(dc, r)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLeaf(dc *gg.Context, r record) {
	s := r.shape
	dc.Push()
	defer dc.Pop()

	dc.Translate(s.X, s.Y)
	red, green, blue := s.Fill.RGB()
	dc.SetRGB255(int(red), int(green), int(blue))
	dc.DrawRectangle(0, 0, s.Width, s.Height)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for _, l := range r.labels {
		dc.DrawString(l.Text, l.X, l.Y)
	}
}
