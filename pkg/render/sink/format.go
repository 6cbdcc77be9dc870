package sink

import (
	"slices"
	"strings"

	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/widget"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists the supported formats.
var Formats = []string{FormatSVG, FormatHTML, FormatPNG, FormatJSON}

// Artifact is a canvas whose contents can be serialized.
type Artifact interface {
	widget.Canvas
	Bytes() ([]byte, error)
	ContentType() string
}

// Options configures [NewCanvas]. Fields that do not apply to a format are
// ignored.
type Options struct {
	Shell      widget.Shell // html
	Scale      float64      // png
	Padding    float64      // json
	Generation string       // json
}

// ParseFormat normalizes a format name.
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", s, strings.Join(Formats, ", "))
	}
	return f, nil
}

// NewCanvas creates a canvas for format with the given size.
func NewCanvas(format string, width, height float64, opts ...Options) (Artifact, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	switch f {
	case FormatHTML:
		return NewHTMLCanvas(width, height, o.Shell), nil
	case FormatPNG:
		return NewPNGCanvas(width, height, WithScale(o.Scale)), nil
	case FormatJSON:
		return NewJSONCanvas(width, height, WithJSONPadding(o.Padding), WithJSONGeneration(o.Generation)), nil
	default:
		return NewSVGCanvas(width, height), nil
	}
}

// record is a drawn leaf: its rectangle and labels.
type record struct {
	shape  widget.Shape
	labels []widget.Label
}

// recording implements the draw-command bookkeeping shared by all sinks.
type recording struct {
	width, height float64
	leaves        []record
	errMsg        string
}

func (r *recording) Size() (float64, float64) { return r.width, r.height }

func (r *recording) Resize(w, h float64) { r.width, r.height = w, h }

func (r *recording) Clear() {
	r.leaves = r.leaves[:0]
	r.errMsg = ""
}

func (r *recording) Rect(s widget.Shape) {
	r.leaves = append(r.leaves, record{shape: s})
}

func (r *recording) Text(l widget.Label) {
	for i := len(r.leaves) - 1; i >= 0; i-- {
		if r.leaves[i].shape.Index == l.Index {
			r.leaves[i].labels = append(r.leaves[i].labels, l)
			return
		}
	}
}

func (r *recording) ShowError(msg string) {
	r.leaves = r.leaves[:0]
	r.errMsg = msg
}
