package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"github.com/matzehuels/coinmap/pkg/tooltip"
)

const tooltipCSS = `
    .leaf rect { cursor: pointer; }
    .leaf text { pointer-events: none; fill: #fff; font-size: 12px; }
    .tooltip {
      position: absolute;
      pointer-events: none;
      background: rgba(255, 255, 255, 0.9);
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px;
      display: none;
    }
    .tooltip img { width: 32px; height: 32px; margin: 2px; }
    .error text { fill: #b00020; font-size: 14px; }`

const tooltipJS = `
    (function () {
      var svg = document.currentScript ? document.currentScript.closest('svg') : document.querySelector('svg');
      if (!svg) { svg = document.querySelector('svg'); }
      var tip = svg.querySelector('.tooltip');
      var offset = %d;
      function move(evt) {
        tip.style.left = (evt.offsetX + offset) + 'px';
        tip.style.top = (evt.offsetY + offset) + 'px';
      }
      svg.querySelectorAll('.leaf rect').forEach(function (rect) {
        var leaf = rect.parentNode;
        rect.addEventListener('mouseover', function (evt) {
          tip.innerHTML = leaf.getAttribute('data-tooltip') || '';
          tip.style.display = 'block';
          move(evt);
        });
        rect.addEventListener('mousemove', move);
        rect.addEventListener('mouseout', function () { tip.style.display = 'none'; });
      });
    })();`

// SVGOption configures an [SVGCanvas].
type SVGOption func(*SVGCanvas)

// WithoutInteraction omits the tooltip markup and script.
func WithoutInteraction() SVGOption { return func(c *SVGCanvas) { c.static = true } }

// SVGCanvas records a chart and renders it as SVG.
type SVGCanvas struct {
	recording
	static bool
}

// NewSVGCanvas creates an empty SVG canvas.
func NewSVGCanvas(width, height float64, opts ...SVGOption) *SVGCanvas {
	c := &SVGCanvas{recording: recording{width: width, height: height}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType implements [Artifact].
func (c *SVGCanvas) ContentType() string { return "image/svg+xml" }

// Bytes renders the recorded drawing.
func (c *SVGCanvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		c.width, c.height, c.width, c.height)

	if c.errMsg != "" {
		renderError(&buf, c.width, c.height, c.errMsg)
		buf.WriteString("</svg>\n")
		return buf.Bytes(), nil
	}

	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tooltipCSS)
	for _, r := range c.leaves {
		if err := renderLeaf(&buf, r, !c.static); err != nil {
			return nil, err
		}
	}
	if !c.static {
		renderTooltip(&buf, c.width, c.height)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderLeaf(buf *bytes.Buffer, r record, interactive bool) error {
	s := r.shape
	coins, err := json.Marshal(s.Category.Top3Coins)
	if err != nil {
		return fmt.Errorf("encode top coins: %w", err)
	}
	fmt.Fprintf(buf, `  <g class="leaf" id="leaf-%d" transform="translate(%.3f,%.3f)" data-id="%s" data-top-coins="%s"`,
		s.Index, s.X, s.Y, html.EscapeString(s.Category.ID), html.EscapeString(string(coins)))
	if interactive {
		fmt.Fprintf(buf, ` data-tooltip="%s"`, html.EscapeString(tooltip.ImagesHTML(s.Category.Top3Coins)))
	}
	buf.WriteString(">\n")
	fmt.Fprintf(buf, `    <rect width="%.3f" height="%.3f" style="fill:%s"><title>%s</title></rect>`+"\n",
		s.Width, s.Height, s.Fill, html.EscapeString(s.Category.Name))
	for _, l := range r.labels {
		fmt.Fprintf(buf, `    <text x="%g" y="%g" font-size="%gpx" fill="#fff">%s</text>`+"\n",
			l.X, l.Y, l.Size, html.EscapeString(l.Text))
	}
	buf.WriteString("  </g>\n")
	return nil
}

func renderTooltip(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <foreignObject x="0" y="0" width="%.0f" height="%.0f" pointer-events="none">`+"\n", w, h)
	buf.WriteString(`    <div xmlns="http://www.w3.org/1999/xhtml" class="tooltip"></div>` + "\n")
	buf.WriteString("  </foreignObject>\n")
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", fmt.Sprintf(tooltipJS, tooltip.Offset))
}

func renderError(buf *bytes.Buffer, w, h float64, msg string) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", tooltipCSS)
	buf.WriteString(`  <g class="error" role="alert">` + "\n")
	fmt.Fprintf(buf, `    <rect width="%.0f" height="%.0f" fill="#fdecea"/>`+"\n", w, h)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		w/2, h/2, html.EscapeString(msg))
	buf.WriteString("  </g>\n")
}

// RenderError renders a standalone error-state SVG.
func RenderError(width, height float64, msg string) []byte {
	c := NewSVGCanvas(width, height)
	c.ShowError(msg)
	data, _ := c.Bytes()
	return data
}
