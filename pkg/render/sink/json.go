package sink

import (
	"encoding/json"

	"github.com/matzehuels/coinmap/pkg/widget"
)

// JSONOption configures a [JSONCanvas].
type JSONOption func(*JSONCanvas)

// WithJSONPadding records the layout padding in the output.
func WithJSONPadding(p float64) JSONOption { return func(c *JSONCanvas) { c.padding = p } }

// WithJSONGeneration records the fetch generation in the output.
func WithJSONGeneration(g string) JSONOption { return func(c *JSONCanvas) { c.generation = g } }

// JSONCanvas records a chart and exports the layout as JSON.
type JSONCanvas struct {
	recording
	padding    float64
	generation string
}

// NewJSONCanvas creates an empty JSON canvas.
func NewJSONCanvas(width, height float64, opts ...JSONOption) *JSONCanvas {
	c := &JSONCanvas{recording: recording{width: width, height: height}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType implements [Artifact].
func (c *JSONCanvas) ContentType() string { return "application/json" }

type jsonOutput struct {
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Padding    float64    `json:"padding"`
	Generation string     `json:"generation,omitempty"`
	Error      string     `json:"error,omitempty"`
	Leaves     []jsonLeaf `json:"leaves"`
}

type jsonLeaf struct {
	Index     int         `json:"index"`
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	X0        float64     `json:"x0"`
	Y0        float64     `json:"y0"`
	X1        float64     `json:"x1"`
	Y1        float64     `json:"y1"`
	Fill      string      `json:"fill"`
	MarketCap float64     `json:"market_cap"`
	Change24h *float64    `json:"market_cap_change_24h"`
	Top3Coins []string    `json:"top_3_coins"`
	Labels    []jsonLabel `json:"labels"`
}

type jsonLabel struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Bytes encodes the recorded layout.
func (c *JSONCanvas) Bytes() ([]byte, error) {
	out := jsonOutput{
		Width:      c.width,
		Height:     c.height,
		Padding:    c.padding,
		Generation: c.generation,
		Error:      c.errMsg,
		Leaves:     make([]jsonLeaf, 0, len(c.leaves)),
	}
	for _, r := range c.leaves {
		s := r.shape
		leaf := jsonLeaf{
			Index:     s.Index,
			ID:        s.Category.ID,
			Name:      s.Category.Name,
			X0:        s.X,
			Y0:        s.Y,
			X1:        s.X + s.Width,
			Y1:        s.Y + s.Height,
			Fill:      string(s.Fill),
			MarketCap: s.Category.MarketCap,
			Top3Coins: s.Category.Top3Coins,
			Labels:    make([]jsonLabel, 0, len(r.labels)),
		}
		if leaf.Top3Coins == nil {
			leaf.Top3Coins = []string{}
		}
		if !s.Category.MissingChange {
			v := s.Category.MarketCapChange24h
			leaf.Change24h = &v
		}
		for _, l := range r.labels {
			leaf.Labels = append(leaf.Labels, jsonLabel{Kind: labelKind(l.Kind), X: l.X, Y: l.Y, Text: l.Text})
		}
		out.Leaves = append(out.Leaves, leaf)
	}
	return json.MarshalIndent(out, "", "  ")
}

func labelKind(k widget.LabelKind) string {
	if k == widget.LabelChange {
		return "change"
	}
	return "name"
}
