// Package tooltip implements the hover tooltip shown over treemap leaves.
//
// The tooltip has two states, hidden and visible:
//
//	Hidden  --Enter-->  Visible   content rebuilt, position = pointer + Offset
//	Visible --Enter-->  Visible   content rebuilt, position = pointer + Offset
//	Visible --Move--->  Visible   position only
//	any     --Leave-->  Hidden
//
// Transitions are synchronous and have no timers. A [Machine] has a single
// owner and is not safe for concurrent use.
package tooltip

import (
	"html"
	"strings"
)

// Offset is added to both pointer coordinates to place the tooltip.
const Offset = 10

// State is a snapshot of the tooltip.
type State struct {
	Visible bool
	Images  []string // image URLs, in the order they were given
	X, Y    float64
}

// Machine holds the tooltip state. The zero value is hidden and empty.
type Machine struct {
	state State
}

// Enter shows the tooltip for a leaf with the given top coin images at
// pointer position (px, py). Content is replaced, never merged.
func (m *Machine) Enter(images []string, px, py float64) {
	m.state.Images = append([]string(nil), images...)
	m.state.Visible = true
	m.Move(px, py)
}

// Move repositions the tooltip. Content and visibility are untouched.
func (m *Machine) Move(px, py float64) {
	m.state.X = px + Offset
	m.state.Y = py + Offset
}

// Leave hides the tooltip regardless of its current state. The last
// content is kept but no longer shown.
func (m *Machine) Leave() {
	m.state.Visible = false
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	s := m.state
	s.Images = append([]string(nil), s.Images...)
	return s
}

// Visible reports whether the tooltip is shown.
func (m *Machine) Visible() bool { return m.state.Visible }

// Shown returns the images currently displayed: the content while
// visible, nothing while hidden.
func (m *Machine) Shown() []string {
	if !m.state.Visible {
		return nil
	}
	return append([]string(nil), m.state.Images...)
}

// HTML renders the tooltip content as one img element per image.
func (m *Machine) HTML() string {
	return ImagesHTML(m.state.Images)
}

// ImagesHTML renders image URLs as escaped img elements, in order.
func ImagesHTML(images []string) string {
	var b strings.Builder
	for _, src := range images {
		b.WriteString(`<img src="`)
		b.WriteString(html.EscapeString(src))
		b.WriteString(`" alt="coin" />`)
	}
	return b.String()
}
