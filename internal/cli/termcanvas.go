package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/coinmap/pkg/treemap"
	"github.com/matzehuels/coinmap/pkg/widget"
)

// A terminal cell stands for cellWidth x cellHeight canvas units, so the
// layout keeps roughly the aspect ratio of a pixel canvas.
const (
	cellWidth  = 8
	cellHeight = 16
)

// Alternating shades per fill keep neighboring leaves apart without
// gutters, which the cell grid is too coarse to show.
var shades = map[treemap.Color][3]lipgloss.Color{
	treemap.Green: {"28", "34", "40"},
	treemap.Red:   {"124", "160", "196"},
	treemap.Gray:  {"240", "244", "248"},
}

var (
	colorLabel    = lipgloss.Color("255")
	styleErrorBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Foreground(colorRed).
			Padding(1, 2)
)

// termCanvas implements widget.Canvas on a grid of terminal cells.
type termCanvas struct {
	cols, rows int
	shapes     []widget.Shape
	labels     map[int][]widget.Label
	errMsg     string
}

func newTermCanvas(cols, rows int) *termCanvas {
	return &termCanvas{cols: max(cols, 0), rows: max(rows, 0), labels: make(map[int][]widget.Label)}
}

func (c *termCanvas) Size() (float64, float64) {
	return float64(c.cols * cellWidth), float64(c.rows * cellHeight)
}

// Resize implements widget.Resizer. Sizes are rounded down to whole cells.
func (c *termCanvas) Resize(width, height float64) {
	c.cols = max(int(width)/cellWidth, 0)
	c.rows = max(int(height)/cellHeight, 0)
}

func (c *termCanvas) Clear() {
	c.shapes = c.shapes[:0]
	clear(c.labels)
	c.errMsg = ""
}

func (c *termCanvas) Rect(s widget.Shape) {
	c.shapes = append(c.shapes, s)
}

func (c *termCanvas) Text(l widget.Label) {
	c.labels[l.Index] = append(c.labels[l.Index], l)
}

func (c *termCanvas) ShowError(msg string) {
	c.errMsg = msg
}

// cellAt maps a cell to the center point of the canvas area it covers.
func cellAt(col, row int) (x, y float64) {
	return float64(col*cellWidth + cellWidth/2), float64(row*cellHeight + cellHeight/2)
}

type cell struct {
	bg lipgloss.Color
	ch rune
}

// Render draws the grid. The leaf with index hovered is highlighted.
func (c *termCanvas) Render(hovered int) string {
	if c.cols == 0 || c.rows == 0 {
		return ""
	}
	if c.errMsg != "" {
		return lipgloss.Place(c.cols, c.rows, lipgloss.Center, lipgloss.Center,
			styleErrorBox.MaxWidth(c.cols).Render(c.errMsg))
	}

	grid := make([][]cell, c.rows)
	for r := range grid {
		grid[r] = make([]cell, c.cols)
		for col := range grid[r] {
			grid[r][col] = cell{ch: ' '}
		}
	}

	for _, s := range c.shapes {
		shade := shades[s.Fill][s.Index%2]
		if s.Index == hovered {
			shade = shades[s.Fill][2]
		}
		firstRow, firstCol := -1, -1
		for r := 0; r < c.rows; r++ {
			for col := 0; col < c.cols; col++ {
				x, y := cellAt(col, r)
				if x < s.X || x >= s.X+s.Width || y < s.Y || y >= s.Y+s.Height {
					continue
				}
				grid[r][col].bg = shade
				if firstRow < 0 {
					firstRow, firstCol = r, col
				}
			}
		}
		if firstRow < 0 {
			continue
		}
		for _, l := range c.labels[s.Index] {
			row := firstRow
			if l.Kind == widget.LabelChange {
				row++
			}
			c.writeLabel(grid, row, firstCol, shade, l.Text)
		}
	}

	var b strings.Builder
	for r, line := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		writeRuns(&b, line)
	}
	return b.String()
}

// writeLabel writes text into row starting at col, staying within cells of
// the same leaf.
func (c *termCanvas) writeLabel(grid [][]cell, row, col int, shade lipgloss.Color, text string) {
	if row >= c.rows {
		return
	}
	for _, ch := range text {
		if col >= c.cols || grid[row][col].bg != shade {
			return
		}
		grid[row][col].ch = ch
		col++
	}
}

// writeRuns renders a row, styling runs of equal background at once.
func writeRuns(b *strings.Builder, line []cell) {
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && line[i].bg == line[start].bg {
			continue
		}
		var run strings.Builder
		for _, cl := range line[start:i] {
			run.WriteRune(cl.ch)
		}
		style := lipgloss.NewStyle()
		if bg := line[start].bg; bg != "" {
			style = style.Background(bg).Foreground(colorLabel)
		}
		b.WriteString(style.Render(run.String()))
		start = i
	}
}
