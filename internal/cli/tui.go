package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/widget"
)

// Rows taken by the header and footer around the chart.
const (
	headerRows = 1
	footerRows = 2
)

var (
	tuiDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tuiTooltipStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// tuiCommand creates the interactive terminal treemap.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the treemap in the terminal",
		Long: `Show the treemap full screen. Hovering a rectangle with the mouse shows the
category's top coins; r refetches, q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, backend, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			defer backend.Close()

			m := newTUIModel(ctx, client, widget.Options{Padding: c.config().Chart.Padding})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(*tuiModel); ok && fm.chart.Err() != nil {
				c.Logger.Warn("last fetch failed", "err", fm.chart.Err())
			}
			return nil
		},
	}
}

// fetchedMsg carries the result of a background fetch into Update.
type fetchedMsg struct {
	cats []category.Category
	err  error
}

// latest replays the most recent fetch result to the chart, so the
// network round trip happens in a tea.Cmd and the chart stays on the
// update goroutine.
type latest struct {
	msg fetchedMsg
}

func (l *latest) FetchCategories(context.Context, bool) ([]category.Category, error) {
	return l.msg.cats, l.msg.err
}

// tuiModel is the bubbletea model for the terminal treemap.
type tuiModel struct {
	ctx     context.Context
	src     widget.Source
	latest  *latest
	canvas  *termCanvas
	chart   *widget.Chart
	width   int
	height  int
	loading bool
	mounted bool
}

func newTUIModel(ctx context.Context, src widget.Source, opts widget.Options) *tuiModel {
	canvas := newTermCanvas(0, 0)
	l := &latest{}
	return &tuiModel{
		ctx:     ctx,
		src:     src,
		latest:  l,
		canvas:  canvas,
		chart:   widget.New(l, canvas, opts),
		loading: true,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return m.fetch(false)
}

func (m *tuiModel) fetch(refresh bool) tea.Cmd {
	return func() tea.Msg {
		cats, err := m.src.FetchCategories(m.ctx, refresh)
		return fetchedMsg{cats: cats, err: err}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.loading {
				m.loading = true
				return m, m.fetch(true)
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := max(msg.Height-headerRows-footerRows, 0)
		m.chart.Resize(float64(msg.Width*cellWidth), float64(rows*cellHeight))
		if m.chart.Phase() == widget.PhaseReady {
			m.chart.Relayout()
		}

	case fetchedMsg:
		m.loading = false
		m.latest.msg = msg
		if m.mounted {
			_ = m.chart.Refresh(m.ctx)
		} else {
			m.mounted = true
			_ = m.chart.Mount(m.ctx)
		}

	case tea.MouseMsg:
		row := msg.Y - headerRows
		if row < 0 || row >= m.canvas.rows || msg.X >= m.canvas.cols {
			if m.chart.Hovered() >= 0 {
				m.chart.PointerLeave()
			}
			return m, nil
		}
		m.chart.Pointer(cellAt(msg.X, row))
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	if m.canvas.rows > 0 {
		b.WriteString(m.canvas.Render(m.chart.Hovered()))
		b.WriteByte('\n')
	}
	b.WriteString(m.tooltipLine())
	b.WriteByte('\n')
	b.WriteString(tuiDimStyle.Render("hover: top coins  r refresh  q quit"))
	return b.String()
}

func (m *tuiModel) header() string {
	title := StyleTitle.Render(widget.Heading)
	var status string
	switch {
	case m.loading:
		status = "loading..."
	case m.chart.Phase() == widget.PhaseFailed:
		status = "fetch failed"
	case m.chart.Phase() == widget.PhaseReady:
		s := m.chart.Summary()
		status = fmt.Sprintf("%d categories · %s · %s%% weighted 24h · %s",
			s.Count, formatMarketCap(s.TotalMarketCap), category.FormatChange(s.WeightedChange),
			m.chart.FetchedAt().Format("15:04:05"))
	}
	return title + " " + tuiDimStyle.Render(status)
}

// tooltipLine shows the tooltip state: the hovered category and its top
// coin images, which a terminal can only list.
func (m *tuiModel) tooltipLine() string {
	tip := m.chart.Tooltip()
	i := m.chart.Hovered()
	if !tip.Visible || i < 0 || i >= len(m.chart.Leaves()) {
		return ""
	}
	leaf := m.chart.Leaves()[i]
	line := fmt.Sprintf("%s %s  %s",
		leaf.Category.Name,
		changeStyle(leaf.Fill()).Render(widget.ChangeText(leaf.Category)+"%"),
		strings.Join(tip.Images, " "))
	if m.width > 0 {
		return tuiTooltipStyle.MaxWidth(m.width).Render(line)
	}
	return tuiTooltipStyle.Render(line)
}
