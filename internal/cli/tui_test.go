package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/widget"
)

func TestTermCanvasSize(t *testing.T) {
	c := newTermCanvas(10, 4)
	if w, h := c.Size(); w != 80 || h != 64 {
		t.Errorf("Size() = %v, %v, want 80, 64", w, h)
	}
	c.Resize(100, 50)
	if c.cols != 12 || c.rows != 3 {
		t.Errorf("Resize rounded to %dx%d, want 12x3", c.cols, c.rows)
	}
}

func TestTermCanvasRendersLeavesAndLabels(t *testing.T) {
	canvas := newTermCanvas(40, 6)
	chart := widget.New(widget.Static(sampleCategories()), canvas, widget.DefaultOptions())
	if err := chart.Mount(context.Background()); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	out := canvas.Render(-1)
	if lines := strings.Split(out, "\n"); len(lines) != 6 {
		t.Fatalf("rendered %d rows, want 6", len(lines))
	}
	for _, want := range []string{"DeFi", "1.50", "Meme", "-2.25"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestTermCanvasErrorState(t *testing.T) {
	canvas := newTermCanvas(60, 8)
	src := widget.SourceFunc(func(context.Context, bool) ([]category.Category, error) {
		return nil, errors.New(errors.ErrCodeNetwork, "connection refused")
	})
	_ = widget.New(src, canvas, widget.DefaultOptions()).Mount(context.Background())

	if out := canvas.Render(-1); !strings.Contains(out, "connection refused") {
		t.Errorf("error state not rendered:\n%s", out)
	}
}

// runCmd executes a command synchronously and feeds its message back.
func runCmd(t *testing.T, m *tuiModel, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func TestTUIModelHoverShowsTooltip(t *testing.T) {
	m := newTUIModel(context.Background(), widget.Static(sampleCategories()), widget.DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	runCmd(t, m, m.Init())

	if m.chart.Phase() != widget.PhaseReady {
		t.Fatalf("phase = %v, want ready", m.chart.Phase())
	}
	if m.canvas.rows != 10-headerRows-footerRows {
		t.Errorf("canvas rows = %d", m.canvas.rows)
	}

	// The first leaf (DeFi) starts at the top-left corner.
	m.Update(tea.MouseMsg{X: 1, Y: headerRows + 1, Action: tea.MouseActionMotion})
	tip := m.chart.Tooltip()
	if !tip.Visible || m.chart.Hovered() != 0 {
		t.Fatalf("hover over DeFi: visible=%v hovered=%d", tip.Visible, m.chart.Hovered())
	}
	if len(tip.Images) != 2 {
		t.Errorf("tooltip images = %v, want DeFi's two coins", tip.Images)
	}
	if view := m.View(); !strings.Contains(view, "https://img/a.png") {
		t.Errorf("view should list tooltip images:\n%s", view)
	}

	// Moving onto the header hides the tooltip.
	m.Update(tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionMotion})
	if m.chart.Tooltip().Visible {
		t.Error("tooltip should hide when the pointer leaves the chart")
	}
}

func TestTUIModelRefresh(t *testing.T) {
	calls := 0
	var refreshed bool
	src := widget.SourceFunc(func(_ context.Context, refresh bool) ([]category.Category, error) {
		calls++
		refreshed = refresh
		return sampleCategories(), nil
	})
	m := newTUIModel(context.Background(), src, widget.DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	runCmd(t, m, m.Init())
	first := m.chart.Generation()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !m.loading {
		t.Error("refresh should mark the model loading")
	}
	runCmd(t, m, cmd)

	if calls != 2 || !refreshed {
		t.Errorf("calls = %d refreshed = %v, want a second, cache-bypassing fetch", calls, refreshed)
	}
	if m.chart.Generation() == first {
		t.Error("refresh should start a new generation")
	}
}

func TestTUIModelQuit(t *testing.T) {
	m := newTUIModel(context.Background(), widget.Static(nil), widget.DefaultOptions())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestTUIModelResizeRelayouts(t *testing.T) {
	m := newTUIModel(context.Background(), widget.Static(sampleCategories()), widget.DefaultOptions())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	runCmd(t, m, m.Init())
	before := m.chart.Leaves()[1].X1

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if m.chart.Stale() {
		t.Error("resize should relayout")
	}
	if after := m.chart.Leaves()[1].X1; after <= before {
		t.Errorf("leaf right edge %v -> %v, want wider layout", before, after)
	}
}
