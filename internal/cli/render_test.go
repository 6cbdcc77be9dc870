package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/coinmap/pkg/category"
	"github.com/matzehuels/coinmap/pkg/errors"
	"github.com/matzehuels/coinmap/pkg/widget"
)

func testRenderOpts(output, formats string) renderOpts {
	return renderOpts{output: output, formats: formats, width: 300, height: 200, padding: 2, scale: 1}
}

func TestRunRenderAllFormats(t *testing.T) {
	dir := t.TempDir()
	c := New(&bytes.Buffer{}, LogInfo)

	var stderr bytes.Buffer
	opts := testRenderOpts(filepath.Join(dir, "out", "treemap"), "svg,html,png,json")
	if err := c.runRender(context.Background(), widget.Static(sampleCategories()), opts, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	for _, ext := range []string{"svg", "html", "png", "json"} {
		path := filepath.Join(dir, "out", "treemap."+ext)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
		if !strings.Contains(stderr.String(), path) {
			t.Errorf("stderr does not list %s", path)
		}
	}

	svg, _ := os.ReadFile(filepath.Join(dir, "out", "treemap.svg"))
	if !bytes.Contains(svg, []byte("DeFi")) || !bytes.Contains(svg, []byte("-2.25")) {
		t.Error("svg should contain category labels")
	}
	page, _ := os.ReadFile(filepath.Join(dir, "out", "treemap.html"))
	if !bytes.Contains(page, []byte("<h1>TreeMap</h1>")) {
		t.Error("html should contain the page heading")
	}

	var layout struct {
		Generation string `json:"generation"`
		Leaves     []struct {
			Name string  `json:"name"`
			X0   float64 `json:"x0"`
		} `json:"leaves"`
	}
	data, _ := os.ReadFile(filepath.Join(dir, "out", "treemap.json"))
	if err := json.Unmarshal(data, &layout); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(layout.Leaves) != 2 || layout.Leaves[0].Name != "DeFi" {
		t.Errorf("leaves = %+v, want DeFi then Meme", layout.Leaves)
	}
	if layout.Generation == "" {
		t.Error("json layout should carry the fetch generation")
	}
}

func TestRunRenderFetchesOnce(t *testing.T) {
	calls := 0
	src := widget.SourceFunc(func(context.Context, bool) ([]category.Category, error) {
		calls++
		return sampleCategories(), nil
	})

	c := New(&bytes.Buffer{}, LogInfo)
	opts := testRenderOpts(filepath.Join(t.TempDir(), "treemap"), "svg,json")
	if err := c.runRender(context.Background(), src, opts, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1", calls)
	}
}

func TestRunRenderErrorState(t *testing.T) {
	fetchErr := errors.New(errors.ErrCodeRateLimited, "CoinGecko rate limit exceeded")
	src := widget.SourceFunc(func(context.Context, bool) ([]category.Category, error) {
		return nil, fetchErr
	})

	path := filepath.Join(t.TempDir(), "treemap.svg")
	c := New(&bytes.Buffer{}, LogInfo)
	err := c.runRender(context.Background(), src, testRenderOpts(path, ""), &bytes.Buffer{}, &bytes.Buffer{})
	if !errors.Is(err, errors.ErrCodeRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}

	svg, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("error state not written: %v", readErr)
	}
	if !bytes.Contains(svg, []byte("Could not load categories: CoinGecko rate limit exceeded")) {
		t.Errorf("svg does not show the error state:\n%s", svg)
	}
}

func TestRunRenderStdout(t *testing.T) {
	var stdout bytes.Buffer
	c := New(&bytes.Buffer{}, LogInfo)
	if err := c.runRender(context.Background(), widget.Static(sampleCategories()), testRenderOpts("-", "json"), &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if !json.Valid(stdout.Bytes()) {
		t.Errorf("stdout is not JSON: %q", stdout.String())
	}

	err := c.runRender(context.Background(), widget.Static(sampleCategories()), testRenderOpts("-", "svg,json"), &stdout, &bytes.Buffer{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want invalid input for several formats on stdout", err)
	}
}

func TestRunRenderValidation(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	src := widget.Static(sampleCategories())
	dir := t.TempDir()

	tests := []struct {
		name string
		opts renderOpts
		code errors.Code
	}{
		{"unknown format", testRenderOpts(filepath.Join(dir, "t"), "pdf"), errors.ErrCodeInvalidFormat},
		{"unknown extension", testRenderOpts(filepath.Join(dir, "t.pdf"), ""), errors.ErrCodeInvalidFormat},
		{"zero width", renderOpts{output: filepath.Join(dir, "t.svg"), width: 0, height: 200}, errors.ErrCodeInvalidDimension},
		{"negative padding", renderOpts{output: filepath.Join(dir, "t.svg"), width: 300, height: 200, padding: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.runRender(context.Background(), src, tt.opts, &bytes.Buffer{}, &bytes.Buffer{})
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		list, output string
		want         []string
	}{
		{"", "treemap.svg", []string{"svg"}},
		{"", "treemap.PNG", []string{"png"}},
		{"", "treemap", []string{"svg"}},
		{"json", "treemap.svg", []string{"json"}},
		{"svg, png,svg", "treemap", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		got, err := parseFormats(tt.list, tt.output)
		if err != nil {
			t.Errorf("parseFormats(%q, %q): %v", tt.list, tt.output, err)
			continue
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q, %q) = %v, want %v", tt.list, tt.output, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, format string
		multi          bool
		want           string
	}{
		{"treemap.svg", "svg", false, "treemap.svg"},
		{"treemap", "svg", false, "treemap.svg"},
		{"out/treemap.svg", "png", true, "out/treemap.png"},
		{"-", "json", false, "-"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.format, tt.multi); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.output, tt.format, tt.multi, got, tt.want)
		}
	}
}
