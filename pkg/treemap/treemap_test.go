package treemap

import (
	"math"
	"testing"

	"github.com/matzehuels/coinmap/pkg/category"
)

const eps = 1e-6

func scenario() []category.Category {
	return []category.Category{
		{Name: "DeFi", MarketCap: 1000, MarketCapChange24h: 5, Top3Coins: []string{"a.png", "b.png"}},
		{Name: "Meme", MarketCap: 500, MarketCapChange24h: -3, Top3Coins: []string{"c.png"}},
	}
}

func TestBuild(t *testing.T) {
	cats := []category.Category{
		{Name: "A", MarketCap: 10},
		{Name: "B", MarketCap: -4},
		{Name: "C", MarketCap: math.NaN()},
		{Name: "D", MarketCap: 5},
	}
	root := Build(cats)

	if root.Kind != KindRoot || root.Name != RootName || root.Category != nil {
		t.Fatalf("root = %+v", root)
	}
	if root.Value != 15 {
		t.Errorf("root.Value = %v, want 15", root.Value)
	}
	if len(root.Children) != len(cats) {
		t.Fatalf("children = %d, want %d", len(root.Children), len(cats))
	}
	for i, c := range root.Children {
		if c.Kind != KindLeaf || c.Name != cats[i].Name {
			t.Errorf("child %d = %s %q, want leaf %q", i, c.Kind, c.Name, cats[i].Name)
		}
	}
	if root.Children[1].Value != 0 || root.Children[2].Value != 0 {
		t.Error("negative and NaN market caps should weigh zero")
	}

	cats[0].Name = "changed"
	if root.Children[0].Category.Name != "A" {
		t.Error("Build should copy categories")
	}
}

func TestLayoutEmpty(t *testing.T) {
	for _, cats := range [][]category.Category{nil, {}} {
		root := Build(cats)
		Layout(root, Options{Width: 300, Height: 200, Padding: DefaultPadding})
		if got := Leaves(root); len(got) != 0 {
			t.Errorf("Leaves() = %v, want none", got)
		}
	}
	Layout(nil, Options{Width: 1, Height: 1})
	if Leaves(nil) != nil {
		t.Error("Leaves(nil) should be nil")
	}
}

func TestLayoutScenario(t *testing.T) {
	leaves := Compute(scenario(), Options{Width: 300, Height: 200, Padding: DefaultPadding})
	if len(leaves) != 2 {
		t.Fatalf("got %d leaves, want 2", len(leaves))
	}
	defi, meme := leaves[0], leaves[1]

	want := []struct {
		leaf           Leaf
		x0, y0, x1, y1 float64
	}{
		{defi, 2, 2, 1 + 298.0*1000/1500 - 1, 198},
		{meme, 1 + 298.0*1000/1500 + 1, 2, 298, 198},
	}
	for _, w := range want {
		l := w.leaf
		if math.Abs(l.X0-w.x0) > eps || math.Abs(l.Y0-w.y0) > eps ||
			math.Abs(l.X1-w.x1) > eps || math.Abs(l.Y1-w.y1) > eps {
			t.Errorf("%s bounds = (%v,%v,%v,%v), want (%v,%v,%v,%v)",
				l.Category.Name, l.X0, l.Y0, l.X1, l.Y1, w.x0, w.y0, w.x1, w.y1)
		}
	}

	if ratio := defi.Area() / meme.Area(); math.Abs(ratio-2) > 0.05 {
		t.Errorf("DeFi/Meme area ratio = %v, want ~2", ratio)
	}
	if total := defi.Area() + meme.Area(); math.Abs(total-57624) > 1e-3 {
		t.Errorf("combined area = %v, want 57624", total)
	}
	if defi.Fill() != Green || meme.Fill() != Red {
		t.Errorf("fills = %s, %s, want green, red", defi.Fill(), meme.Fill())
	}
}

func TestLayoutInvariants(t *testing.T) {
	tests := []struct {
		name    string
		caps    []float64
		w, h, p float64
	}{
		{"single", []float64{42}, 300, 200, 2},
		{"equal", []float64{1, 1, 1, 1}, 400, 400, 2},
		{"skewed", []float64{1000, 10, 5, 1, 1, 1}, 640, 480, 2},
		{"descending", []float64{60, 50, 40, 30, 20, 10}, 800, 600, 2},
		{"ascending", []float64{1, 2, 3, 5, 8, 13, 21, 34}, 1024, 600, 2},
		{"tall", []float64{3, 1, 4, 1, 5, 9, 2, 6}, 100, 900, 2},
		{"no padding", []float64{7, 3, 2}, 500, 300, 0},
		{"wide padding", []float64{7, 3, 2}, 500, 300, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats := make([]category.Category, len(tt.caps))
			var total float64
			for i, c := range tt.caps {
				cats[i] = category.Category{Name: tt.name, MarketCap: c}
				total += c
			}
			leaves := Compute(cats, Options{Width: tt.w, Height: tt.h, Padding: tt.p})
			if len(leaves) != len(cats) {
				t.Fatalf("got %d leaves, want %d", len(leaves), len(cats))
			}

			inner := (tt.w - tt.p) * (tt.h - tt.p)
			var tiled float64
			for i, l := range leaves {
				if l.X1 < l.X0 || l.Y1 < l.Y0 {
					t.Errorf("leaf %d inverted: %+v", i, l)
				}
				if l.X0 < 0 || l.Y0 < 0 || l.X1 > tt.w || l.Y1 > tt.h {
					t.Errorf("leaf %d outside container: %+v", i, l)
				}
				// Each leaf plus its share of the padding is proportional
				// to its weight.
				cell := (l.Width() + tt.p) * (l.Height() + tt.p)
				tiled += cell
				if share := cell / inner; math.Abs(share-tt.caps[i]/total) > eps {
					t.Errorf("leaf %d share = %v, want %v", i, share, tt.caps[i]/total)
				}
			}
			if math.Abs(tiled-inner) > 1e-3 {
				t.Errorf("tiled area = %v, want %v", tiled, inner)
			}
			assertNoOverlap(t, leaves)
		})
	}
}

func assertNoOverlap(t *testing.T, leaves []Leaf) {
	t.Helper()
	for i := range leaves {
		for j := i + 1; j < len(leaves); j++ {
			a, b := leaves[i], leaves[j]
			ox := math.Min(a.X1, b.X1) - math.Max(a.X0, b.X0)
			oy := math.Min(a.Y1, b.Y1) - math.Max(a.Y0, b.Y0)
			if ox > eps && oy > eps {
				t.Errorf("leaves %d and %d overlap: %+v %+v", i, j, a, b)
			}
		}
	}
}

func TestLayoutZeroWeight(t *testing.T) {
	cats := []category.Category{
		{Name: "DeFi", MarketCap: 1000},
		{Name: "Ghost", MarketCap: 0, Top3Coins: []string{"g.png"}},
		{Name: "Meme", MarketCap: 500},
	}
	leaves := Compute(cats, Options{Width: 300, Height: 200, Padding: DefaultPadding})
	if len(leaves) != 3 {
		t.Fatalf("got %d leaves, want 3 (zero weight kept)", len(leaves))
	}
	ghost := leaves[1]
	if ghost.Area() != 0 {
		t.Errorf("ghost area = %v, want 0", ghost.Area())
	}
	if ghost.Width() < 0 || ghost.Height() < 0 {
		t.Errorf("ghost inverted: %+v", ghost)
	}
	if got := HitTest(leaves, ghost.X0, ghost.Y0); got != 1 {
		t.Errorf("HitTest on ghost = %d, want 1", got)
	}
	assertNoOverlap(t, leaves)
}

func TestLayoutAllZero(t *testing.T) {
	cats := []category.Category{{Name: "a"}, {Name: "b"}}
	for _, l := range Compute(cats, Options{Width: 300, Height: 200, Padding: 2}) {
		for _, v := range []float64{l.X0, l.Y0, l.X1, l.Y1} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite bound in %+v", l)
			}
		}
		if l.Area() != 0 {
			t.Errorf("area = %v, want 0", l.Area())
		}
	}
}

func TestLayoutDegenerateContainer(t *testing.T) {
	sizes := [][2]float64{{0, 0}, {0, 100}, {100, 0}, {1, 1}, {math.NaN(), 50}, {-10, 50}}
	for _, s := range sizes {
		for _, l := range Compute(scenario(), Options{Width: s[0], Height: s[1], Padding: 2}) {
			if l.X1 < l.X0 || l.Y1 < l.Y0 {
				t.Errorf("size %v: inverted leaf %+v", s, l)
			}
			for _, v := range []float64{l.X0, l.Y0, l.X1, l.Y1} {
				if math.IsNaN(v) {
					t.Errorf("size %v: NaN bound in %+v", s, l)
				}
			}
		}
	}
}

func TestLayoutDeterministic(t *testing.T) {
	opts := Options{Width: 640, Height: 480, Padding: 2}
	cats := []category.Category{{MarketCap: 5}, {MarketCap: 9}, {MarketCap: 2}, {MarketCap: 7}}
	a, b := Compute(cats, opts), Compute(cats, opts)
	for i := range a {
		if a[i].X0 != b[i].X0 || a[i].Y0 != b[i].Y0 || a[i].X1 != b[i].X1 || a[i].Y1 != b[i].Y1 {
			t.Fatalf("leaf %d differs between runs", i)
		}
	}
}

func TestFill(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want Color
	}{
		{"positive", &Node{Kind: KindLeaf, Category: &category.Category{MarketCapChange24h: 5}}, Green},
		{"zero", &Node{Kind: KindLeaf, Category: &category.Category{}}, Green},
		{"negative", &Node{Kind: KindLeaf, Category: &category.Category{MarketCapChange24h: -0.01}}, Red},
		{"missing", &Node{Kind: KindLeaf, Category: &category.Category{MissingChange: true}}, Gray},
		{"root", Build(scenario()), Gray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.node); got != tt.want {
				t.Errorf("Fill() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHitTest(t *testing.T) {
	leaves := Compute(scenario(), Options{Width: 300, Height: 200, Padding: 2})
	tests := []struct {
		name string
		x, y float64
		want int
	}{
		{"defi center", 100, 100, 0},
		{"meme center", 250, 100, 1},
		{"edge padding", 0.5, 0.5, -1},
		{"gap", 199.667, 100, -1},
		{"outside", 400, 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(leaves, tt.x, tt.y); got != tt.want {
				t.Errorf("HitTest(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestColorRGB(t *testing.T) {
	if r, g, b := Green.RGB(); r != 0 || g != 0x80 || b != 0 {
		t.Errorf("Green.RGB() = %d,%d,%d", r, g, b)
	}
	if r, _, _ := Red.RGB(); r != 0xff {
		t.Errorf("Red.RGB() r = %d", r)
	}
}
