package layout

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// blockRenderer draws every word as a solid rectangle, len(word)*0.6*size
// wide and size tall, centered in a square padded by 1.2.
type blockRenderer struct {
	fail string
}

func (b blockRenderer) dims(text string, size, angle float64) (w, h int) {
	w = int(math.Ceil(float64(len(text)) * size * 0.6))
	h = int(math.Ceil(size))
	if math.Abs(math.Mod(angle, 180)) >= 45 {
		w, h = h, w
	}
	return w, h
}

func (b blockRenderer) Render(text string, size, angle float64, fg color.NRGBA) (*image.NRGBA, error) {
	if text == b.fail && text != "" {
		return nil, errors.New(errors.ErrCodeRender, "cannot draw %q", text)
	}
	if text == "" {
		return image.NewNRGBA(image.Rectangle{}), nil
	}
	w, h := b.dims(text, size, angle)
	side := int(math.Ceil(float64(max(w, h)) * 1.2))
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	c := fg
	c.A = max(1, fg.A)
	x0, y0 := (side-w)/2, (side-h)/2
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img, nil
}

func (b blockRenderer) Measure(text string, size float64) float64 {
	return float64(len(text)) * size * 0.6
}

func sampleEntries(n int) []words.Entry {
	entries := make([]words.Entry, n)
	for i := range entries {
		entries[i] = words.Entry{
			Word:       fmt.Sprintf("w%0*d", 1+i%5, i),
			SizeValue:  float64(n - i),
			ColorValue: float64(i % 7),
		}
	}
	return entries
}

func covered(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func maskArea(t *testing.T, r blockRenderer, p Placement) int {
	t.Helper()
	w, h := r.dims(p.Word, p.FontSize, p.Angle)
	return w * h
}

func build(t *testing.T, entries []words.Entry, cfg Config) *Result {
	t.Helper()
	res, err := Build(entries, cfg, blockRenderer{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return res
}

func TestBuildFewerThanTwoEntries(t *testing.T) {
	for _, entries := range [][]words.Entry{nil, {{Word: "solo", SizeValue: 10}}} {
		res := build(t, entries, DefaultConfig(200, 100))
		if len(res.Placements) != 0 || len(res.Unplaced) != 0 {
			t.Errorf("%d entries: got %d placements, %d unplaced", len(entries), len(res.Placements), len(res.Unplaced))
		}
		if n := covered(res.Image()); n != 0 {
			t.Errorf("%d entries: %d covered pixels, want 0", len(entries), n)
		}
		for _, o := range res.Canvas.Owners() {
			if o != NoOwner {
				t.Fatalf("%d entries: owner grid not empty", len(entries))
			}
		}
		if res.Image().Bounds() != image.Rect(0, 0, 200, 100) {
			t.Errorf("canvas bounds = %v", res.Image().Bounds())
		}
	}
}

func TestBuildNoOverlap(t *testing.T) {
	for _, tt := range []struct {
		name string
		cfg  func(*Config)
	}{
		{"defaults", func(*Config) {}},
		{"skip", func(c *Config) { c.Exhaustion = ExhaustSkip }},
		{"transparent", func(c *Config) { c.FromAlpha, c.ToAlpha = 0, 0 }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(300, 200)
			tt.cfg(&cfg)
			res := build(t, sampleEntries(40), cfg)
			if len(res.Placements) < 2 {
				t.Fatalf("only %d placements", len(res.Placements))
			}
			want := 0
			for _, p := range res.Placements {
				want += maskArea(t, blockRenderer{}, p)
			}
			// Overlap would make the canvas cover fewer pixels than the masks.
			if got := covered(res.Image()); got != want {
				t.Errorf("canvas covers %d pixels, masks cover %d", got, want)
			}
		})
	}
}

func TestBuildAlphaOneCountsAsOccupied(t *testing.T) {
	cfg := DefaultConfig(300, 200)
	cfg.FromAlpha, cfg.ToAlpha = 0, 0
	res := build(t, sampleEntries(20), cfg)
	for i := 3; i < len(res.Image().Pix); i += 4 {
		if a := res.Image().Pix[i]; a > 1 {
			t.Fatalf("alpha %d on a canvas painted transparent", a)
		}
	}
	if covered(res.Image()) == 0 {
		t.Fatal("no occupied pixels")
	}
}

func TestBuildPriority(t *testing.T) {
	entries := sampleEntries(60)
	// Shuffle sizes so input order differs from rank order.
	for i := range entries {
		entries[i].SizeValue = float64((i * 37) % 61)
	}
	cfg := DefaultConfig(200, 150)
	res := build(t, entries, cfg)

	for k := 1; k < len(res.Order); k++ {
		if entries[res.Order[k-1]].SizeValue < entries[res.Order[k]].SizeValue {
			t.Fatalf("order not descending at %d", k)
		}
	}

	// Placements follow rank order.
	pos := make(map[int]int, len(res.Order))
	for k, i := range res.Order {
		pos[i] = k
	}
	for k := 1; k < len(res.Placements); k++ {
		if pos[res.Placements[k-1].Index] >= pos[res.Placements[k].Index] {
			t.Fatalf("placement %d out of rank order", k)
		}
	}

	// With the stop policy, unplaced words are a suffix of the order.
	if n := len(res.Unplaced); n > 0 {
		if !slices.Equal(res.Unplaced, res.Order[len(res.Order)-n:]) {
			t.Errorf("unplaced %v is not the tail of order %v", res.Unplaced, res.Order)
		}
	}
}

func TestBuildMaxWords(t *testing.T) {
	cfg := DefaultConfig(400, 300)
	cfg.MaxWords = 5
	res := build(t, sampleEntries(20), cfg)
	if len(res.Order) != 5 {
		t.Fatalf("order has %d entries, want 5", len(res.Order))
	}
	for _, p := range res.Placements {
		if p.Index >= 5 {
			t.Errorf("entry %d beyond the cap was placed", p.Index)
		}
	}
}

func TestBuildHitTest(t *testing.T) {
	res := build(t, sampleEntries(30), DefaultConfig(300, 200))
	r := blockRenderer{}

	for _, p := range res.Placements {
		w, h := r.dims(p.Word, p.FontSize, p.Angle)
		side := p.Width
		cx := p.X + (side-w)/2 + w/2
		cy := p.Y + (side-h)/2 + h/2
		got, ok := res.Lookup(cx, cy)
		if !ok || got != p.Index {
			t.Errorf("Lookup at center of %q = (%d, %v), want %d", p.Word, got, ok, p.Index)
		}
		if e, ok := res.EntryAt(cx, cy); !ok || e.Word != p.Word {
			t.Errorf("EntryAt at center of %q = %q", p.Word, e.Word)
		}
	}

	// A cell far from every covered pixel resolves to nothing.
	img := res.Image()
	cols, rows := res.Canvas.GridSize()
	occupied := func(cx, cy int) bool {
		for y := cy * CellSize; y < (cy+1)*CellSize; y++ {
			for x := cx * CellSize; x < (cx+1)*CellSize; x++ {
				if image.Pt(x, y).In(img.Bounds()) && img.NRGBAAt(x, y).A != 0 {
					return true
				}
			}
		}
		return false
	}
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			near := false
			for dy := -1; dy <= 1 && !near; dy++ {
				for dx := -1; dx <= 1 && !near; dx++ {
					near = occupied(cx+dx, cy+dy)
				}
			}
			if near {
				continue
			}
			if w, ok := res.Lookup(cx*CellSize, cy*CellSize); ok {
				t.Fatalf("empty cell (%d,%d) owned by %d", cx, cy, w)
			}
		}
	}

	for _, pt := range []image.Point{{-1, 0}, {0, -1}, {300, 0}, {0, 200}} {
		if _, ok := res.Lookup(pt.X, pt.Y); ok {
			t.Errorf("Lookup%v outside the canvas reported a word", pt)
		}
	}
}

func TestBuildRangeCollapse(t *testing.T) {
	entries := []words.Entry{
		{Word: "aa", SizeValue: 3, ColorValue: 2},
		{Word: "bbb", SizeValue: 3, ColorValue: 2},
		{Word: "cccc", SizeValue: 3, ColorValue: 2},
	}
	cfg := DefaultConfig(400, 300)
	res := build(t, entries, cfg)
	if len(res.Placements) != 3 {
		t.Fatalf("placed %d words, want 3", len(res.Placements))
	}
	for _, p := range res.Placements {
		if p.FontSize != cfg.MinFontSize {
			t.Errorf("%q font size = %v, want %v", p.Word, p.FontSize, cfg.MinFontSize)
		}
		if p.Angle != 0 {
			t.Errorf("%q angle = %v, want 0", p.Word, p.Angle)
		}
		if p.Color.A != cfg.ToAlpha {
			t.Errorf("%q alpha = %d, want %d", p.Word, p.Color.A, cfg.ToAlpha)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	cfg := DefaultConfig(300, 200)
	a := build(t, sampleEntries(30), cfg)
	b := build(t, sampleEntries(30), cfg)
	if !slices.Equal(a.Image().Pix, b.Image().Pix) {
		t.Error("images differ between identical passes")
	}
	if !slices.Equal(a.Placements, b.Placements) {
		t.Error("placements differ between identical passes")
	}
	if !slices.Equal(a.Canvas.Owners(), b.Canvas.Owners()) {
		t.Error("owner grids differ between identical passes")
	}
}

func TestBuildExhaustion(t *testing.T) {
	entries := []words.Entry{
		{Word: "an-unreasonably-long-word-here", SizeValue: 10},
		{Word: "hi", SizeValue: 9},
		{Word: "yo", SizeValue: 8},
	}
	cfg := DefaultConfig(100, 100)
	cfg.MinFontSize = 10

	res := build(t, entries, cfg)
	if len(res.Placements) != 0 {
		t.Errorf("stop: placed %d words, want 0", len(res.Placements))
	}
	if !slices.Equal(res.Unplaced, []int{0, 1, 2}) {
		t.Errorf("stop: unplaced = %v, want [0 1 2]", res.Unplaced)
	}

	cfg.Exhaustion = ExhaustSkip
	res = build(t, entries, cfg)
	if !slices.Equal(res.Unplaced, []int{0}) {
		t.Errorf("skip: unplaced = %v, want [0]", res.Unplaced)
	}
	if len(res.Placements) != 2 {
		t.Errorf("skip: placed %d words, want 2", len(res.Placements))
	}
}

// sizeRecorder remembers the largest size it was asked to render.
type sizeRecorder struct {
	blockRenderer
	largest *float64
}

func (r sizeRecorder) Render(text string, size, angle float64, fg color.NRGBA) (*image.NRGBA, error) {
	*r.largest = math.Max(*r.largest, size)
	return r.blockRenderer.Render(text, size, angle, fg)
}

func TestBuildOversizedWord(t *testing.T) {
	entries := []words.Entry{
		{Word: "a", SizeValue: 10},
		{Word: "b", SizeValue: 1},
	}
	cfg := DefaultConfig(100, 100)
	cfg.LargestSizeWidthProportion = 1000
	diag := math.Hypot(100, 100)

	for _, tt := range []struct {
		policy   Exhaustion
		unplaced []int
		placed   int
	}{
		{ExhaustStop, []int{0, 1}, 0},
		{ExhaustSkip, []int{0}, 1},
	} {
		t.Run(string(tt.policy), func(t *testing.T) {
			cfg.Exhaustion = tt.policy
			var largest float64
			res, err := Build(entries, cfg, sizeRecorder{largest: &largest})
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if largest > diag {
				t.Errorf("rendered at %vpt, larger than the canvas diagonal %v", largest, diag)
			}
			if !slices.Equal(res.Unplaced, tt.unplaced) {
				t.Errorf("unplaced = %v, want %v", res.Unplaced, tt.unplaced)
			}
			if len(res.Placements) != tt.placed {
				t.Errorf("placed %d words, want %d", len(res.Placements), tt.placed)
			}
		})
	}
}

func TestBuildSkipsEmptyMasks(t *testing.T) {
	entries := []words.Entry{
		{Word: "big", SizeValue: 10},
		{Word: "", SizeValue: 8},
		{Word: "small", SizeValue: 5},
	}
	res := build(t, entries, DefaultConfig(300, 200))
	if !slices.Equal(res.Skipped, []int{1}) {
		t.Errorf("skipped = %v, want [1]", res.Skipped)
	}
	if len(res.Placements) != 2 {
		t.Errorf("placed %d words, want 2", len(res.Placements))
	}
}

func TestBuildSelected(t *testing.T) {
	cfg := DefaultConfig(300, 200)
	cfg.LargestSizeWidthProportion = 0.2
	cfg.Selected = []int{1}
	cfg.SelectedColor = words.MustHex("#ff000080")
	res := build(t, sampleEntries(4), cfg)
	p, ok := res.Placement(1)
	if !ok {
		t.Fatal("selected entry not placed")
	}
	if !p.Selected {
		t.Error("placement not marked selected")
	}
	want := words.Hex{R: 0xff, A: 0x80}
	if p.Color != want {
		t.Errorf("selected color = %v, want %v", p.Color, want)
	}
	if other, _ := res.Placement(0); other.Selected {
		t.Error("unselected entry marked selected")
	}
}

func TestBuildErrors(t *testing.T) {
	entries := sampleEntries(3)

	cfg := DefaultConfig(0, 10)
	if _, err := Build(entries, cfg, blockRenderer{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero width: error = %v, want INVALID_INPUT", err)
	}

	cfg = DefaultConfig(100, 100)
	cfg.Selected = []int{9}
	if _, err := Build(entries, cfg, blockRenderer{}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("selected out of range: error = %v, want INVALID_CONFIG", err)
	}

	cfg = DefaultConfig(300, 200)
	if _, err := Build(entries, cfg, blockRenderer{fail: entries[1].Word}); !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("renderer failure: error = %v, want RENDER_FAILED", err)
	}

	bad := []words.Entry{{Word: "a", SizeValue: math.NaN()}, {Word: "b", SizeValue: 1}}
	if _, err := Build(bad, cfg, blockRenderer{}); err == nil {
		t.Error("NaN size accepted")
	}
}

func TestSpiralOffset(t *testing.T) {
	tests := []struct {
		pos  float64
		want image.Point
	}{
		{0, image.Pt(0, 0)},
		{2 * math.Pi, image.Pt(0, 7)},
		{4*math.Pi + math.Pi/2, image.Pt(15, 0)},
		{20*math.Pi + math.Pi, image.Pt(0, -73)},
	}
	for _, tt := range tests {
		if got := spiralOffset(tt.pos); got != tt.want {
			t.Errorf("spiralOffset(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}
