package layout

import (
	"image"
	"image/color"
	"slices"
	"testing"
)

func solidMask(side int, r image.Rectangle) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: 9, A: 0xff})
		}
	}
	return m
}

func TestCoarseIndex(t *testing.T) {
	m := solidMask(12, image.Rect(2, 3, 7, 5))
	idx := NewCoarseIndex(m)
	if got, want := idx.Bounds, image.Rect(2, 3, 7, 5); got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
	if idx.Len() != 10 {
		t.Errorf("Len = %d, want 10", idx.Len())
	}
	var cells []image.Point
	for _, c := range idx.Cells {
		cells = append(cells, image.Pt(c.X, c.Y))
	}
	want := []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if !slices.Equal(cells, want) {
		t.Errorf("cells = %v, want %v", cells, want)
	}

	if !NewCoarseIndex(image.NewNRGBA(image.Rect(0, 0, 8, 8))).Empty() {
		t.Error("blank mask should index no cells")
	}
}

func TestCanvasCollides(t *testing.T) {
	c := NewCanvas(40, 40)
	m := solidMask(8, image.Rect(2, 2, 6, 6))
	idx := NewCoarseIndex(m)

	tests := []struct {
		name string
		pt   image.Point
		want bool
	}{
		{"inside", image.Pt(10, 10), false},
		{"blank margin outside", image.Pt(-2, -2), false},
		{"ink left of canvas", image.Pt(-3, 10), true},
		{"ink below canvas", image.Pt(10, 35), true},
		{"ink right edge", image.Pt(34, 10), false},
		{"ink past right edge", image.Pt(35, 10), true},
	}
	for _, tt := range tests {
		if got := c.Collides(tt.pt, idx); got != tt.want {
			t.Errorf("%s: Collides(%v) = %v, want %v", tt.name, tt.pt, got, tt.want)
		}
	}

	c.Commit(image.Pt(10, 10), m, idx, 0)
	if !c.Collides(image.Pt(10, 10), idx) {
		t.Error("same position collides after commit")
	}
	if !c.Collides(image.Pt(13, 13), idx) {
		t.Error("partially overlapping position should collide")
	}
	if c.Collides(image.Pt(14, 10), idx) {
		t.Error("adjacent position should not collide")
	}
	if n := c.CollisionCount(image.Pt(14, 10), idx); n != 1 {
		t.Errorf("CollisionCount next to a word = %d, want 1", n)
	}
	if n := c.CollisionCount(image.Pt(10, 10), idx); n != 5 {
		t.Errorf("CollisionCount on a word = %d, want 5", n)
	}
}

func TestCanvasAlphaOneOccupies(t *testing.T) {
	c := NewCanvas(20, 20)
	m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	m.SetNRGBA(1, 1, color.NRGBA{A: 1})
	idx := NewCoarseIndex(m)
	c.Commit(image.Pt(4, 4), m, idx, 3)
	if !c.Collides(image.Pt(4, 4), idx) {
		t.Error("pixel with alpha 1 should count as occupied")
	}
	if got := c.Image().NRGBAAt(5, 5).A; got != 1 {
		t.Errorf("committed alpha = %d, want 1", got)
	}
}

func TestCanvasOwners(t *testing.T) {
	c := NewCanvas(16, 16)
	m := solidMask(4, image.Rect(0, 0, 4, 4))
	idx := NewCoarseIndex(m)

	// Aligned at cell (1,1): exact claim there, 2×2 block over-marked.
	c.Commit(image.Pt(4, 4), m, idx, 7)
	want := []int{
		-1, -1, -1, -1,
		-1, 7, 7, -1,
		-1, 7, 7, -1,
		-1, -1, -1, -1,
	}
	if got := c.Owners(); !slices.Equal(got, want) {
		t.Fatalf("owners = %v, want %v", got, want)
	}

	// A second word whose pixels land in an over-marked cell takes it over.
	c.Commit(image.Pt(8, 8), m, idx, 9)
	if w, _ := c.Lookup(9, 9); w != 9 {
		t.Errorf("cell (2,2) owner = %d, want 9", w)
	}
	if w, _ := c.Lookup(5, 5); w != 7 {
		t.Errorf("cell (1,1) owner = %d, want 7", w)
	}
	if w, _ := c.Lookup(12, 12); w != 9 {
		t.Errorf("cell (3,3) owner = %d, want 9", w)
	}
	if w, _ := c.Lookup(9, 5); w != 7 {
		t.Errorf("over-marked cell (2,1) owner = %d, want 7", w)
	}
	if _, ok := c.Lookup(1, 1); ok {
		t.Error("untouched cell reported an owner")
	}
}

func TestRestoreCanvas(t *testing.T) {
	c := NewCanvas(10, 6)
	m := solidMask(4, image.Rect(0, 0, 3, 3))
	c.Commit(image.Pt(1, 1), m, NewCoarseIndex(m), 2)

	r, err := RestoreCanvas(c.Image(), c.Owners())
	if err != nil {
		t.Fatalf("RestoreCanvas() error: %v", err)
	}
	if cols, rows := r.GridSize(); cols != 3 || rows != 2 {
		t.Errorf("grid = %dx%d, want 3x2", cols, rows)
	}
	if w, ok := r.Lookup(2, 2); !ok || w != 2 {
		t.Errorf("Lookup after restore = (%d, %v), want (2, true)", w, ok)
	}

	if _, err := RestoreCanvas(c.Image(), []int{1, 2}); err == nil {
		t.Error("mismatched owner grid accepted")
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, want int }{
		{0, 0}, {3, 0}, {4, 1}, {-1, -1}, {-4, -1}, {-5, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, 4); got != tt.want {
			t.Errorf("floorDiv(%d, 4) = %d, want %d", tt.a, got, tt.want)
		}
	}
}
