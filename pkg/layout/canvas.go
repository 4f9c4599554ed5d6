package layout

import (
	"image"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// NoOwner marks an owner cell no word has claimed.
const NoOwner = -1

// Canvas is the occupancy state of a pass: the fine RGBA image and the
// coarse owner grid of ⌈W/4⌉×⌈H/4⌉ cells.
type Canvas struct {
	img    *image.NRGBA
	owners []int
	exact  []bool
	cols   int
	rows   int
}

// NewCanvas returns a fully transparent canvas with no owners.
func NewCanvas(width, height int) *Canvas {
	cols := (width + CellSize - 1) / CellSize
	rows := (height + CellSize - 1) / CellSize
	c := &Canvas{
		img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
		owners: make([]int, cols*rows),
		exact:  make([]bool, cols*rows),
		cols:   cols,
		rows:   rows,
	}
	for i := range c.owners {
		c.owners[i] = NoOwner
	}
	return c
}

// RestoreCanvas rebuilds a canvas from a rendered image and its owner grid.
func RestoreCanvas(img *image.NRGBA, owners []int) (*Canvas, error) {
	b := img.Bounds()
	if !b.Min.Eq(image.Point{}) {
		img = translate(img)
		b = img.Bounds()
	}
	cols := (b.Dx() + CellSize - 1) / CellSize
	rows := (b.Dy() + CellSize - 1) / CellSize
	if len(owners) != cols*rows {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"owner grid has %d cells, want %d for a %dx%d canvas", len(owners), cols*rows, b.Dx(), b.Dy())
	}
	return &Canvas{
		img:    img,
		owners: append([]int(nil), owners...),
		exact:  make([]bool, len(owners)),
		cols:   cols,
		rows:   rows,
	}, nil
}

func translate(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return dst
}

// Image returns the canvas image. Callers must not modify it.
func (c *Canvas) Image() *image.NRGBA { return c.img }

// Owners returns a copy of the owner grid in row-major order.
func (c *Canvas) Owners() []int { return append([]int(nil), c.owners...) }

// GridSize returns the owner grid dimensions.
func (c *Canvas) GridSize() (cols, rows int) { return c.cols, c.rows }

func (c *Canvas) owner(cx, cy int) int {
	if cx < 0 || cy < 0 || cx >= c.cols || cy >= c.rows {
		return NoOwner
	}
	return c.owners[cy*c.cols+cx]
}

// claimedNear reports whether any cell of the 2×2 block at (cx, cy) is owned.
// Cells outside the grid count as empty.
func (c *Canvas) claimedNear(cx, cy int) bool {
	return c.owner(cx, cy) != NoOwner || c.owner(cx+1, cy) != NoOwner ||
		c.owner(cx, cy+1) != NoOwner || c.owner(cx+1, cy+1) != NoOwner
}

// Collides reports whether the glyph indexed by idx, with its mask's top-left
// corner at pt, would leave the canvas or touch an occupied pixel. Fine
// pixels are only inspected for cells near owned grid cells.
func (c *Canvas) Collides(pt image.Point, idx *CoarseIndex) bool {
	bounds := c.img.Bounds()
	if !idx.Bounds.Add(pt).In(bounds) {
		return true
	}
	ox, oy := floorDiv(pt.X, CellSize), floorDiv(pt.Y, CellSize)
	for _, cell := range idx.Cells {
		if !c.claimedNear(cell.X+ox, cell.Y+oy) {
			continue
		}
		for _, p := range cell.Pixels {
			q := p.Add(pt)
			if !q.In(bounds) {
				return true
			}
			if c.img.Pix[c.img.PixOffset(q.X, q.Y)+3] != 0 {
				return true
			}
		}
	}
	return false
}

// CollisionCount probes pt and the four points two pixels away on each axis
// and returns how many of them collide.
func (c *Canvas) CollisionCount(pt image.Point, idx *CoarseIndex) int {
	n := 0
	for _, d := range probes {
		if c.Collides(pt.Add(d), idx) {
			n++
		}
	}
	return n
}

var probes = [...]image.Point{{0, 0}, {-2, 0}, {2, 0}, {0, -2}, {0, 2}}

// Commit copies the covered pixels of mask onto the canvas at pt and claims
// owner cells for word. A cell holding one of the word's pixels is claimed
// unless another word's pixels already claimed it; the rest of each 2×2 block
// is claimed only while empty.
func (c *Canvas) Commit(pt image.Point, mask *image.NRGBA, idx *CoarseIndex, word int) {
	bounds := c.img.Bounds()
	mb := mask.Bounds()
	for _, cell := range idx.Cells {
		for _, p := range cell.Pixels {
			q := p.Add(pt)
			if !q.In(bounds) {
				continue
			}
			c.img.SetNRGBA(q.X, q.Y, mask.NRGBAAt(mb.Min.X+p.X, mb.Min.Y+p.Y))
			c.claim(q.X/CellSize, q.Y/CellSize, word, true)
		}
	}
	ox, oy := floorDiv(pt.X, CellSize), floorDiv(pt.Y, CellSize)
	for _, cell := range idx.Cells {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				c.claim(cell.X+ox+dx, cell.Y+oy+dy, word, false)
			}
		}
	}
}

func (c *Canvas) claim(cx, cy, word int, exact bool) {
	if cx < 0 || cy < 0 || cx >= c.cols || cy >= c.rows {
		return
	}
	i := cy*c.cols + cx
	switch {
	case exact && !c.exact[i]:
		c.owners[i] = word
		c.exact[i] = true
	case !exact && c.owners[i] == NoOwner:
		c.owners[i] = word
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
