package layout

import "image"

// CellSize is the side of a coarse cell in pixels.
const CellSize = 4

// Cell lists the covered pixels of one coarse cell, relative to the mask's
// top-left corner.
type Cell struct {
	X, Y   int
	Pixels []image.Point
}

// CoarseIndex buckets the covered pixels of a glyph mask by coarse cell.
// Cells appear in row-major order of their first pixel and never repeat.
type CoarseIndex struct {
	Cells []Cell

	// Bounds is the bounding box of the covered pixels, mask-relative.
	Bounds image.Rectangle
}

// NewCoarseIndex indexes every pixel of mask with non-zero alpha.
func NewCoarseIndex(mask *image.NRGBA) *CoarseIndex {
	idx := &CoarseIndex{}
	b := mask.Bounds()
	slot := make(map[image.Point]int)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.Pix[mask.PixOffset(x, y)+3] == 0 {
				continue
			}
			p := image.Pt(x-b.Min.X, y-b.Min.Y)
			key := image.Pt(p.X/CellSize, p.Y/CellSize)
			i, ok := slot[key]
			if !ok {
				i = len(idx.Cells)
				slot[key] = i
				idx.Cells = append(idx.Cells, Cell{X: key.X, Y: key.Y})
			}
			idx.Cells[i].Pixels = append(idx.Cells[i].Pixels, p)
			idx.Bounds = idx.Bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
		}
	}
	return idx
}

// Empty reports whether the mask had no covered pixels.
func (c *CoarseIndex) Empty() bool { return len(c.Cells) == 0 }

// Len returns the number of covered pixels.
func (c *CoarseIndex) Len() int {
	n := 0
	for _, cell := range c.Cells {
		n += len(cell.Pixels)
	}
	return n
}
