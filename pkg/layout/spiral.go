package layout

import (
	"image"
	"math"
)

const (
	// spiralRadius is the radial growth per turn in pixels.
	spiralRadius = 7.0

	// spiralTurns bounds the search around one anchor.
	spiralTurns = 580

	// nearMiss is the probe count at or below which the spiral takes fine steps.
	nearMiss = 2

	fineStep   = 2 * math.Pi / 100
	coarseStep = 2 * math.Pi / 40

	// snapSlack is how far from its anchor a word may sit before snapping.
	snapSlack = 10
	snapStep  = 2
)

// spiralOffset returns the integer offset at spiral parameter pos.
func spiralOffset(pos float64) image.Point {
	r := pos / (2 * math.Pi) * spiralRadius
	sin, cos := math.Sincos(math.Mod(pos, 2*math.Pi))
	return image.Pt(int(r*sin), int(r*cos))
}

// placer searches free positions on a canvas.
type placer struct {
	canvas  *Canvas
	anchors []image.Point
}

// place returns the top-left point for a w×h mask and the index of the anchor
// it was found around. ok is false when every anchor is exhausted.
func (p *placer) place(w, h int, idx *CoarseIndex) (pt image.Point, anchor int, ok bool) {
	half := image.Pt(w/2, h/2)
	limit := 2 * math.Pi * spiralTurns
	for ai, a := range p.anchors {
		for pos := 0.0; pos <= limit; {
			cand := a.Add(spiralOffset(pos)).Sub(half)
			n := p.canvas.CollisionCount(cand, idx)
			if n == 0 {
				return p.snap(cand, a, half, idx), ai, true
			}
			if n <= nearMiss {
				pos += fineStep
			} else {
				pos += coarseStep
			}
		}
	}
	return image.Point{}, -1, false
}

// snap slides a free position back toward its anchor, X first, then Y. When
// the Y slide moved the word, X is retried once.
func (p *placer) snap(pt, anchor, half image.Point, idx *CoarseIndex) image.Point {
	pt = p.slide(pt, anchor, half, idx, false)
	y := pt.Y
	pt = p.slide(pt, anchor, half, idx, true)
	if pt.Y != y {
		pt = p.slide(pt, anchor, half, idx, false)
	}
	return pt
}

// slide moves pt along one axis in 2 pixel steps toward the anchor while the
// word stays collision free, then backs off one step.
func (p *placer) slide(pt, anchor, half image.Point, idx *CoarseIndex, vertical bool) image.Point {
	axis := func(q *image.Point) *int {
		if vertical {
			return &q.Y
		}
		return &q.X
	}
	v, target, off := axis(&pt), *axis(&anchor), *axis(&half)
	if abs(*v+off-target) <= snapSlack {
		return pt
	}
	step := snapStep
	if *v+off > target {
		step = -snapStep
	}
	for {
		*v += step
		c := *v + off
		before := (step > 0 && c < target) || (step < 0 && c > target)
		if !before || p.canvas.CollisionCount(pt, idx) != 0 {
			break
		}
	}
	*v -= step
	return pt
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
