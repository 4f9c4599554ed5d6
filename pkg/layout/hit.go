package layout

import "github.com/matzehuels/wordcloud/pkg/words"

// Lookup returns the owner of the coarse cell containing (x, y). Points
// outside the canvas and unclaimed cells report false. Resolution is one
// cell, so a point in the empty margin next to a word may resolve to it.
func (c *Canvas) Lookup(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= c.img.Bounds().Dx() || y >= c.img.Bounds().Dy() {
		return NoOwner, false
	}
	w := c.owners[(y/CellSize)*c.cols+x/CellSize]
	return w, w != NoOwner
}

// Lookup returns the entry index under canvas point (x, y).
func (r *Result) Lookup(x, y int) (int, bool) {
	return r.Canvas.Lookup(x, y)
}

// EntryAt returns the entry under canvas point (x, y).
func (r *Result) EntryAt(x, y int) (words.Entry, bool) {
	i, ok := r.Lookup(x, y)
	if !ok || i >= len(r.Entries) {
		return words.Entry{}, false
	}
	return r.Entries[i], true
}
