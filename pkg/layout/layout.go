package layout

import (
	"image"
	"image/color"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// GlyphRenderer rasterizes words. Render must return a mask whose covered
// pixels have non-zero alpha regardless of fg, and an empty image for empty
// text. Measure returns the advance width of text in pixels.
type GlyphRenderer interface {
	Render(text string, size, angle float64, fg color.NRGBA) (*image.NRGBA, error)
	Measure(text string, size float64) float64
}

// Placement describes one committed word.
type Placement struct {
	Index    int       `json:"index"`
	Word     string    `json:"word"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	FontSize float64   `json:"font_size"`
	Angle    float64   `json:"angle"`
	Color    words.Hex `json:"color"`
	Anchor   int       `json:"anchor"`
	Selected bool      `json:"selected,omitempty"`
}

// Bounds returns the rectangle of the placed mask on the canvas.
func (p Placement) Bounds() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Result is the outcome of a layout pass.
type Result struct {
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Entries []words.Entry `json:"entries"`

	// Order holds the attempted entry indices, largest first.
	Order []int `json:"order"`

	// Placements are in commit order.
	Placements []Placement `json:"placements"`

	// Unplaced holds indices of words that found no free position, or that
	// were never attempted because the pass stopped.
	Unplaced []int `json:"unplaced,omitempty"`

	// Skipped holds indices of words whose mask covered no pixels.
	Skipped []int `json:"skipped,omitempty"`

	Ranges Ranges `json:"ranges"`

	Canvas *Canvas `json:"-"`
}

// Image returns the rendered canvas.
func (r *Result) Image() *image.NRGBA { return r.Canvas.Image() }

// Placement returns the placement of entry index.
func (r *Result) Placement(index int) (Placement, bool) {
	for _, p := range r.Placements {
		if p.Index == index {
			return p, true
		}
	}
	return Placement{}, false
}

// Option configures a layout pass.
type Option func(*builder)

// WithLogger sets the logger for per-word diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

type builder struct {
	logger *log.Logger
}

// Build lays out entries on a fresh canvas. Fewer than two entries yield an
// empty result. The first renderer error aborts the pass. A word whose font
// size or advance exceeds the canvas diagonal is not rendered and counts as
// finding no space.
func Build(entries []words.Entry, cfg Config, r GlyphRenderer, opts ...Option) (*Result, error) {
	b := builder{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&b)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := words.Validate(entries); err != nil {
		return nil, err
	}
	for _, i := range cfg.Selected {
		if i < 0 || i >= len(entries) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "selected index %d out of range", i)
		}
	}
	if r == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no glyph renderer")
	}

	res := &Result{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Entries: slices.Clone(entries),
		Canvas:  NewCanvas(cfg.Width, cfg.Height),
	}
	if len(entries) < 2 {
		res.Ranges = normalize(entries, nil, cfg)
		return res, nil
	}

	res.Order = rank(entries, cfg.MaxWords)
	res.Ranges = normalize(entries, res.Order, cfg)
	scale := calibrate(entries, res.Order, cfg, res.Ranges, r.Measure)
	b.logger.Debug("calibrated", "multiplier", scale.Multiplier, "size_range", res.Ranges.SizeRange)

	p := &placer{
		canvas:  res.Canvas,
		anchors: resolveAnchors(cfg.anchors(), cfg.Width, cfg.Height),
	}
	// unplace records entry order[k] as not fitting and reports whether the
	// pass ends there.
	unplace := func(k int) bool {
		if cfg.Exhaustion == ExhaustSkip {
			res.Unplaced = append(res.Unplaced, res.Order[k])
			return false
		}
		for _, j := range res.Order[k:] {
			if entries[j].Word == "" {
				res.Skipped = append(res.Skipped, j)
			} else {
				res.Unplaced = append(res.Unplaced, j)
			}
		}
		return true
	}
	diag := math.Hypot(float64(cfg.Width), float64(cfg.Height))

	for k, i := range res.Order {
		e := entries[i]
		if e.Word == "" {
			res.Skipped = append(res.Skipped, i)
			continue
		}

		size := scale.FontSize(e.SizeValue)
		// Text taller or wider than the canvas diagonal fits at no angle.
		if size > diag || r.Measure(e.Word, size) > diag {
			b.logger.Debug("larger than canvas", "word", e.Word, "size", size)
			if unplace(k) {
				break
			}
			continue
		}
		angle := scale.Angle(e)
		fg := scale.Paint(i, e)
		mask, err := r.Render(e.Word, size, angle, fg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %q", e.Word)
		}
		idx := NewCoarseIndex(mask)
		if idx.Empty() {
			res.Skipped = append(res.Skipped, i)
			continue
		}

		mb := mask.Bounds()
		pt, anchor, ok := p.place(mb.Dx(), mb.Dy(), idx)
		if !ok {
			b.logger.Debug("no space", "word", e.Word, "size", size)
			if unplace(k) {
				break
			}
			continue
		}

		res.Canvas.Commit(pt, mask, idx, i)
		res.Placements = append(res.Placements, Placement{
			Index:    i,
			Word:     e.Word,
			X:        pt.X,
			Y:        pt.Y,
			Width:    mb.Dx(),
			Height:   mb.Dy(),
			FontSize: size,
			Angle:    angle,
			Color:    words.Hex(fg),
			Anchor:   anchor,
			Selected: scale.selected[i],
		})
		b.logger.Debug("placed", "word", e.Word, "x", pt.X, "y", pt.Y, "size", size, "angle", angle)
	}
	return res, nil
}
