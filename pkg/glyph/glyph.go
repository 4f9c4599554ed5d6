// Package glyph rasterizes words into square coverage masks for the layout engine.
//
// A [Renderer] draws text with an OpenType font into an alpha buffer, places it
// in the middle of a square whose side is 1.2 times the larger text dimension,
// and rotates it about the square's center. The result is an *image.NRGBA in
// the requested color where every pixel touched by the glyphs has non-zero
// alpha, even when the paint color itself is fully transparent, so occupancy
// never depends on styling.
//
// Renderers are safe for concurrent use; each call builds its own font face.
package glyph

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
)

// Margin is the padding factor applied to the larger text dimension.
const Margin = 1.2

// MaxSide bounds the side of a rendered mask in pixels.
const MaxSide = 2 * errors.MaxCanvasSide

// Renderer rasterizes text with a single font.
type Renderer struct {
	font *opentype.Font
}

// New parses TrueType or OpenType data.
func New(data []byte) (*Renderer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse font")
	}
	return &Renderer{font: f}, nil
}

// Load builds a renderer for a built-in font name or a font file path.
func Load(name string) (*Renderer, error) {
	data, err := fonts.Load(name)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// Default returns a shared renderer using the built-in default font.
var Default = sync.OnceValue(func() *Renderer {
	data, _ := fonts.Builtin(fonts.Default)
	r, err := New(data)
	if err != nil {
		panic(err)
	}
	return r
})

func (r *Renderer) face(size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return nil, errors.New(errors.ErrCodeRender, "invalid font size %v", size)
	}
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "create face at %vpt", size)
	}
	return face, nil
}

// Measure returns the advance width of text at the given size in pixels.
// It returns 0 when the size is unusable.
func (r *Renderer) Measure(text string, size float64) float64 {
	face, err := r.face(size)
	if err != nil {
		return 0
	}
	defer face.Close()
	return fixedToFloat(font.MeasureString(face, text))
}

// Render draws text at size points, rotated clockwise by angle degrees, in fg.
// Empty text yields a 0×0 image.
func (r *Renderer) Render(text string, size, angle float64, fg color.NRGBA) (*image.NRGBA, error) {
	if text == "" {
		return image.NewNRGBA(image.Rectangle{}), nil
	}
	face, err := r.face(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	w := max(font.MeasureString(face, text).Ceil(), 1)
	h := max(ascent+descent, 1)
	side := int(math.Ceil(float64(max(w, h)) * Margin))
	if side > MaxSide {
		return nil, errors.New(errors.ErrCodeRender, "mask for %q at %vpt is %d pixels wide, limit %d", text, size, side, MaxSide)
	}

	cov := image.NewAlpha(image.Rect(0, 0, side, side))
	d := font.Drawer{
		Dst:  cov,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P((side-w)/2, (side-h)/2+ascent),
	}
	d.DrawString(text)

	if math.Mod(angle, 360) != 0 {
		cov = rotate(cov, angle)
	}
	return colorize(cov, fg), nil
}

// rotate turns src clockwise by deg degrees about its center.
func rotate(src *image.Alpha, deg float64) *image.Alpha {
	b := src.Bounds()
	dst := image.NewAlpha(b)
	sin, cos := math.Sincos(deg * math.Pi / 180)
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	m := f64.Aff3{
		cos, -sin, cx - (cos*cx - sin*cy),
		sin, cos, cy - (sin*cx + cos*cy),
	}
	draw.BiLinear.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}

// colorize paints fg through the coverage mask. Covered pixels keep at least
// alpha 1.
func colorize(cov *image.Alpha, fg color.NRGBA) *image.NRGBA {
	b := cov.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := cov.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: fg.R, G: fg.G, B: fg.B,
				A: uint8(max(1, int(a)*int(fg.A)/255)),
			})
		}
	}
	return out
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
