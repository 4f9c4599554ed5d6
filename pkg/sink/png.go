package sink

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	background words.Hex
	scale      int
}

// WithBackground flattens the canvas onto a solid color. The default keeps
// the transparent background.
func WithBackground(c words.Hex) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// WithScale enlarges the image by an integer factor without smoothing.
func WithScale(s int) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG encodes the layout canvas as PNG.
func RenderPNG(res *layout.Result, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "png scale must be at least 1, got %d", r.scale)
	}

	img := raster(res.Image(), r.background, r.scale)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode png")
	}
	return buf.Bytes(), nil
}

func raster(src *image.NRGBA, bg words.Hex, scale int) image.Image {
	var out image.Image = src
	if !bg.IsZero() {
		flat := image.NewNRGBA(src.Bounds())
		draw.Draw(flat, flat.Bounds(), image.NewUniform(bg.NRGBA()), image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), src, src.Bounds().Min, draw.Over)
		out = flat
	}
	if scale == 1 {
		return out
	}
	b := out.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), out, b, draw.Src, nil)
	return dst
}

// decodePNG returns the decoded image as *image.NRGBA.
func decodePNG(data []byte) (*image.NRGBA, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode png")
	}
	if n, ok := img.(*image.NRGBA); ok {
		return n, nil
	}
	b := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
	return n, nil
}
