package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/words"
)

const defaultFontFamily = "Go, Helvetica, Arial, sans-serif"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fontFamily string
	background words.Hex
}

// WithFontFamily sets the CSS font-family of the text elements.
func WithFontFamily(f string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = f }
}

// WithSVGBackground fills the viewport with a solid color.
func WithSVGBackground(c words.Hex) SVGOption {
	return func(r *svgRenderer) { r.background = c }
}

// RenderSVG renders one text element per placement. Words are centered on
// their mask and rotated about its center.
func RenderSVG(res *layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{fontFamily: defaultFontFamily}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		res.Width, res.Height, res.Width, res.Height)
	if bg := r.background.NRGBA(); !r.background.IsZero() {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="#%02x%02x%02x" fill-opacity="%.3f"/>`+"\n",
			bg.R, bg.G, bg.B, float64(bg.A)/255)
	}
	fmt.Fprintf(&buf, `  <g font-family="%s" text-anchor="middle" dominant-baseline="central">`+"\n", escapeXML(r.fontFamily))
	for _, p := range res.Placements {
		renderWord(&buf, p)
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderWord(buf *bytes.Buffer, p layout.Placement) {
	cx := float64(p.X) + float64(p.Width)/2
	cy := float64(p.Y) + float64(p.Height)/2
	fill := p.Color.NRGBA()
	fmt.Fprintf(buf, `    <text data-index="%d" x="%.1f" y="%.1f" font-size="%.2f" fill="#%02x%02x%02x" fill-opacity="%.3f"`,
		p.Index, cx, cy, p.FontSize, fill.R, fill.G, fill.B, float64(fill.A)/255)
	if p.Angle != 0 {
		fmt.Fprintf(buf, ` transform="rotate(%.2f %.1f %.1f)"`, p.Angle, cx, cy)
	}
	fmt.Fprintf(buf, ">%s</text>\n", escapeXML(p.Word))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
