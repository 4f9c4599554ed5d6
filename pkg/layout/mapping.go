package layout

import (
	"image/color"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/wordcloud/pkg/words"
)

const (
	// referenceGlyph is measured at referenceSize to estimate letter width.
	referenceGlyph = "x"
	referenceSize  = 100.0

	// minFontSpread keeps the largest word at least this many times the
	// minimum font size.
	minFontSpread = 2.7

	// maxMultiplier caps points per unit of size.
	maxMultiplier = 200.0

	// colorGate and angleGate are the spans below which a dimension is
	// treated as constant.
	colorGate = 0.01
	angleGate = 0.01
)

// Scale maps entry attributes to font size, paint and rotation.
type Scale struct {
	Ranges      Ranges
	MinFontSize float64
	Multiplier  float64

	from, to      uint8
	defaultColor  words.Hex
	selectedColor words.Hex
	selected      map[int]bool
}

// calibrate derives the font multiplier from one measurement of the
// reference glyph. Only entries in order are considered.
func calibrate(entries []words.Entry, order []int, cfg Config, r Ranges, measure func(string, float64) float64) Scale {
	s := Scale{
		Ranges:        r,
		MinFontSize:   cfg.MinFontSize,
		Multiplier:    maxMultiplier,
		from:          cfg.FromAlpha,
		to:            cfg.ToAlpha,
		defaultColor:  cfg.DefaultColor,
		selectedColor: cfg.SelectedColor,
		selected:      make(map[int]bool, len(cfg.Selected)),
	}
	for _, i := range cfg.Selected {
		s.selected[i] = true
	}

	perLetter := measure(referenceGlyph, referenceSize) / r.SizeRange
	target := float64(cfg.Width) * cfg.LargestSizeWidthProportion

	widest := 0.0
	for _, i := range order {
		e := entries[i]
		widest = math.Max(widest, (e.SizeValue-r.MinSize)*float64(utf8.RuneCountInString(e.Word)))
	}

	extent := widest * perLetter
	if extent <= 0 || math.IsNaN(extent) {
		return s
	}
	maxFont := math.Max(cfg.MinFontSize*minFontSpread, referenceSize/(extent/target))
	s.Multiplier = math.Min((maxFont-cfg.MinFontSize)/r.SizeRange, maxMultiplier)
	return s
}

// FontSize returns the point size for a SizeValue, never below MinFontSize.
func (s Scale) FontSize(size float64) float64 {
	return math.Max((size-s.Ranges.MinSize)*s.Multiplier+s.MinFontSize, s.MinFontSize)
}

// ColorValue returns the normalized color value of entry i, or -1 when the
// entry is selected.
func (s Scale) ColorValue(i int, e words.Entry) float64 {
	if s.selected[i] {
		return -1
	}
	if s.Ranges.ColorRange < colorGate {
		return 1
	}
	return (e.ColorValue - s.Ranges.MinColor) / s.Ranges.ColorRange
}

// Alpha interpolates between FromAlpha and ToAlpha, truncating the
// interpolated step.
func (s Scale) Alpha(v float64) uint8 {
	a := float64(s.from) + math.Trunc(v*(float64(s.to)-float64(s.from)))
	return uint8(math.Min(math.Max(a, 0), 255))
}

// Angle returns the rotation of an entry in degrees. Without a center the
// result runs from -90 to 0; with one it is symmetric around 0. A span
// below angleGate maps every entry to 0.
func (s Scale) Angle(e words.Entry) float64 {
	r := s.Ranges
	if r.AngleRange < angleGate {
		return 0
	}
	if c := r.AngleCenter; c != nil {
		return 90 * (e.Angle - *c) / r.AngleRange
	}
	return -90 + (e.Angle-r.MinAngle)/r.AngleRange*90
}

// Paint returns the glyph color for entry i. Selected entries take
// SelectedColor as is.
func (s Scale) Paint(i int, e words.Entry) color.NRGBA {
	v := s.ColorValue(i, e)
	if v < 0 {
		return s.selectedColor.NRGBA()
	}
	base := s.defaultColor
	if !e.Color.IsZero() {
		base = e.Color
	}
	c := base.NRGBA()
	c.A = s.Alpha(v)
	return c
}
