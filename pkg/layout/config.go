package layout

import (
	"image"
	"math"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// Defaults for [Config].
const (
	DefaultWidth                      = 800
	DefaultHeight                     = 600
	DefaultMaxWords                   = 150
	DefaultMinFontSize                = 11.0
	DefaultLargestSizeWidthProportion = 0.5
	DefaultFromAlpha                  = 0x40
	DefaultToAlpha                    = 0xEE
	DefaultMinimumLargestValue        = 6.0
)

var (
	// DefaultColor paints entries whose own color is unset.
	DefaultColor = words.Hex{A: 0xff}

	// DefaultSelectedColor paints selected entries.
	DefaultSelectedColor = words.Hex{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Exhaustion decides what happens when a word fits around no anchor.
type Exhaustion string

const (
	// ExhaustStop ends the pass; the word and all remaining words are unplaced.
	ExhaustStop Exhaustion = "stop"

	// ExhaustSkip leaves only the failing word unplaced and continues.
	ExhaustSkip Exhaustion = "skip"
)

// Anchor is a spiral origin in canvas-relative coordinates, 0..1 on each axis.
type Anchor struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// DefaultAnchors are the canvas center followed by the four quadrant centers.
var DefaultAnchors = []Anchor{
	{0.5, 0.5},
	{0.25, 0.25},
	{0.25, 0.75},
	{0.75, 0.25},
	{0.75, 0.75},
}

// resolveAnchors converts relative anchors into canvas pixels.
func resolveAnchors(anchors []Anchor, width, height int) []image.Point {
	pts := make([]image.Point, len(anchors))
	for i, a := range anchors {
		pts[i] = image.Pt(int(a.X*float64(width)), int(a.Y*float64(height)))
	}
	return pts
}

// Config controls a layout pass. Start from [DefaultConfig]; optional floors
// are nil when unset.
type Config struct {
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`

	// MaxWords caps how many of the largest entries are considered.
	MaxWords int `json:"max_words" toml:"max_words"`

	// MinFontSize is the font size of the smallest word, in points.
	MinFontSize float64 `json:"min_font_size" toml:"min_font_size"`

	// LargestSizeWidthProportion is the share of the canvas width the
	// widest-weighted word is calibrated to.
	LargestSizeWidthProportion float64 `json:"largest_size_width_proportion" toml:"largest_size_width_proportion"`

	FromAlpha uint8 `json:"from_alpha" toml:"from_alpha"`
	ToAlpha   uint8 `json:"to_alpha" toml:"to_alpha"`

	DefaultColor  words.Hex `json:"default_color" toml:"default_color"`
	SelectedColor words.Hex `json:"selected_color" toml:"selected_color"`

	// Selected holds entry indices painted with SelectedColor.
	Selected []int `json:"selected,omitempty" toml:"selected"`

	MinimumValue             *float64 `json:"minimum_value,omitempty" toml:"minimum_value"`
	MinimumLargestValue      float64  `json:"minimum_largest_value" toml:"minimum_largest_value"`
	AngleCenterValue         *float64 `json:"angle_center_value,omitempty" toml:"angle_center_value"`
	MinimumLargestAngleValue *float64 `json:"minimum_largest_angle_value,omitempty" toml:"minimum_largest_angle_value"`
	MaximumLowestAngleValue  *float64 `json:"maximum_lowest_angle_value,omitempty" toml:"maximum_lowest_angle_value"`

	Anchors    []Anchor   `json:"anchors,omitempty" toml:"anchors"`
	Exhaustion Exhaustion `json:"exhaustion,omitempty" toml:"exhaustion"`
}

// DefaultConfig returns the default configuration for a width×height canvas.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:                      width,
		Height:                     height,
		MaxWords:                   DefaultMaxWords,
		MinFontSize:                DefaultMinFontSize,
		LargestSizeWidthProportion: DefaultLargestSizeWidthProportion,
		FromAlpha:                  DefaultFromAlpha,
		ToAlpha:                    DefaultToAlpha,
		DefaultColor:               DefaultColor,
		SelectedColor:              DefaultSelectedColor,
		MinimumLargestValue:        DefaultMinimumLargestValue,
		Anchors:                    DefaultAnchors,
		Exhaustion:                 ExhaustStop,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := errors.ValidateCanvas(c.Width, c.Height); err != nil {
		return err
	}
	if c.MaxWords <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_words must be positive, got %d", c.MaxWords)
	}
	if !(c.MinFontSize > 0) || math.IsInf(c.MinFontSize, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "min_font_size must be positive, got %v", c.MinFontSize)
	}
	if c.MinFontSize > errors.MaxFontSize {
		return errors.New(errors.ErrCodeInvalidConfig, "min_font_size %v exceeds %d", c.MinFontSize, errors.MaxFontSize)
	}
	if !(c.LargestSizeWidthProportion > 0) || math.IsInf(c.LargestSizeWidthProportion, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "largest_size_width_proportion must be positive, got %v", c.LargestSizeWidthProportion)
	}
	if math.IsNaN(c.MinimumLargestValue) || math.IsInf(c.MinimumLargestValue, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "minimum_largest_value must be finite")
	}
	for name, v := range map[string]*float64{
		"minimum_value":               c.MinimumValue,
		"angle_center_value":          c.AngleCenterValue,
		"minimum_largest_angle_value": c.MinimumLargestAngleValue,
		"maximum_lowest_angle_value":  c.MaximumLowestAngleValue,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be finite", name)
		}
	}
	for _, a := range c.Anchors {
		if a.X < 0 || a.X > 1 || a.Y < 0 || a.Y > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "anchor (%v, %v) outside the unit square", a.X, a.Y)
		}
	}
	switch c.Exhaustion {
	case "", ExhaustStop, ExhaustSkip:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "exhaustion must be %q or %q, got %q", ExhaustStop, ExhaustSkip, c.Exhaustion)
	}
	return nil
}

// anchors returns the configured anchors or the defaults.
func (c Config) anchors() []Anchor {
	if len(c.Anchors) == 0 {
		return DefaultAnchors
	}
	return c.Anchors
}

// Float returns a pointer to v, for the optional Config fields.
func Float(v float64) *float64 { return &v }
