// Package pipeline provides the word-cloud pipeline shared by the CLI and the
// API server.
//
// The pipeline has two stages:
//
//  1. Layout: place weighted words on a canvas ([layout.Build])
//  2. Render: produce artifacts from the layout (PNG, SVG, JSON snapshot)
//
// Both stages are cached. A layout is keyed by the content hash of its
// entries, the layout configuration and the font. An artifact is keyed by the
// hash of its layout snapshot and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, entries, pipeline.Options{
//	    Width:   1024,
//	    Height:  768,
//	    Formats: []string{"png", "svg"},
//	})
//	png := result.Artifacts["png"]
//
// Run individual stages:
//
//	l, err := runner.Layout(ctx, entries, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = layout.DefaultHeight

	// DefaultFont is the built-in font used when none is configured.
	DefaultFont = fonts.Default

	// DefaultScale is the PNG scale factor.
	DefaultScale = 1
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It decodes from JSON
// API requests and TOML config files; zero values take the defaults.
type Options struct {
	// Input options (CLI and config files)
	Input       string   `json:"-" toml:"input"`
	InputFormat string   `json:"-" toml:"input_format"`
	MinLength   int      `json:"-" toml:"min_length"`
	Stopwords   []string `json:"-" toml:"stopwords"`

	// Layout options
	Width                      int             `json:"width,omitempty" toml:"width"`
	Height                     int             `json:"height,omitempty" toml:"height"`
	MaxWords                   int             `json:"max_words,omitempty" toml:"max_words"`
	MinFontSize                float64         `json:"min_font_size,omitempty" toml:"min_font_size"`
	LargestSizeWidthProportion float64         `json:"largest_size_width_proportion,omitempty" toml:"largest_size_width_proportion"`
	FromAlpha                  *int            `json:"from_alpha,omitempty" toml:"from_alpha"`
	ToAlpha                    *int            `json:"to_alpha,omitempty" toml:"to_alpha"`
	DefaultColor               string          `json:"default_color,omitempty" toml:"default_color"`
	SelectedColor              string          `json:"selected_color,omitempty" toml:"selected_color"`
	Selected                   []int           `json:"selected,omitempty" toml:"selected"`
	MinimumValue               *float64        `json:"minimum_value,omitempty" toml:"minimum_value"`
	MinimumLargestValue        *float64        `json:"minimum_largest_value,omitempty" toml:"minimum_largest_value"`
	AngleCenterValue           *float64        `json:"angle_center_value,omitempty" toml:"angle_center_value"`
	MinimumLargestAngleValue   *float64        `json:"minimum_largest_angle_value,omitempty" toml:"minimum_largest_angle_value"`
	MaximumLowestAngleValue    *float64        `json:"maximum_lowest_angle_value,omitempty" toml:"maximum_lowest_angle_value"`
	Anchors                    []layout.Anchor `json:"anchors,omitempty" toml:"anchors"`
	Exhaustion                 string          `json:"exhaustion,omitempty" toml:"exhaustion"`
	Font                       string          `json:"font,omitempty" toml:"font"`

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats"`
	Background string   `json:"background,omitempty" toml:"background"`
	Scale      int      `json:"scale,omitempty" toml:"scale"`
	FontFamily string   `json:"font_family,omitempty" toml:"font_family"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// Renderer replaces the font renderer. Layouts built with a custom
	// renderer are not cached.
	Renderer layout.GlyphRenderer `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Layout is a finished layout pass together with what produced it.
type Layout struct {
	// Result is the layout pass.
	Result *layout.Result

	// Config is the configuration the pass ran with.
	Config layout.Config

	// Font is the font key: a built-in font name or a content hash.
	Font string

	// Snapshot is the JSON snapshot of the pass.
	Snapshot []byte

	// Hash is the content hash of Snapshot. Artifacts are cached under it.
	Hash string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the finished layout.
	Layout *Layout

	// EntriesHash is the content hash of the normalized entries.
	EntriesHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Words      int
	Placed     int
	Unplaced   int
	Skipped    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults for the full pipeline and validates
// both stages. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and checks the layout configuration.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	_, err := o.LayoutConfig()
	return err
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks the render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be at least 1, got %d", o.Scale)
	}
	if _, err := words.ParseHex(o.Background); err != nil {
		return err
	}
	return nil
}

// LayoutConfig builds the layout configuration from the options.
func (o *Options) LayoutConfig() (layout.Config, error) {
	cfg := layout.DefaultConfig(o.Width, o.Height)
	if o.MaxWords != 0 {
		cfg.MaxWords = o.MaxWords
	}
	if o.MinFontSize != 0 {
		cfg.MinFontSize = o.MinFontSize
	}
	if o.LargestSizeWidthProportion != 0 {
		cfg.LargestSizeWidthProportion = o.LargestSizeWidthProportion
	}
	if o.FromAlpha != nil {
		if err := errors.ValidateAlpha("from_alpha", *o.FromAlpha); err != nil {
			return cfg, err
		}
		cfg.FromAlpha = uint8(*o.FromAlpha)
	}
	if o.ToAlpha != nil {
		if err := errors.ValidateAlpha("to_alpha", *o.ToAlpha); err != nil {
			return cfg, err
		}
		cfg.ToAlpha = uint8(*o.ToAlpha)
	}
	for _, c := range []struct {
		src string
		dst *words.Hex
	}{{o.DefaultColor, &cfg.DefaultColor}, {o.SelectedColor, &cfg.SelectedColor}} {
		if c.src == "" {
			continue
		}
		h, err := words.ParseHex(c.src)
		if err != nil {
			return cfg, err
		}
		*c.dst = h
	}
	cfg.Selected = o.Selected
	cfg.MinimumValue = o.MinimumValue
	if o.MinimumLargestValue != nil {
		cfg.MinimumLargestValue = *o.MinimumLargestValue
	}
	cfg.AngleCenterValue = o.AngleCenterValue
	cfg.MinimumLargestAngleValue = o.MinimumLargestAngleValue
	cfg.MaximumLowestAngleValue = o.MaximumLowestAngleValue
	if len(o.Anchors) > 0 {
		cfg.Anchors = o.Anchors
	}
	if o.Exhaustion != "" {
		cfg.Exhaustion = layout.Exhaustion(o.Exhaustion)
	}
	return cfg, cfg.Validate()
}

// LayoutKeyOpts returns cache key options for layout computation. fontKey
// identifies the loaded font.
func (o *Options) LayoutKeyOpts(cfg layout.Config, fontKey string) cache.LayoutKeyOpts {
	data, _ := json.Marshal(cfg)
	return cache.LayoutKeyOpts{Config: string(data), Font: fontKey}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Background: o.Background}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatSVG:
		opts.FontFamily = o.FontFamily
	}
	return opts
}

// TextOptions returns the options for reading plain text input.
func (o *Options) TextOptions() words.TextOptions {
	return words.TextOptions{MinLength: o.MinLength, Stopwords: o.Stopwords}
}
