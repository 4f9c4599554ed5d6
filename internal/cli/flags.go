package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// pipelineFlags binds the layout and input options shared by the layout,
// render and serve commands. Flags override values from --config.
type pipelineFlags struct {
	config  string
	noCache bool
	opts    pipeline.Options

	// Values whose zero is meaningful are applied only when the flag is set.
	fromAlpha, toAlpha int
	minValue           float64
	minLargestValue    float64
	angleCenter        float64
	minLargestAngle    float64
	maxLowestAngle     float64
	anchors            []string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "TOML file with pipeline options (flags take precedence)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.opts.Refresh, "refresh", false, "recompute even when cached")

	// Input
	fl.StringVar(&f.opts.InputFormat, "input-format", "", "word list format: json, csv, toml, txt (default: file extension)")
	fl.IntVar(&f.opts.MinLength, "min-length", 0, "minimum word length for plain text input (default 3)")
	fl.StringSliceVar(&f.opts.Stopwords, "stopwords", nil, "words to drop from plain text input")

	// Layout
	fl.StringVar(&f.opts.Font, "font", "", "built-in font ("+strings.Join(fonts.Names(), ", ")+") or TrueType file")
	fl.IntVar(&f.opts.Width, "width", 0, fmt.Sprintf("canvas width in pixels (default %d)", pipeline.DefaultWidth))
	fl.IntVar(&f.opts.Height, "height", 0, fmt.Sprintf("canvas height in pixels (default %d)", pipeline.DefaultHeight))
	fl.IntVar(&f.opts.MaxWords, "max-words", 0, fmt.Sprintf("place at most this many of the largest words (default %d)", layout.DefaultMaxWords))
	fl.Float64Var(&f.opts.MinFontSize, "min-font-size", 0, fmt.Sprintf("font size of the smallest word (default %v)", layout.DefaultMinFontSize))
	fl.Float64Var(&f.opts.LargestSizeWidthProportion, "largest-proportion", 0, fmt.Sprintf("canvas width share the widest-weighted word is sized to (default %v)", layout.DefaultLargestSizeWidthProportion))
	fl.IntVar(&f.fromAlpha, "from-alpha", 0, fmt.Sprintf("alpha of the lowest color value (default %d)", layout.DefaultFromAlpha))
	fl.IntVar(&f.toAlpha, "to-alpha", 0, fmt.Sprintf("alpha of the highest color value (default %d)", layout.DefaultToAlpha))
	fl.StringVar(&f.opts.DefaultColor, "color", "", "word color as #rrggbb (default black)")
	fl.StringVar(&f.opts.SelectedColor, "selected-color", "", "color of selected words (default white)")
	fl.IntSliceVar(&f.opts.Selected, "select", nil, "entry indices to paint in the selected color")
	fl.Float64Var(&f.minValue, "min-value", 0, "lower bound of the size range")
	fl.Float64Var(&f.minLargestValue, "min-largest-value", 0, fmt.Sprintf("upper bound of the size range is at least this (default %v)", layout.DefaultMinimumLargestValue))
	fl.Float64Var(&f.angleCenter, "angle-center", 0, "center the angle range on this value")
	fl.Float64Var(&f.minLargestAngle, "min-largest-angle", 0, "upper bound of the angle range is at least this")
	fl.Float64Var(&f.maxLowestAngle, "max-lowest-angle", 0, "lower bound of the angle range is at most this")
	fl.StringArrayVar(&f.anchors, "anchor", nil, "spiral anchor as x,y in 0..1 (repeatable, default center and quadrants)")
	fl.StringVar(&f.opts.Exhaustion, "exhaustion", "", "when a word fits nowhere: stop (default) or skip")

	registerLayoutCompletions(cmd)
}

// registerRender adds the render option flags.
func (f *pipelineFlags) registerRender(cmd *cobra.Command, formats *string) {
	fl := cmd.Flags()
	fl.StringVarP(formats, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	fl.StringVar(&f.opts.Background, "background", "", "background color (default transparent)")
	fl.IntVar(&f.opts.Scale, "scale", 0, "PNG scale factor (default 1)")
	fl.StringVar(&f.opts.FontFamily, "font-family", "", "font-family written into SVG output")

	registerRenderCompletions(cmd)
}

// options resolves the config file and the flags that were set into
// pipeline options.
func (f *pipelineFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var base pipeline.Options
	if f.config != "" {
		loaded, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return base, err
		}
		base = loaded
	}

	override := f.opts
	changed := cmd.Flags().Changed
	if changed("from-alpha") {
		override.FromAlpha = &f.fromAlpha
	}
	if changed("to-alpha") {
		override.ToAlpha = &f.toAlpha
	}
	for name, dst := range map[string]struct {
		v   float64
		out **float64
	}{
		"min-value":         {f.minValue, &override.MinimumValue},
		"min-largest-value": {f.minLargestValue, &override.MinimumLargestValue},
		"angle-center":      {f.angleCenter, &override.AngleCenterValue},
		"min-largest-angle": {f.minLargestAngle, &override.MinimumLargestAngleValue},
		"max-lowest-angle":  {f.maxLowestAngle, &override.MaximumLowestAngleValue},
	} {
		if changed(name) {
			*dst.out = layout.Float(dst.v)
		}
	}
	for _, a := range f.anchors {
		anchor, err := parseAnchor(a)
		if err != nil {
			return base, err
		}
		override.Anchors = append(override.Anchors, anchor)
	}
	return base.Merge(override), nil
}

// parseAnchor parses "x,y" into an anchor.
func parseAnchor(s string) (layout.Anchor, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return layout.Anchor{}, fmt.Errorf("anchor %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return layout.Anchor{}, fmt.Errorf("anchor %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return layout.Anchor{}, fmt.Errorf("anchor %q: %w", s, err)
	}
	return layout.Anchor{X: x, Y: y}, nil
}
