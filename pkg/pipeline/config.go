package pipeline

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// LoadConfig reads pipeline options from a TOML file. Keys that do not map
// to an option are rejected so typos surface early.
//
//	width = 1024
//	height = 768
//	max_words = 100
//	selected = [0, 3]
//	formats = ["png", "svg"]
//
//	[[anchors]]
//	x = 0.5
//	y = 0.5
func LoadConfig(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return opts, err
	}
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return opts, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return opts, nil
}

// Merge overlays the non-zero fields of override onto o. It is used to let
// command-line flags win over a config file.
func (o Options) Merge(override Options) Options {
	out := o
	if override.Input != "" {
		out.Input = override.Input
	}
	if override.InputFormat != "" {
		out.InputFormat = override.InputFormat
	}
	if override.MinLength != 0 {
		out.MinLength = override.MinLength
	}
	if len(override.Stopwords) > 0 {
		out.Stopwords = override.Stopwords
	}
	if override.Width != 0 {
		out.Width = override.Width
	}
	if override.Height != 0 {
		out.Height = override.Height
	}
	if override.MaxWords != 0 {
		out.MaxWords = override.MaxWords
	}
	if override.MinFontSize != 0 {
		out.MinFontSize = override.MinFontSize
	}
	if override.LargestSizeWidthProportion != 0 {
		out.LargestSizeWidthProportion = override.LargestSizeWidthProportion
	}
	if override.FromAlpha != nil {
		out.FromAlpha = override.FromAlpha
	}
	if override.ToAlpha != nil {
		out.ToAlpha = override.ToAlpha
	}
	if override.DefaultColor != "" {
		out.DefaultColor = override.DefaultColor
	}
	if override.SelectedColor != "" {
		out.SelectedColor = override.SelectedColor
	}
	if len(override.Selected) > 0 {
		out.Selected = override.Selected
	}
	if override.MinimumValue != nil {
		out.MinimumValue = override.MinimumValue
	}
	if override.MinimumLargestValue != nil {
		out.MinimumLargestValue = override.MinimumLargestValue
	}
	if override.AngleCenterValue != nil {
		out.AngleCenterValue = override.AngleCenterValue
	}
	if override.MinimumLargestAngleValue != nil {
		out.MinimumLargestAngleValue = override.MinimumLargestAngleValue
	}
	if override.MaximumLowestAngleValue != nil {
		out.MaximumLowestAngleValue = override.MaximumLowestAngleValue
	}
	if len(override.Anchors) > 0 {
		out.Anchors = override.Anchors
	}
	if override.Exhaustion != "" {
		out.Exhaustion = override.Exhaustion
	}
	if override.Font != "" {
		out.Font = override.Font
	}
	if len(override.Formats) > 0 {
		out.Formats = override.Formats
	}
	if override.Background != "" {
		out.Background = override.Background
	}
	if override.Scale != 0 {
		out.Scale = override.Scale
	}
	if override.FontFamily != "" {
		out.FontFamily = override.FontFamily
	}
	out.Refresh = out.Refresh || override.Refresh
	if override.Logger != nil {
		out.Logger = override.Logger
	}
	if override.Renderer != nil {
		out.Renderer = override.Renderer
	}
	return out
}
