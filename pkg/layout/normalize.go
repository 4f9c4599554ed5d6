package layout

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/wordcloud/pkg/words"
)

// epsilon is the smallest span any range is floored to.
const epsilon = 1e-5

// Ranges are the attribute spans a pass maps from.
type Ranges struct {
	MinSize   float64 `json:"min_size"`
	MaxSize   float64 `json:"max_size"`
	SizeRange float64 `json:"size_range"`

	MinColor   float64 `json:"min_color"`
	MaxColor   float64 `json:"max_color"`
	ColorRange float64 `json:"color_range"`

	MinAngle    float64  `json:"min_angle"`
	MaxAngle    float64  `json:"max_angle"`
	AngleRange  float64  `json:"angle_range"`
	AngleCenter *float64 `json:"angle_center,omitempty"`
}

// rank returns entry indices ordered by descending SizeValue, ties in input
// order, truncated to maxWords.
func rank(entries []words.Entry, maxWords int) []int {
	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		sa, sb := entries[a].SizeValue, entries[b].SizeValue
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
	if len(order) > maxWords {
		order = order[:maxWords]
	}
	return order
}

// Normalize computes the ranges over the MaxWords largest entries.
func Normalize(entries []words.Entry, cfg Config) Ranges {
	return normalize(entries, rank(entries, cfg.MaxWords), cfg)
}

func normalize(entries []words.Entry, order []int, cfg Config) Ranges {
	if len(order) == 0 {
		return Ranges{SizeRange: epsilon, ColorRange: epsilon, AngleRange: epsilon, AngleCenter: cfg.AngleCenterValue}
	}
	sizes := make([]float64, len(order))
	colors := make([]float64, len(order))
	angles := make([]float64, len(order))
	for k, i := range order {
		sizes[k] = entries[i].SizeValue
		colors[k] = entries[i].ColorValue
		angles[k] = entries[i].Angle
	}

	r := Ranges{
		MinSize:     floats.Min(sizes),
		MaxSize:     math.Max(floats.Max(sizes), cfg.MinimumLargestValue),
		MinColor:    floats.Min(colors),
		MaxColor:    floats.Max(colors),
		MinAngle:    floats.Min(angles),
		MaxAngle:    floats.Max(angles),
		AngleCenter: cfg.AngleCenterValue,
	}
	if cfg.MinimumValue != nil {
		r.MinSize = math.Min(*cfg.MinimumValue, r.MinSize)
	}
	if cfg.MinimumLargestAngleValue != nil {
		r.MaxAngle = math.Max(*cfg.MinimumLargestAngleValue, r.MaxAngle)
	}
	if cfg.MaximumLowestAngleValue != nil {
		r.MinAngle = math.Min(*cfg.MaximumLowestAngleValue, r.MinAngle)
	}

	r.SizeRange = math.Max(epsilon, r.MaxSize-r.MinSize)
	r.ColorRange = math.Max(epsilon, r.MaxColor-r.MinColor)
	r.AngleRange = r.MaxAngle - r.MinAngle
	if c := cfg.AngleCenterValue; c != nil {
		r.AngleRange = math.Max(*c-r.MinAngle, r.MaxAngle-*c)
	}
	r.AngleRange = math.Max(epsilon, r.AngleRange)
	return r
}
