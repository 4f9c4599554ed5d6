package errors

import (
	"math"
	"unicode"
)

// Limits enforced on layout requests.
const (
	// MaxCanvasSide bounds each canvas dimension in pixels.
	MaxCanvasSide = 8192

	// MaxWordLength bounds the length of a single word in bytes.
	MaxWordLength = 256

	// MaxFontSize bounds the configured minimum font size in points.
	MaxFontSize = MaxCanvasSide / 8
)

// ValidateCanvas checks that a canvas size is usable for a layout pass.
func ValidateCanvas(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "canvas size must be positive, got %dx%d", width, height)
	}
	if width > MaxCanvasSide || height > MaxCanvasSide {
		return New(ErrCodeInvalidInput, "canvas size %dx%d exceeds %d pixels per side", width, height, MaxCanvasSide)
	}
	return nil
}

// ValidateWord validates the text of a single word.
// Empty words are allowed; the layout skips them.
func ValidateWord(word string) error {
	if len(word) > MaxWordLength {
		return New(ErrCodeInvalidInput, "word too long (max %d bytes)", MaxWordLength)
	}
	for _, r := range word {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "word %q contains control characters", word)
		}
	}
	return nil
}

// ValidateValue rejects NaN and infinite attribute values.
func ValidateValue(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	return nil
}

// ValidateAlpha checks that an alpha setting fits in a byte.
func ValidateAlpha(name string, v int) error {
	if v < 0 || v > 255 {
		return New(ErrCodeInvalidConfig, "%s must be within 0..255, got %d", name, v)
	}
	return nil
}
