// Package words defines the weighted word entries a layout pass consumes and
// reads them from JSON, CSV, TOML and plain text.
//
// An [Entry] carries the text plus three numeric attributes that drive the
// visual mapping: SizeValue (font size), ColorValue (alpha) and Angle
// (rotation). Entries are identified by their position in the input slice; the
// layout never reorders or mutates the caller's slice.
package words

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Entry is one weighted word.
type Entry struct {
	Word       string  `json:"word" toml:"word"`
	SizeValue  float64 `json:"size" toml:"size"`
	ColorValue float64 `json:"color_value,omitempty" toml:"color_value"`
	Angle      float64 `json:"angle,omitempty" toml:"angle"`
	Color      Hex     `json:"color,omitzero" toml:"color"`
	Tag        string  `json:"tag,omitempty" toml:"tag"`
}

// Hex is a color that encodes as "#rrggbb", or "#rrggbbaa" when not opaque.
// The zero value means "unset" and encodes as the empty string.
type Hex color.NRGBA

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseHex(s string) (Hex, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return Hex{}, nil
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 && len(s) != 8 {
		return Hex{}, errors.New(errors.ErrCodeInvalidFormat, "invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Hex{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid color %q", s)
	}
	if len(s) == 6 {
		return Hex{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	return Hex{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustHex is like ParseHex but panics on malformed input. Intended for constants.
func MustHex(s string) Hex {
	h, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return h
}

// IsZero reports whether the color is unset.
func (h Hex) IsZero() bool { return h == Hex{} }

// NRGBA returns the color as a standard library color.
func (h Hex) NRGBA() color.NRGBA { return color.NRGBA(h) }

// String returns the hex form.
func (h Hex) String() string {
	switch {
	case h.IsZero():
		return ""
	case h.A == 0xff:
		return fmt.Sprintf("#%02x%02x%02x", h.R, h.G, h.B)
	default:
		return fmt.Sprintf("#%02x%02x%02x%02x", h.R, h.G, h.B, h.A)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (h Hex) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hex) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Normalize trims surrounding whitespace and converts every word to Unicode
// NFC so visually identical words compare and measure identically.
// It returns a new slice.
func Normalize(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Word = norm.NFC.String(strings.TrimSpace(e.Word))
		out[i] = e
	}
	return out
}

// Validate checks every entry's text and attributes.
func Validate(entries []Entry) error {
	for i, e := range entries {
		if err := errors.ValidateWord(e.Word); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		for _, f := range []struct {
			name string
			v    float64
		}{{"size", e.SizeValue}, {"color_value", e.ColorValue}, {"angle", e.Angle}} {
			if err := errors.ValidateValue(f.name, f.v); err != nil {
				return fmt.Errorf("entry %d (%q): %w", i, e.Word, err)
			}
		}
	}
	return nil
}
