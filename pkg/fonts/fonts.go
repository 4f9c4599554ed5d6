// Package fonts provides the font files available to the glyph renderer.
//
// The Go font family ships inside golang.org/x/image, so every name listed by
// [Names] is available without touching the file system. [Load] also accepts
// a path to any TrueType or OpenType file.
package fonts

import (
	"os"
	"slices"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/wordcloud/pkg/errors"
)

// Default is the font used when none is configured.
const Default = "goregular"

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"goitalic":  goitalic.TTF,
	"gomedium":  gomedium.TTF,
	"gomono":    gomono.TTF,
}

// Names returns the built-in font names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Builtin returns the font data for a built-in name.
func Builtin(name string) ([]byte, bool) {
	data, ok := builtin[strings.ToLower(name)]
	return data, ok
}

// Load resolves name as a built-in font first and as a file path otherwise.
// An empty name loads [Default].
func Load(name string) ([]byte, error) {
	if name == "" {
		name = Default
	}
	if data, ok := Builtin(name); ok {
		return data, nil
	}
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %q is neither built in (%s) nor a file", name, strings.Join(Names(), ", "))
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
