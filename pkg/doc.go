// Package pkg provides the core libraries for wordcloud layout and rendering.
//
// # Overview
//
// Wordcloud places weighted words on a fixed raster canvas by walking each word
// along an Archimedean spiral until its rasterized mask fits without touching
// anything already drawn. Larger values are placed first and closest to the
// anchor points. The finished canvas doubles as a hit-test index that maps a
// pixel back to the word drawn there.
//
// # Architecture
//
// The typical data flow:
//
//	word list (txt, csv, json, toml)
//	         ↓
//	    [words] package (parse, normalize, validate entries)
//	         ↓
//	    [layout] package (rank, scale, spiral placement, owner grid)
//	         ↓
//	    [sink] package (PNG, SVG, JSON snapshot)
//
// Glyph rasterization lives in [glyph], backed by the embedded faces in
// [fonts]. The [pipeline] package ties the steps together with caching and is
// shared by the CLI and the HTTP API.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/wordcloud/pkg/glyph"
//	    "github.com/matzehuels/wordcloud/pkg/layout"
//	    "github.com/matzehuels/wordcloud/pkg/sink"
//	    "github.com/matzehuels/wordcloud/pkg/words"
//	)
//
//	entries, _ := words.ReadFile("words.csv")
//	res, _ := layout.Build(entries, layout.DefaultConfig(800, 600), glyph.Default())
//	png, _ := sink.RenderPNG(res)
//
//	if i, ok := res.Lookup(120, 80); ok {
//	    fmt.Println("clicked", entries[i].Word)
//	}
//
// # Package Organization
//
// ## Domain
//
// [words] - Word entries, hex colors, and readers for plain text, CSV, JSON
// and TOML input.
//
// [glyph] - Rasterizes a word at a size, angle and color into a square
// coverage mask.
//
// [fonts] - Embedded OpenType faces addressable by name.
//
// [layout] - The placement engine: ranking, value normalization, font
// calibration, spiral search, and the coarse owner grid used for hit testing.
//
// [sink] - Output formats for a finished layout.
//
// ## Infrastructure
//
// [pipeline] - Load → layout → render with content-addressed caching. Used by
// both the CLI and the API so they behave the same.
//
// [cache] - Cache backends (memory, file, Redis) and key derivation.
//
// [observability] - Hooks around layout, render, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [words]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/words
// [glyph]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/glyph
// [fonts]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/fonts
// [layout]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/layout
// [sink]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/wordcloud/pkg/buildinfo
package pkg
