// Package sink writes finished word-cloud layouts to output formats.
//
// # Overview
//
// A "sink" transforms a [layout.Result] into bytes. This package provides:
//
//   - PNG: the rasterized canvas, optionally scaled and flattened onto a
//     background color
//   - SVG: one <text> element per placed word, positioned and rotated to
//     match the raster, with the entry index in a data attribute
//   - JSON: a complete snapshot of the pass, including the owner grid and the
//     canvas image, that [DecodeJSON] turns back into a queryable result
//
// # Usage
//
//	png, err := sink.RenderPNG(res, sink.WithBackground(words.MustHex("#ffffff")))
//	svg := sink.RenderSVG(res, sink.WithFontFamily("Go, sans-serif"))
//	data, err := sink.RenderJSON(res, sink.WithJSONConfig(cfg))
//
// Snapshots are versioned; [DecodeJSON] rejects versions it does not know.
//
// [layout.Result]: github.com/matzehuels/wordcloud/pkg/layout.Result
package sink
