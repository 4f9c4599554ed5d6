package pipeline

import (
	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/sink"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// RenderFormats produces the requested artifacts from a finished layout.
func RenderFormats(l *Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if l == nil || l.Result == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layout to render")
	}
	bg, err := words.ParseHex(opts.Background)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatPNG:
			data, err = sink.RenderPNG(l.Result, sink.WithBackground(bg), sink.WithScale(opts.Scale))
		case FormatSVG:
			svgOpts := []sink.SVGOption{sink.WithSVGBackground(bg)}
			if opts.FontFamily != "" {
				svgOpts = append(svgOpts, sink.WithFontFamily(opts.FontFamily))
			}
			data = sink.RenderSVG(l.Result, svgOpts...)
		case FormatJSON:
			data = l.Snapshot
			if data == nil {
				data, err = Snapshot(l.Result, l.Config, l.Font)
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Snapshot encodes a layout pass as a JSON snapshot recording the
// configuration and font it ran with.
func Snapshot(res *layout.Result, cfg layout.Config, fontKey string) ([]byte, error) {
	opts := []sink.JSONOption{sink.WithJSONConfig(cfg)}
	if fontKey != "" {
		opts = append(opts, sink.WithJSONFont(fontKey))
	}
	return sink.RenderJSON(res, opts...)
}

// LayoutFromSnapshot restores a [Layout] from a JSON snapshot.
func LayoutFromSnapshot(data []byte) (*Layout, error) {
	snap, err := sink.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	l := &Layout{
		Result:   snap.Result,
		Font:     snap.Font,
		Snapshot: data,
		Hash:     cache.Hash(data),
	}
	if snap.Config != nil {
		l.Config = *snap.Config
	} else {
		l.Config = layout.DefaultConfig(snap.Result.Width, snap.Result.Height)
	}
	return l, nil
}
