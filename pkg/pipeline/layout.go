package pipeline

import (
	"encoding/json"
	"sync"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/glyph"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// =============================================================================
// Fonts
// =============================================================================

// renderers holds parsed fonts keyed by font key. Parsing is the expensive
// part of building a glyph renderer, and renderers are safe to share.
var renderers sync.Map

// LoadRenderer resolves a font name to a glyph renderer and a key that
// identifies the font contents: the name for built-in fonts, a content hash
// for font files.
func LoadRenderer(name string) (*glyph.Renderer, string, error) {
	if name == "" {
		name = DefaultFont
	}
	data, err := fonts.Load(name)
	if err != nil {
		return nil, "", err
	}
	key := name
	if _, ok := fonts.Builtin(name); !ok {
		key = "sha256:" + cache.Hash(data)
	}
	if r, ok := renderers.Load(key); ok {
		return r.(*glyph.Renderer), key, nil
	}
	r, err := glyph.New(data)
	if err != nil {
		return nil, "", err
	}
	actual, _ := renderers.LoadOrStore(key, r)
	return actual.(*glyph.Renderer), key, nil
}

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout runs a layout pass over entries without caching.
func GenerateLayout(entries []words.Entry, opts Options) (*Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	cfg, err := opts.LayoutConfig()
	if err != nil {
		return nil, err
	}
	r, fontKey, err := opts.renderer()
	if err != nil {
		return nil, err
	}
	res, err := layout.Build(entries, cfg, r, layout.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	snap, err := Snapshot(res, cfg, fontKey)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "snapshot layout")
	}
	return &Layout{
		Result:   res,
		Config:   cfg,
		Font:     fontKey,
		Snapshot: snap,
		Hash:     cache.Hash(snap),
	}, nil
}

// renderer returns the glyph renderer for the options and its font key. The
// key is empty for a caller-supplied renderer.
func (o *Options) renderer() (layout.GlyphRenderer, string, error) {
	if o.Renderer != nil {
		return o.Renderer, "", nil
	}
	r, key, err := LoadRenderer(o.Font)
	if err != nil {
		return nil, "", err
	}
	return r, key, nil
}

// entriesHash is the content hash of normalized entries.
func entriesHash(entries []words.Entry) (string, error) {
	data, err := json.Marshal(words.Normalize(entries))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash entries")
	}
	return cache.Hash(data), nil
}
