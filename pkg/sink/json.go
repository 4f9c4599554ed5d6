package sink

import (
	"encoding/json"

	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// SnapshotVersion is the current JSON snapshot format.
const SnapshotVersion = 1

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	config *layout.Config
	font   string
}

// WithJSONConfig records the configuration the layout was built with.
func WithJSONConfig(cfg layout.Config) JSONOption {
	return func(r *jsonRenderer) { r.config = &cfg }
}

// WithJSONFont records the font name the layout was built with.
func WithJSONFont(name string) JSONOption { return func(r *jsonRenderer) { r.font = name } }

type jsonOutput struct {
	Version    int                `json:"version"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Font       string             `json:"font,omitempty"`
	Config     *layout.Config     `json:"config,omitempty"`
	Entries    []words.Entry      `json:"entries"`
	Order      []int              `json:"order"`
	Placements []layout.Placement `json:"placements"`
	Unplaced   []int              `json:"unplaced,omitempty"`
	Skipped    []int              `json:"skipped,omitempty"`
	Ranges     layout.Ranges      `json:"ranges"`
	Grid       jsonGrid           `json:"grid"`
	Image      []byte             `json:"image"`
}

type jsonGrid struct {
	CellSize int   `json:"cell_size"`
	Cols     int   `json:"cols"`
	Rows     int   `json:"rows"`
	Owners   []int `json:"owners"`
}

// Snapshot is a decoded JSON document.
type Snapshot struct {
	Result *layout.Result
	Config *layout.Config
	Font   string
}

// RenderJSON exports the complete pass as a pretty-printed JSON document:
// entries, placements, ranges, the owner grid and the canvas as base64 PNG.
// The output is enough for [DecodeJSON] to answer hit tests and re-render
// without repeating the layout.
func RenderJSON(res *layout.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	img, err := RenderPNG(res)
	if err != nil {
		return nil, err
	}
	cols, rows := res.Canvas.GridSize()
	out := jsonOutput{
		Version:    SnapshotVersion,
		Width:      res.Width,
		Height:     res.Height,
		Font:       r.font,
		Config:     r.config,
		Entries:    res.Entries,
		Order:      res.Order,
		Placements: res.Placements,
		Unplaced:   res.Unplaced,
		Skipped:    res.Skipped,
		Ranges:     res.Ranges,
		Grid: jsonGrid{
			CellSize: layout.CellSize,
			Cols:     cols,
			Rows:     rows,
			Owners:   res.Canvas.Owners(),
		},
		Image: img,
	}
	if out.Placements == nil {
		out.Placements = []layout.Placement{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeJSON restores a snapshot written by [RenderJSON].
func DecodeJSON(data []byte) (*Snapshot, error) {
	var in jsonOutput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if in.Version != SnapshotVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "snapshot version %d", in.Version)
	}
	if in.Grid.CellSize != layout.CellSize {
		return nil, errors.New(errors.ErrCodeUnsupported, "owner grid cell size %d", in.Grid.CellSize)
	}

	img, err := decodePNG(in.Image)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != in.Width || b.Dy() != in.Height {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"image is %dx%d, snapshot declares %dx%d", b.Dx(), b.Dy(), in.Width, in.Height)
	}
	canvas, err := layout.RestoreCanvas(img, in.Grid.Owners)
	if err != nil {
		return nil, err
	}
	for _, o := range in.Grid.Owners {
		if o != layout.NoOwner && (o < 0 || o >= len(in.Entries)) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "owner %d has no entry", o)
		}
	}

	return &Snapshot{
		Result: &layout.Result{
			Width:      in.Width,
			Height:     in.Height,
			Entries:    in.Entries,
			Order:      in.Order,
			Placements: in.Placements,
			Unplaced:   in.Unplaced,
			Skipped:    in.Skipped,
			Ranges:     in.Ranges,
			Canvas:     canvas,
		},
		Config: in.Config,
		Font:   in.Font,
	}, nil
}
