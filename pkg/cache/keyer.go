package cache

import "time"

// TTLs for cached entries.
const (
	// TTLLayout is how long a computed layout snapshot stays cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout snapshot built from the entries
	// whose content hash is entriesHash.
	LayoutKey(entriesHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of a rendered artifact of the layout
	// whose content hash is layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds everything besides the entries that changes a layout.
type LayoutKeyOpts struct {
	// Config is the layout configuration, typically serialized JSON.
	Config string `json:"config"`

	// Font identifies the glyph font, a built-in name or a content hash.
	Font string `json:"font"`
}

// ArtifactKeyOpts holds everything besides the layout that changes an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Background string `json:"background,omitempty"`
	Scale      int    `json:"scale,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
}

// DefaultKeyer hashes options together with the content hash.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(entriesHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", entriesHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
