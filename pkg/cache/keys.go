package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/goccy/go-json"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a settled layout of a feed.
	LayoutKey(feedHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies an export of a settled layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// SnapshotKey identifies the latest live snapshot of a named map.
	SnapshotKey(name string) string
}

// LayoutKeyOpts lists everything besides the feed that changes a layout.
type LayoutKeyOpts struct {
	ItemWidth      float64 `json:"item_width"`
	ForceUniqueIDs bool    `json:"force_unique_ids"`
	Params         any     `json:"params,omitempty"`
	Untangle       any     `json:"untangle,omitempty"`
	Measure        any     `json:"measure,omitempty"`
	MaxTicks       int     `json:"max_ticks"`
	Seed           uint64  `json:"seed"`
}

// ArtifactKeyOpts lists what changes an exported artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns kind + ":" + the hash of the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Options are plain data; this only trips on NaN or Inf.
		data = []byte(err.Error())
	}
	return kind + ":" + Hash(data)
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", feedHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// SnapshotKey keeps the name readable.
func (DefaultKeyer) SnapshotKey(name string) string {
	return "snapshot:" + name
}

// ScopedKeyer prefixes every key of an inner Keyer so several maps can
// share one backend:
//
//	k := NewScopedKeyer(nil, "map:demo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(feedHash, opts)
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

func (k ScopedKeyer) SnapshotKey(name string) string {
	return k.prefix + k.inner.SnapshotKey(name)
}
