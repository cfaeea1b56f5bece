// Package cache stores compiled layouts and rendered artifacts keyed by the
// content hash of the diagram source.
//
// Three backends implement [Cache]:
//   - [FileCache]: one file per entry under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP server
//   - [NullCache]: never stores anything (caching disabled)
//
// Keys are built by a [Keyer]. [DefaultKeyer] hashes the layout options and
// artifact options together with the source hash so that changing any of them
// produces a different entry. [ScopedKeyer] prefixes every key for isolation
// between tenants or test runs.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

// Key prefixes.
const (
	layoutPrefix   = "layout"
	artifactPrefix = "artifact"
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss with ok == false and a nil error; errors are reserved for
// backend failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the layout inputs that affect a compiled diagram.
type LayoutKeyOpts struct {
	Strategy    string `json:"strategy"`
	Margin      int    `json:"margin"`
	Clearance   int    `json:"clearance"`
	NodeSpacing int    `json:"node_spacing"`
	RankSpacing int    `json:"rank_spacing"`
	GridSize    int    `json:"grid_size"`
}

// ArtifactKeyOpts are the render inputs that affect an output artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Theme  string  `json:"theme"`
	Legend bool    `json:"legend"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key of the compiled diagram for a source hash.
	LayoutKey(sourceHash string, opts LayoutKeyOpts) string
	// ArtifactKey returns the key of a rendered artifact for a layout hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return hashKey(layoutPrefix, sourceHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(artifactPrefix, layoutHash, opts)
}
