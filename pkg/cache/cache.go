// Package cache provides byte-oriented cache backends for coinmap.
//
// Backends:
//   - [FileCache]: one JSON file per entry under the XDG cache directory (CLI)
//   - [RedisCache]: shared cache for multiple server instances
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that HTTP responses and rendered
// artifacts never collide, and so that several deployments can share one
// Redis database through a [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
// A ttl of 0 means the entry never expires.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey generates a key for a cached API response.
	HTTPKey(namespace, key string) string
	// ArtifactKey generates a key for a rendered artifact of one fetch generation.
	ArtifactKey(generation string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change artifact bytes.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ArtifactKey hashes the render options so any change produces a new key.
func (DefaultKeyer) ArtifactKey(generation string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", generation, opts)
}
