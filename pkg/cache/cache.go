// Package cache provides byte-level caching for trees and computed layouts.
//
// Backends implement [Cache]:
//   - [FileCache]: one JSON entry file per key, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: never stores anything (caching disabled)
//
// [Compressed] wraps any backend with snappy compression. Keys come from a
// [Keyer] so that callers never build key strings by hand; [ScopedKeyer]
// adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default time-to-live values.
const (
	// TTLTree is how long canonical tree documents are kept.
	TTLTree = 30 * 24 * time.Hour

	// TTLLayout is how long computed layouts are kept.
	TTLLayout = 7 * 24 * time.Hour
)

// Key types reported to observability hooks.
const (
	TypeTree   = "tree"
	TypeLayout = "layout"
)

// Keyer builds cache keys.
type Keyer interface {
	// TreeKey returns the key for a canonical tree document.
	TreeKey(treeHash string) string

	// LayoutKey returns the key for a layout of the given tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout's coordinates.
type LayoutKeyOpts struct {
	Algorithm   string  `json:"algorithm"`
	Separation  string  `json:"separation"`
	Orientation string  `json:"orientation"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	NodeWidth   float64 `json:"node_width,omitempty"`
	NodeHeight  float64 `json:"node_height,omitempty"`
}

// DefaultKeyer is the standard key layout:
//
//	tree:<hash>
//	layout:<sha256(hash, opts)>
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey implements Keyer.
func (DefaultKeyer) TreeKey(treeHash string) string {
	return "tree:" + treeHash
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}
