package cache

import (
	"context"
	"time"

	"github.com/golang/snappy"
)

// Compressed wraps a Cache and snappy-compresses every value.
type Compressed struct {
	inner Cache
}

// NewCompressed wraps inner with snappy compression.
func NewCompressed(inner Cache) *Compressed {
	return &Compressed{inner: inner}
}

// Get retrieves and decompresses a value. Entries that fail to decode are
// deleted and reported as misses.
func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return out, true, nil
}

// Set compresses and stores a value.
func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

// Delete removes a key.
func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *Compressed) Clear(ctx context.Context) error {
	if cl, ok := c.inner.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

// Close closes the wrapped cache.
func (c *Compressed) Close() error {
	return c.inner.Close()
}

var (
	_ Cache   = (*Compressed)(nil)
	_ Clearer = (*Compressed)(nil)
)
