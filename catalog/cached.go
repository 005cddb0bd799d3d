package catalog

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// CachedCatalog decorates a Catalog with a TTL-bounded in-process cache so
// repeated backend activations do not re-fetch unchanged definitions.
type CachedCatalog struct {
	inner Catalog
	ttl   time.Duration
	cache *ristretto.Cache[string, Definition]
}

// NewCached wraps inner with a definition cache. Entries expire after ttl.
func NewCached(inner Catalog, ttl time.Duration) (*CachedCatalog, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, Definition]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedCatalog{inner: inner, ttl: ttl, cache: cache}, nil
}

// GetAgent implements Catalog, serving from cache when possible. Negative
// results are not cached: a definition that appears in the catalog later
// should resolve on the next activation.
func (c *CachedCatalog) GetAgent(ctx context.Context, id string) (*Definition, error) {
	if def, ok := c.cache.Get(id); ok {
		return &def, nil
	}
	def, err := c.inner.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetWithTTL(id, *def, 1, c.ttl)
	return def, nil
}

// ListAgents implements Catalog. Listings always hit the inner catalog; only
// per-id lookups are cached.
func (c *CachedCatalog) ListAgents(ctx context.Context) ([]Definition, error) {
	return c.inner.ListAgents(ctx)
}

// Wait blocks until pending cache writes are applied. Useful when a caller
// needs read-your-write behavior, such as warming the cache ahead of a
// burst of activations.
func (c *CachedCatalog) Wait() { c.cache.Wait() }

// Close releases the cache resources.
func (c *CachedCatalog) Close() { c.cache.Close() }
