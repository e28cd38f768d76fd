package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"question-bank/internal/app"
	"question-bank/internal/normalize"
)

// CollectionCache keeps fetched collections in process memory with a TTL so
// repeated loads of the same source (e.g. the example resource) skip the fetch.
type CollectionCache struct {
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedCollection
}

type cachedCollection struct {
	raws      []normalize.RawQuestion
	expiresAt time.Time
}

func NewCollectionCache(ttl time.Duration) *CollectionCache {
	return &CollectionCache{
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string]cachedCollection),
	}
}

// Wrap returns a source that serves src through the cache.
func (c *CollectionCache) Wrap(src app.Source) app.Source {
	return cachedSource{cache: c, source: src}
}

// Get returns the collection of src, fetching it on a miss. Concurrent misses
// for the same source share one fetch. Failed fetches are not cached.
func (c *CollectionCache) Get(ctx context.Context, src app.Source) ([]normalize.RawQuestion, error) {
	key := src.Name()
	if raws, ok := c.lookup(key); ok {
		return raws, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if raws, ok := c.lookup(key); ok {
			return raws, nil
		}
		raws, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[key] = cachedCollection{
			raws:      raws,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]normalize.RawQuestion), nil
}

// Invalidate drops the cached collection of the named source.
func (c *CollectionCache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()
}

func (c *CollectionCache) lookup(key string) ([]normalize.RawQuestion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return entry.raws, true
}

func (c *CollectionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}

type cachedSource struct {
	cache  *CollectionCache
	source app.Source
}

func (s cachedSource) Name() string { return s.source.Name() }

func (s cachedSource) Fetch(ctx context.Context) ([]normalize.RawQuestion, error) {
	return s.cache.Get(ctx, s.source)
}
