package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"question-bank/internal/app"
	"question-bank/internal/normalize"
)

// CollectionCache stores fetched collections in Redis so several server
// instances share one fetch of a source per TTL.
// Collections are stored as: SET qbank:collection:{sourceName} <json array> EX ttl
type CollectionCache struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewCollectionCache(client *redis.Client, ttl time.Duration) *CollectionCache {
	return &CollectionCache{client: client, ttl: ttl}
}

// Wrap returns a source that serves src through the cache.
func (c *CollectionCache) Wrap(src app.Source) app.Source {
	return cachedSource{cache: c, source: src}
}

// Get returns the cached collection of src or fetches and stores it. Redis
// failures degrade to a direct fetch.
func (c *CollectionCache) Get(ctx context.Context, src app.Source) ([]normalize.RawQuestion, error) {
	key := c.key(src.Name())
	if raws, ok := c.lookup(ctx, key); ok {
		return raws, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raws, ok := c.lookup(ctx, key); ok {
			return raws, nil
		}
		raws, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(raws)
		if err != nil {
			return raws, nil
		}
		if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache collection %s: %v", key, err)
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]normalize.RawQuestion), nil
}

// Invalidate removes the cached collection of the named source.
func (c *CollectionCache) Invalidate(ctx context.Context, name string) error {
	return c.client.Del(ctx, c.key(name)).Err()
}

func (c *CollectionCache) lookup(ctx context.Context, key string) ([]normalize.RawQuestion, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("read cached collection %s: %v", key, err)
		}
		return nil, false
	}
	var raws []normalize.RawQuestion
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, false
	}
	return raws, true
}

func (c *CollectionCache) key(name string) string {
	return "qbank:collection:" + name
}

func (c *CollectionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
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
