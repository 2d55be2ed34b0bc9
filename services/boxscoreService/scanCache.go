package boxscoreService

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

type scanCacheKey struct{}

// scanCache holds raw responses for the lifetime of one settlement scan.
// Wagers on the same league and date share a scoreboard and its summaries.
type scanCache struct {
	mu     sync.Mutex
	bodies map[string][]byte
	group  singleflight.Group
}

// WithScanCache returns a context whose lookups reuse responses already
// fetched under it. Drop the context to drop the cache.
func WithScanCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, scanCacheKey{}, &scanCache{bodies: map[string][]byte{}})
}

func cacheFrom(ctx context.Context) *scanCache {
	c, _ := ctx.Value(scanCacheKey{}).(*scanCache)
	return c
}

// fetch returns the cached body for key, or calls load once no matter how
// many callers ask at the same time. Failures are not cached.
func (c *scanCache) fetch(key string, load func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	body, ok := c.bodies[key]
	c.mu.Unlock()
	if ok {
		return body, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		cached, ok := c.bodies[key]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
		body, err := load()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.bodies[key] = body
		c.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
