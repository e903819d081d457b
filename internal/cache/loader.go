package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Loader collapses concurrent fills of the same key into one.
type Loader struct {
	cache *Cache
	group singleflight.Group
}

func NewLoader(c *Cache) *Loader {
	return &Loader{cache: c}
}

// Cache returns the underlying cache.
func (l *Loader) Cache() *Cache { return l.cache }

// GetOrLoad returns the fresh entry for key, or runs fill once for all concurrent callers of key.
//
// fill owns any caching of its result. The returned bool reports a cache hit.
// Each caller waits on its own ctx. The fill keeps the values of the caller that started it but not its
// cancellation, so a caller that gives up never decides what the others read or what gets cached.
func (l *Loader) GetOrLoad(ctx context.Context, key string, fill func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if e, ok := l.cache.Get(ctx, key); ok {
		return e.Data, true, nil
	}

	fctx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		if e, ok := l.cache.Get(fctx, key); ok {
			return e.Data, nil
		}
		return fill(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		data, _ := res.Val.([]byte)
		return data, false, nil
	}
}
