// Package cache implements the result cache: a freshness window for normal reads, any-age reads when
// the upstream API fails, and timestamp-guarded writes so a slow call never replaces a newer entry.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/shared"
)

const DefaultTTL = 30 * time.Minute

// Entry is one cached value. Data holds JSON.
type Entry struct {
	Key      string    `json:"key"`
	Data     []byte    `json:"data"`
	StoredAt time.Time `json:"stored_at"`
}

// Fresh reports whether e is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

// Age returns how old e is at now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Store is a cache backend.
type Store interface {
	// Load returns the entry for key regardless of age.
	Load(ctx context.Context, key string) (Entry, bool, error)
	// StoreIfNewer writes e unless the existing entry for e.Key has a later StoredAt, and reports whether it wrote.
	StoreIfNewer(ctx context.Context, e Entry) (bool, error)
	// Purge removes every entry and returns how many were removed.
	Purge(ctx context.Context) (int, error)
	// Len returns the number of entries.
	Len(ctx context.Context) (int, error)
	Name() string
}

// Cache applies the freshness policy over a [Store].
//
// Backend errors are logged and read as misses, so a failing store degrades to an uncached service.
type Cache struct {
	store  Store
	ttl    time.Duration
	clock  shared.Clock
	logger *log.Logger
}

// Option configures a [Cache].
type Option func(*Cache)

// WithTTL sets the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the clock used for stamping and freshness checks.
func WithClock(clock shared.Clock) Option {
	return func(c *Cache) { c.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// New creates a [Cache] over store. A nil store means a fresh [MemoryStore].
func New(store Store, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{
		store:  store,
		ttl:    DefaultTTL,
		clock:  shared.SystemClock{},
		logger: shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = shared.WithLogger(c.logger, "component", "cache", "backend", store.Name())
	return c
}

// Key builds a cache key from an operation name and its parameters.
//
// Parameters are encoded as JSON, so equal values produce equal keys.
func Key(operation string, params ...any) string {
	var b strings.Builder
	b.WriteString(operation)
	b.WriteByte(':')
	data, err := json.Marshal(params)
	if err != nil {
		fmt.Fprint(&b, params...)
		return b.String()
	}
	b.Write(data)
	return b.String()
}

// Now reads the cache clock.
func (c *Cache) Now() time.Time { return c.clock.Now() }

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Backend names the underlying store.
func (c *Cache) Backend() string { return c.store.Name() }

// Get returns the entry for key only while it is fresh.
func (c *Cache) Get(ctx context.Context, key string) (Entry, bool) {
	e, ok := c.load(ctx, key)
	if !ok {
		return Entry{}, false
	}
	if !e.Fresh(c.clock.Now(), c.ttl) {
		c.logger.Debug("cache entry expired", "key", key, "age", e.Age(c.clock.Now()))
		return Entry{}, false
	}
	c.logger.Debug("cache hit", "key", key)
	return e, true
}

// GetStaleOnError returns the entry for key at any age. It is meant for reads after the upstream API failed.
func (c *Cache) GetStaleOnError(ctx context.Context, key string) (Entry, bool) {
	e, ok := c.load(ctx, key)
	if ok {
		c.logger.Warn("serving stale cache entry", "key", key, "age", e.Age(c.clock.Now()))
	}
	return e, ok
}

// Set stores data under key stamped with the current time.
func (c *Cache) Set(ctx context.Context, key string, data []byte) bool {
	return c.SetAt(ctx, key, data, c.clock.Now())
}

// SetAt stores data under key stamped with storedAt, unless a newer entry already exists.
//
// Callers pass the time their request started so a late response cannot replace a fresher one.
func (c *Cache) SetAt(ctx context.Context, key string, data []byte, storedAt time.Time) bool {
	e := Entry{Key: key, Data: append([]byte(nil), data...), StoredAt: storedAt}
	written, err := c.store.StoreIfNewer(ctx, e)
	if err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
		return false
	}
	if !written {
		c.logger.Debug("cache write skipped, newer entry exists", "key", key)
	}
	return written
}

// Purge removes every entry.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	return c.store.Purge(ctx)
}

// Len returns the number of entries, or 0 when the backend cannot be read.
func (c *Cache) Len(ctx context.Context) int {
	n, err := c.store.Len(ctx)
	if err != nil {
		c.logger.Warn("cache size unavailable", "error", err)
		return 0
	}
	return n
}

func (c *Cache) load(ctx context.Context, key string) (Entry, bool) {
	e, ok, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return Entry{}, false
	}
	return e, ok
}

// GetJSON decodes the fresh entry for key into a T.
func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var v T
	e, ok := c.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		c.logger.Warn("cache entry undecodable", "key", key, "error", err)
		return v, false
	}
	return v, true
}

// SetJSON encodes v and stores it under key stamped with storedAt.
func SetJSON[T any](ctx context.Context, c *Cache, key string, v T, storedAt time.Time) bool {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache value unencodable", "key", key, "error", err)
		return false
	}
	return c.SetAt(ctx, key, data, storedAt)
}
