package quote

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultWindow is the freshness window of a cache entry.
const DefaultWindow = 5 * time.Minute

type entry struct {
	payload   any
	fetchedAt time.Time
	synthetic bool
}

// Cache memoizes lookups by key for a fixed freshness window.
//
// An entry is fresh while now - fetchedAt < window. Stale entries are never
// evicted, they are overwritten by the next Put on the same key. The number
// of keys is bounded by the number of distinct requests an application makes.
type Cache struct {
	window  time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics *Metrics

	mu      sync.RWMutex
	entries map[string]entry
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithWindow sets the freshness window, defaults to DefaultWindow.
func WithWindow(d time.Duration) CacheOption { return func(c *Cache) { c.window = d } }

// WithClock sets the clock of the cache.
func WithClock(now func() time.Time) CacheOption { return func(c *Cache) { c.now = now } }

// WithLogger sets the logger of the cache.
func WithLogger(l *zap.Logger) CacheOption { return func(c *Cache) { c.logger = l } }

// WithMetrics records cache hits, misses and fallbacks.
func WithMetrics(m *Metrics) CacheOption { return func(c *Cache) { c.metrics = m } }

// NewCache returns an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		window:  DefaultWindow,
		now:     time.Now,
		logger:  zap.NewNop(),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window returns the freshness window.
func (c *Cache) Window() time.Duration { return c.window }

// Get returns the payload stored under key if it is still fresh.
func (c *Cache) Get(key string) (any, bool) {
	e, ok := c.lookup(key)
	if !ok {
		return nil, false
	}
	return e.payload, true
}

func (c *Cache) lookup(key string) (entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().Sub(e.fetchedAt) >= c.window {
		c.metrics.miss()
		return entry{}, false
	}
	c.metrics.hit()
	return e, true
}

// Put stores payload under key, stamped with the current time. It always
// overwrites a previous entry.
func (c *Cache) Put(key string, payload any) { c.put(key, payload, false) }

func (c *Cache) put(key string, payload any, synthetic bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{payload: payload, fetchedAt: c.now(), synthetic: synthetic}
}

// Result is the outcome of FetchWithFallback.
type Result[T any] struct {
	Payload T
	// Synthetic is set when the payload is fallback demo data.
	Synthetic bool
	// Cached is set when the payload was served from the cache.
	Cached bool
}

// FetchWithFallback returns the fresh cached payload of key, or calls
// primary. If primary fails the payload is built by fallback instead. Either
// way the outcome is stored in the cache, so a failing provider is not
// called again before the window expires.
//
// The lock is not held while primary runs: concurrent misses on the same key
// all call primary and the last one to finish wins.
func FetchWithFallback[T any](ctx context.Context, c *Cache, key string, primary func(context.Context) (T, error), fallback func() T) Result[T] {
	if e, ok := c.lookup(key); ok {
		if payload, ok := e.payload.(T); ok {
			return Result[T]{Payload: payload, Synthetic: e.synthetic, Cached: true}
		}
		c.logger.Warn("cache entry of unexpected type, refetching", zap.String("key", key))
	}
	return fetch(ctx, c, key, primary, fallback)
}

// Refresh calls primary whatever the cache holds and stores its payload, so
// that scheduled refreshes are not absorbed by the freshness window. When
// primary fails, a fresh payload from a successful fetch is kept, otherwise
// the fallback is stored as by FetchWithFallback.
func Refresh[T any](ctx context.Context, c *Cache, key string, primary func(context.Context) (T, error), fallback func() T) Result[T] {
	payload, err := primary(ctx)
	if err == nil {
		c.put(key, payload, false)
		return Result[T]{Payload: payload}
	}
	if e, ok := c.lookup(key); ok && !e.synthetic {
		if payload, ok := e.payload.(T); ok {
			c.logger.Warn("refresh failed, keeping cached data", zap.String("key", key), zap.Error(err))
			return Result[T]{Payload: payload, Cached: true}
		}
	}
	return fail(c, key, err, fallback)
}

func fetch[T any](ctx context.Context, c *Cache, key string, primary func(context.Context) (T, error), fallback func() T) Result[T] {
	payload, err := primary(ctx)
	if err != nil {
		return fail(c, key, err, fallback)
	}
	c.put(key, payload, false)
	return Result[T]{Payload: payload}
}

// fail stores and returns the fallback payload of key.
func fail[T any](c *Cache, key string, err error, fallback func() T) Result[T] {
	c.logger.Warn("fetch failed, using demo data", zap.String("key", key), zap.Error(err))
	c.metrics.fallback(key)
	payload := fallback()
	c.put(key, payload, true)
	return Result[T]{Payload: payload, Synthetic: true}
}

// keyKind is the part of a key before its first '_', used as a metric label.
func keyKind(key string) string {
	kind, _, _ := strings.Cut(key, "_")
	return kind
}
