package layout

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/grapher/pkg/cache"
	"github.com/matzehuels/grapher/pkg/observability"
)

// CacheVersion is part of every layout cache key. Bump it when the response
// format or an engine's output changes incompatibly.
const CacheVersion = "1"

const cacheKeyType = "layout"

// CachedEngine serves layouts from a cache and stores fresh ones.
// Cancelled and failed layouts are never cached.
type CachedEngine struct {
	Engine Engine
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// CacheOption configures a CachedEngine.
type CacheOption func(*CachedEngine)

// WithKeyer sets the key builder.
func WithKeyer(k cache.Keyer) CacheOption { return func(c *CachedEngine) { c.Keyer = k } }

// WithTTL sets the entry lifetime.
func WithTTL(ttl time.Duration) CacheOption { return func(c *CachedEngine) { c.TTL = ttl } }

// WithCacheLogger sets the logger.
func WithCacheLogger(l *log.Logger) CacheOption { return func(c *CachedEngine) { c.Logger = l } }

// Cached wraps engine with c. A nil cache disables caching.
func Cached(engine Engine, c cache.Cache, opts ...CacheOption) *CachedEngine {
	ce := &CachedEngine{
		Engine: engine,
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		TTL:    cache.DefaultTTL,
		Logger: log.Default(),
	}
	for _, opt := range opts {
		opt(ce)
	}
	if ce.Cache == nil {
		ce.Cache = cache.NewNullCache()
	}
	return ce
}

// Name reports the wrapped engine's name.
func (c *CachedEngine) Name() string { return EngineName(c.Engine) }

// Key returns the cache key of req.
func (c *CachedEngine) Key(req *Request) string {
	return c.Keyer.LayoutKey(req.Hash(), cache.LayoutKeyOpts{
		Engine:  c.Name(),
		Version: CacheVersion,
	})
}

// Layout implements Engine.
func (c *CachedEngine) Layout(ctx context.Context, req *Request) (*Response, error) {
	key := c.Key(req)
	hooks := observability.Cache()

	if data, hit, err := c.Cache.Get(ctx, key); err == nil && hit {
		if resp, err := UnmarshalResponse(data); err == nil && resp.Validate(req) == nil {
			hooks.OnCacheHit(ctx, cacheKeyType)
			c.Logger.Debug("layout cache hit", "key", key)
			return resp, nil
		}
	} else if err != nil {
		c.Logger.Warn("layout cache read failed", "error", err)
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	resp, err := c.Engine.Layout(ctx, req)
	if err != nil || resp == nil || resp.Cancelled() {
		return resp, err
	}
	if resp.Type == "" {
		resp.Type = TypeLayout
	}
	if resp.Validate(req) != nil {
		return resp, nil
	}
	if data, err := MarshalResponse(resp); err == nil {
		if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
			c.Logger.Warn("layout cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return resp, nil
}
