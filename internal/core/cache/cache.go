package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TTL is the absolute lifetime of every entry written through the gateway.
const TTL = 5 * time.Minute

var cacheRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "cache_requests_total", Help: "Cache lookups by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(cacheRequests) }

// Gateway is a typed read/write front for Redis. Any failure talking to Redis
// is logged and reported to callers as a miss, so the store stays authoritative.
// A Gateway without a client never hits.
type Gateway struct {
	rdb redis.Cmdable
	log *zap.Logger
}

func NewGateway(rdb redis.Cmdable, l *zap.Logger) *Gateway {
	if l == nil {
		l = zap.NewNop()
	}
	return &Gateway{rdb: rdb, log: l}
}

// New dials nothing; go-redis connects lazily on first command.
// An empty addr disables caching.
func New(addr, pass string, db int, l *zap.Logger) (*Gateway, *redis.Client) {
	if addr == "" {
		return NewGateway(nil, l), nil
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
	return NewGateway(c, l), c
}

func (g *Gateway) Enabled() bool { return g != nil && g.rdb != nil }

func (g *Gateway) getString(ctx context.Context, key string) (string, bool) {
	if !g.Enabled() {
		return "", false
	}
	s, err := g.rdb.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		cacheRequests.WithLabelValues("miss").Inc()
		return "", false
	case err != nil:
		cacheRequests.WithLabelValues("error").Inc()
		g.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	cacheRequests.WithLabelValues("hit").Inc()
	return s, true
}

func (g *Gateway) setString(ctx context.Context, key, val string) {
	if !g.Enabled() {
		return
	}
	if err := g.rdb.Set(ctx, key, val, TTL).Err(); err != nil {
		g.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete drops keys after a write. Errors are logged only.
func (g *Gateway) Delete(ctx context.Context, keys ...string) {
	if !g.Enabled() || len(keys) == 0 {
		return
	}
	if err := g.rdb.Del(ctx, keys...).Err(); err != nil {
		g.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Get decodes the JSON text stored under key.
func Get[T any](ctx context.Context, g *Gateway, key string) (T, bool) {
	var out T
	s, ok := g.getString(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		g.log.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		return out, false
	}
	return out, true
}

// Set stores v as JSON text for TTL.
func Set[T any](ctx context.Context, g *Gateway, key string, v T) {
	if !g.Enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		g.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	g.setString(ctx, key, string(b))
}

// ReadThrough returns the cached value for key, or calls load and caches its
// result when load reports it as cacheable. Concurrent misses each call load.
func ReadThrough[T any](
	ctx context.Context,
	g *Gateway,
	key string,
	load func(ctx context.Context) (v T, cacheable bool, err error),
) (T, error) {
	if v, ok := Get[T](ctx, g, key); ok {
		g.log.Debug("cache hit", zap.String("key", key))
		return v, nil
	}
	g.log.Debug("cache miss", zap.String("key", key))
	v, cacheable, err := load(ctx)
	if err != nil {
		return v, err
	}
	if cacheable {
		Set(ctx, g, key, v)
	}
	return v, nil
}
