package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/aviam/internal/config"
	"github.com/vyrodovalexey/aviam/internal/observability"
)

// redisCache implements a Redis-based cache.
type redisCache struct {
	logger     observability.Logger
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration

	hits   int64
	misses int64
}

// newRedisCache creates a new Redis cache from configuration.
func newRedisCache(cfg *config.CacheConfig, logger observability.Logger) (*redisCache, error) {
	if cfg.Redis == nil || cfg.Redis.URL == "" {
		return nil, errors.New("redis URL is required")
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, errors.New("invalid redis URL: " + err.Error())
	}

	if cfg.Redis.PoolSize > 0 {
		opts.PoolSize = cfg.Redis.PoolSize
	}
	if cfg.Redis.ConnectTimeout > 0 {
		opts.DialTimeout = cfg.Redis.ConnectTimeout.Duration()
	}
	if cfg.Redis.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.Redis.ReadTimeout.Duration()
	}
	if cfg.Redis.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.Redis.WriteTimeout.Duration()
	}

	client := redis.NewClient(opts)

	if err := pingRedis(client); err != nil {
		_ = client.Close()
		return nil, errors.New("redis connection failed: " + err.Error())
	}

	keyPrefix := cfg.Redis.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "aviam:"
	}

	c := &redisCache{
		logger:     logger,
		client:     client,
		keyPrefix:  keyPrefix,
		defaultTTL: cfg.TTL.Duration(),
	}

	logger.Info("redis cache initialized",
		observability.String("keyPrefix", keyPrefix),
		observability.Duration("defaultTTL", c.defaultTTL))

	return c, nil
}

// pingRedis tests the Redis connection with a timeout.
func pingRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}

// Get retrieves a value from the cache.
func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := otel.Tracer(cacheTracerName).Start(ctx, "cache.Get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("cache.backend", "redis"),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		getCacheMetrics().operationDuration.WithLabelValues(
			"redis", "get",
		).Observe(time.Since(start).Seconds())
	}()

	val, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err == nil {
		atomic.AddInt64(&c.hits, 1)
		getCacheMetrics().hitsTotal.WithLabelValues("redis").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return val, nil
	}

	if errors.Is(err, redis.Nil) {
		atomic.AddInt64(&c.misses, 1)
		getCacheMetrics().missesTotal.WithLabelValues("redis").Inc()
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, ErrCacheMiss
	}

	getCacheMetrics().errorsTotal.WithLabelValues("redis", "get").Inc()
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
	c.logger.Error("redis get failed", observability.Error(err))
	return nil, err
}

// Set stores a value in the cache.
func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := otel.Tracer(cacheTracerName).Start(ctx, "cache.Set",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("cache.backend", "redis"),
			attribute.Int("cache.value_size", len(value)),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		getCacheMetrics().operationDuration.WithLabelValues(
			"redis", "set",
		).Observe(time.Since(start).Seconds())
	}()

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err()
	if err != nil {
		getCacheMetrics().errorsTotal.WithLabelValues("redis", "set").Inc()
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		c.logger.Error("redis set failed", observability.Error(err))
	}
	return err
}

// Delete removes a value from the cache.
func (c *redisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.keyPrefix+key).Err()
	if err != nil {
		getCacheMetrics().errorsTotal.WithLabelValues("redis", "delete").Inc()
		c.logger.Error("redis delete failed", observability.Error(err))
	}
	return err
}

// Clear removes every key under this cache's prefix.
func (c *redisCache) Clear(ctx context.Context) error {
	ctx, span := otel.Tracer(cacheTracerName).Start(ctx, "cache.Clear",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("cache.backend", "redis"),
		),
	)
	defer span.End()

	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			getCacheMetrics().errorsTotal.WithLabelValues("redis", "clear").Inc()
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
			c.logger.Error("redis clear failed", observability.Error(err))
			return err
		}
	}
	if err := iter.Err(); err != nil {
		getCacheMetrics().errorsTotal.WithLabelValues("redis", "clear").Inc()
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		c.logger.Error("redis clear failed", observability.Error(err))
		return err
	}

	return nil
}

// Close closes the Redis connection.
func (c *redisCache) Close() error {
	return c.client.Close()
}

// Stats returns cache statistics.
func (c *redisCache) Stats() CacheStats {
	return CacheStats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

var _ CacheWithStats = (*redisCache)(nil)
