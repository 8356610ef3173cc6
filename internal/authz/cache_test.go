package authz

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/aviam/internal/cache"
	"github.com/vyrodovalexey/aviam/internal/config"
	"github.com/vyrodovalexey/aviam/internal/observability"
)

func TestCacheKeyString(t *testing.T) {
	t.Parallel()

	a := &CacheKey{Action: "s3:GetObject", Resource: "arn:aws:s3:::b/x"}
	b := &CacheKey{Action: "s3:GetObject", Resource: "arn:aws:s3:::b/x"}
	c := &CacheKey{Action: "s3:PutObject", Resource: "arn:aws:s3:::b/x"}

	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a.String(), c.String())
	assert.Len(t, a.String(), 64)
}

// newMemoryBackedCache builds a decision cache over the in-memory
// byte-level backend, the same layering the binary uses for
// type "memory".
func newMemoryBackedCache(t *testing.T, ttl time.Duration, maxEntries int) DecisionCache {
	t.Helper()

	backend, err := cache.New(&config.CacheConfig{
		Enabled:    true,
		Type:       config.CacheTypeMemory,
		TTL:        config.Duration(ttl),
		MaxEntries: maxEntries,
	}, observability.NopLogger())
	require.NoError(t, err)

	return NewExternalDecisionCache(backend, ttl)
}

func TestMemoryBackedDecisionCache(t *testing.T) {
	t.Parallel()

	c := newMemoryBackedCache(t, time.Minute, 10)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	key := &CacheKey{Action: "s3:GetObject", Resource: "arn:aws:s3:::b/x"}

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, &CachedDecision{Allowed: true, Effect: "allowed", Policy: "p"})

	cached, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.True(t, cached.Allowed)
	assert.Equal(t, "allowed", cached.Effect)
	assert.Equal(t, "p", cached.Policy)

	c.Delete(ctx, key)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestMemoryBackedDecisionCache_Expiry(t *testing.T) {
	t.Parallel()

	c := newMemoryBackedCache(t, 10*time.Millisecond, 10)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	key := &CacheKey{Action: "a", Resource: "r"}

	c.Set(ctx, key, &CachedDecision{Allowed: true})
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
}

func TestMemoryBackedDecisionCache_Eviction(t *testing.T) {
	t.Parallel()

	c := newMemoryBackedCache(t, time.Minute, 2)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()

	c.Set(ctx, &CacheKey{Action: "a1", Resource: "r"}, &CachedDecision{Allowed: true})
	c.Set(ctx, &CacheKey{Action: "a2", Resource: "r"}, &CachedDecision{Allowed: true})
	c.Set(ctx, &CacheKey{Action: "a3", Resource: "r"}, &CachedDecision{Allowed: true})

	present := 0
	for _, action := range []string{"a1", "a2", "a3"} {
		if _, ok := c.Get(ctx, &CacheKey{Action: action, Resource: "r"}); ok {
			present++
		}
	}
	assert.Equal(t, 2, present)
}

func TestMemoryBackedDecisionCache_Clear(t *testing.T) {
	t.Parallel()

	c := newMemoryBackedCache(t, time.Minute, 10)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	key := &CacheKey{Action: "a", Resource: "r"}

	c.Set(ctx, key, &CachedDecision{Allowed: true})
	_, ok := c.Get(ctx, key)
	require.True(t, ok)

	c.Clear(ctx)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestExternalDecisionCache(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	backend, err := cache.New(&config.CacheConfig{
		Enabled: true,
		Type:    config.CacheTypeRedis,
		TTL:     config.Duration(time.Minute),
		Redis:   &config.RedisCacheConfig{URL: "redis://" + mr.Addr()},
	}, observability.NopLogger())
	require.NoError(t, err)

	c := NewExternalDecisionCache(backend, time.Minute,
		WithExternalCachePrefix("authz-test:"),
	)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	key := &CacheKey{Action: "s3:GetObject", Resource: "arn:aws:s3:::b/x"}

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, &CachedDecision{
		Allowed: false,
		Effect:  "denied",
		Reason:  "explicitly denied",
		Policy:  "deny-policy",
	})

	cached, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.False(t, cached.Allowed)
	assert.Equal(t, "denied", cached.Effect)
	assert.Equal(t, "deny-policy", cached.Policy)

	c.Delete(ctx, key)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, &CachedDecision{Allowed: true})
	_, ok = c.Get(ctx, key)
	require.True(t, ok)

	c.Clear(ctx)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestNoopDecisionCache(t *testing.T) {
	t.Parallel()

	c := NewNoopDecisionCache()
	ctx := context.Background()
	key := &CacheKey{Action: "a", Resource: "r"}

	c.Set(ctx, key, &CachedDecision{Allowed: true})
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}
