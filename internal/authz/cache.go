package authz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/vyrodovalexey/aviam/internal/cache"
	"github.com/vyrodovalexey/aviam/internal/observability"
)

// DecisionCache caches authorization decisions.
type DecisionCache interface {
	// Get retrieves a cached decision.
	Get(ctx context.Context, key *CacheKey) (*CachedDecision, bool)

	// Set stores a decision in the cache.
	Set(ctx context.Context, key *CacheKey, decision *CachedDecision)

	// Delete removes a decision from the cache.
	Delete(ctx context.Context, key *CacheKey)

	// Clear drops all cached decisions, e.g. after a policy reload.
	Clear(ctx context.Context)

	// Close closes the cache.
	Close() error
}

// CacheKey identifies a decision by the action and resource evaluated.
type CacheKey struct {
	// Action is the action being performed.
	Action string

	// Resource is the resource being accessed.
	Resource string
}

// String returns a fixed-length digest of the cache key.
func (k *CacheKey) String() string {
	h := sha256.New()
	h.Write([]byte(k.Action))
	h.Write([]byte{0})
	h.Write([]byte(k.Resource))
	return hex.EncodeToString(h.Sum(nil))
}

// CachedDecision represents a cached authorization decision.
type CachedDecision struct {
	// Allowed indicates if the request was allowed.
	Allowed bool `json:"allowed"`

	// Effect is the evaluation outcome.
	Effect string `json:"effect,omitempty"`

	// Reason is the reason for the decision.
	Reason string `json:"reason,omitempty"`

	// Policy is the policy that made the decision.
	Policy string `json:"policy,omitempty"`

	// CachedAt is when the decision was cached.
	CachedAt time.Time `json:"cached_at"`

	// ExpiresAt is when the cached decision expires.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the cached decision has expired.
func (d *CachedDecision) IsExpired() bool {
	return time.Now().After(d.ExpiresAt)
}

// externalDecisionCache implements DecisionCache on top of a byte-level
// cache backend from the cache package (in-memory LRU or redis).
type externalDecisionCache struct {
	cache   cache.Cache
	ttl     time.Duration
	prefix  string
	logger  observability.Logger
	metrics *Metrics
}

// ExternalCacheOption is a functional option for the external cache.
type ExternalCacheOption func(*externalDecisionCache)

// WithExternalCacheLogger sets the logger.
func WithExternalCacheLogger(logger observability.Logger) ExternalCacheOption {
	return func(c *externalDecisionCache) {
		c.logger = logger
	}
}

// WithExternalCacheMetrics sets the metrics.
func WithExternalCacheMetrics(metrics *Metrics) ExternalCacheOption {
	return func(c *externalDecisionCache) {
		c.metrics = metrics
	}
}

// WithExternalCachePrefix sets the key prefix.
func WithExternalCachePrefix(prefix string) ExternalCacheOption {
	return func(c *externalDecisionCache) {
		c.prefix = prefix
	}
}

// NewExternalDecisionCache creates a decision cache over a byte-level
// backend.
func NewExternalDecisionCache(c cache.Cache, ttl time.Duration, opts ...ExternalCacheOption) DecisionCache {
	ec := &externalDecisionCache{
		cache:  c,
		ttl:    ttl,
		prefix: "authz:",
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(ec)
	}

	return ec
}

// Get retrieves a cached decision.
func (c *externalDecisionCache) Get(ctx context.Context, key *CacheKey) (*CachedDecision, bool) {
	cacheKey := c.prefix + key.String()

	data, err := c.cache.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn("failed to get cached decision",
				observability.Error(err),
			)
		}
		c.metrics.RecordCacheMiss()
		return nil, false
	}

	var decision CachedDecision
	if err := json.Unmarshal(data, &decision); err != nil {
		c.logger.Warn("failed to unmarshal cached decision",
			observability.Error(err),
		)
		c.metrics.RecordCacheMiss()
		return nil, false
	}

	if decision.IsExpired() {
		c.metrics.RecordCacheMiss()
		return nil, false
	}

	c.metrics.RecordCacheHit()
	return &decision, true
}

// Set stores a decision in the cache.
func (c *externalDecisionCache) Set(ctx context.Context, key *CacheKey, decision *CachedDecision) {
	cacheKey := c.prefix + key.String()

	decision.CachedAt = time.Now()
	decision.ExpiresAt = time.Now().Add(c.ttl)

	data, err := json.Marshal(decision)
	if err != nil {
		c.logger.Warn("failed to marshal decision",
			observability.Error(err),
		)
		return
	}

	if err := c.cache.Set(ctx, cacheKey, data, c.ttl); err != nil {
		c.logger.Warn("failed to store cached decision",
			observability.Error(err),
		)
	}
}

// Delete removes a decision from the cache.
func (c *externalDecisionCache) Delete(ctx context.Context, key *CacheKey) {
	if err := c.cache.Delete(ctx, c.prefix+key.String()); err != nil {
		c.logger.Warn("failed to delete cached decision",
			observability.Error(err),
		)
	}
}

// Clear drops all cached decisions from the backend.
func (c *externalDecisionCache) Clear(ctx context.Context) {
	if err := c.cache.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear decision cache",
			observability.Error(err),
		)
	}
}

// Close closes the cache.
func (c *externalDecisionCache) Close() error {
	return c.cache.Close()
}

// noopDecisionCache caches nothing.
type noopDecisionCache struct{}

// NewNoopDecisionCache creates a decision cache that caches nothing.
func NewNoopDecisionCache() DecisionCache {
	return &noopDecisionCache{}
}

func (c *noopDecisionCache) Get(ctx context.Context, key *CacheKey) (*CachedDecision, bool) {
	return nil, false
}

func (c *noopDecisionCache) Set(ctx context.Context, key *CacheKey, decision *CachedDecision) {}

func (c *noopDecisionCache) Delete(ctx context.Context, key *CacheKey) {}

func (c *noopDecisionCache) Clear(ctx context.Context) {}

func (c *noopDecisionCache) Close() error {
	return nil
}

// Ensure implementations satisfy the interface.
var (
	_ DecisionCache = (*externalDecisionCache)(nil)
	_ DecisionCache = (*noopDecisionCache)(nil)
)
