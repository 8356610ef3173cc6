package authz

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/aviam/internal/iam"
	"github.com/vyrodovalexey/aviam/internal/iam/awsiam"
	"github.com/vyrodovalexey/aviam/internal/observability"
	"github.com/vyrodovalexey/aviam/internal/policystore"
)

// authzTracer is the OTEL tracer used for authorization operations.
var authzTracer = otel.Tracer("aviam/authz")

// Decision represents an authorization decision.
type Decision struct {
	// Allowed indicates if the request is allowed.
	Allowed bool

	// Effect is the evaluation outcome: "allowed", "denied", or
	// "not_specified".
	Effect string

	// Reason is the reason for the decision.
	Reason string

	// Policy is the policy that made the decision, if any.
	Policy string

	// Cached indicates if the decision came from cache.
	Cached bool
}

// Request represents an authorization request.
type Request struct {
	// Action is the action being performed, e.g. "s3:GetObject".
	Action string

	// Resource is the textual resource address, e.g.
	// "arn:aws:s3:::mybucket/file.txt".
	Resource string
}

// Authorizer evaluates authorization requests.
type Authorizer interface {
	// Authorize evaluates a request against the loaded policies.
	Authorize(ctx context.Context, req *Request) (*Decision, error)

	// ClearCache drops all cached decisions. Call it after a policy
	// reload so stale decisions do not outlive the policies that
	// produced them.
	ClearCache(ctx context.Context)

	// Close closes the authorizer.
	Close() error
}

// authorizer implements the Authorizer interface.
type authorizer struct {
	store   *policystore.Store
	cache   DecisionCache
	logger  observability.Logger
	metrics *Metrics
}

// AuthorizerOption is a functional option for the authorizer.
type AuthorizerOption func(*authorizer)

// WithAuthorizerLogger sets the logger.
func WithAuthorizerLogger(logger observability.Logger) AuthorizerOption {
	return func(a *authorizer) {
		a.logger = logger
	}
}

// WithAuthorizerMetrics sets the metrics.
func WithAuthorizerMetrics(metrics *Metrics) AuthorizerOption {
	return func(a *authorizer) {
		a.metrics = metrics
	}
}

// WithDecisionCache sets the decision cache.
func WithDecisionCache(cache DecisionCache) AuthorizerOption {
	return func(a *authorizer) {
		a.cache = cache
	}
}

// New creates a new authorizer over the given policy store.
func New(store *policystore.Store, opts ...AuthorizerOption) Authorizer {
	a := &authorizer{
		store:  store,
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.cache == nil {
		a.cache = NewNoopDecisionCache()
	}

	return a
}

// Authorize evaluates a request against the current policy snapshot.
// Input that cannot be parsed surfaces as an *iam.ParseError so callers
// can distinguish malformed requests from denied ones.
func (a *authorizer) Authorize(ctx context.Context, req *Request) (*Decision, error) {
	start := time.Now()

	ctx, span := authzTracer.Start(ctx, "authz.authorize",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("authz.action", req.Action),
			attribute.String("authz.resource", req.Resource),
		),
	)
	defer span.End()

	if req.Action == "" {
		span.SetAttributes(attribute.String("authz.result", "invalid"))
		return nil, ErrMissingAction
	}
	if req.Resource == "" {
		span.SetAttributes(attribute.String("authz.result", "invalid"))
		return nil, ErrMissingResource
	}

	action, err := awsiam.ParseAction(req.Action)
	if err != nil {
		span.SetAttributes(attribute.String("authz.result", "invalid"))
		return nil, &iam.ParseError{Field: "action", Input: req.Action, Err: err}
	}

	resource, err := awsiam.ParseResource(req.Resource)
	if err != nil {
		span.SetAttributes(attribute.String("authz.result", "invalid"))
		return nil, err
	}

	cacheKey := &CacheKey{Action: req.Action, Resource: req.Resource}
	if cached, ok := a.cache.Get(ctx, cacheKey); ok {
		span.SetAttributes(
			attribute.Bool("authz.cached", true),
			attribute.Bool("authz.allowed", cached.Allowed),
		)
		a.logger.Debug("authorization decision from cache",
			observability.String("action", req.Action),
			observability.String("resource", req.Resource),
			observability.Bool("allowed", cached.Allowed),
		)
		return &Decision{
			Allowed: cached.Allowed,
			Effect:  cached.Effect,
			Reason:  cached.Reason,
			Policy:  cached.Policy,
			Cached:  true,
		}, nil
	}

	decision := a.evaluate(action, resource)

	a.cache.Set(ctx, cacheKey, &CachedDecision{
		Allowed: decision.Allowed,
		Effect:  decision.Effect,
		Reason:  decision.Reason,
		Policy:  decision.Policy,
	})

	result := "denied"
	if decision.Allowed {
		result = "allowed"
	}
	a.metrics.RecordEvaluation(result, time.Since(start))
	a.metrics.RecordDecision(result, decision.Policy)

	span.SetAttributes(
		attribute.Bool("authz.cached", false),
		attribute.Bool("authz.allowed", decision.Allowed),
		attribute.String("authz.effect", decision.Effect),
		attribute.String("authz.policy", decision.Policy),
	)

	a.logger.Debug("authorization decision",
		observability.String("action", req.Action),
		observability.String("resource", req.Resource),
		observability.Bool("allowed", decision.Allowed),
		observability.String("effect", decision.Effect),
		observability.String("policy", decision.Policy),
	)

	return decision, nil
}

// evaluate runs the request against every policy in the snapshot. A
// deny from any policy wins over any allow; no match at all denies by
// default.
func (a *authorizer) evaluate(action awsiam.Action, resource awsiam.Resource) *Decision {
	collection := a.store.Collection()

	allowPolicy := ""
	for _, policy := range collection {
		switch policy.Eval(action, resource) {
		case iam.Denied:
			return &Decision{
				Allowed: false,
				Effect:  "denied",
				Reason:  "explicitly denied",
				Policy:  policy.Name,
			}
		case iam.Allowed:
			if allowPolicy == "" {
				allowPolicy = policy.Name
			}
		}
	}

	if allowPolicy != "" {
		return &Decision{
			Allowed: true,
			Effect:  "allowed",
			Reason:  "explicitly allowed",
			Policy:  allowPolicy,
		}
	}

	return &Decision{
		Allowed: false,
		Effect:  "not_specified",
		Reason:  "no policy matched, denied by default",
	}
}

// ClearCache drops all cached decisions.
func (a *authorizer) ClearCache(ctx context.Context) {
	a.cache.Clear(ctx)
	a.logger.Info("decision cache cleared")
}

// Close closes the authorizer.
func (a *authorizer) Close() error {
	return a.cache.Close()
}

// Ensure authorizer implements Authorizer.
var _ Authorizer = (*authorizer)(nil)
