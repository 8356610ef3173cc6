// Package authz evaluates authorization requests against the loaded
// policy collection, with decision caching, metrics, and tracing.
package authz
