package iam

import (
	"encoding/json"
	"strings"
)

// ResourcePrefix is the literal prefix marking a structured resource
// address.
const ResourcePrefix = "arn:"

// Resource is a partially-specified resource address: six optional
// identifier fields addressing partition, service, region, account,
// resource type, and resource id. A nil field is unconstrained and
// matches anything. Resources are immutable values; copy them freely.
type Resource[P Value[P], S Value[S], R Value[R], A Value[A], T Value[T], I Value[I]] struct {
	// Partition is the partition grouping regions, e.g. "aws".
	Partition *P

	// Service is the service namespace, e.g. "s3".
	Service *S

	// Region is the region code, e.g. "us-east-2".
	Region *R

	// AccountID identifies the account that owns the resource.
	AccountID *A

	// ResourceType is the type of resource, e.g. "bucket".
	ResourceType *T

	// ResourceID is the resource identifier, name, or path.
	ResourceID *I
}

// String renders the canonical textual form: the "arn:" prefix followed
// by the six colon-joined fields, absent fields as empty segments.
func (r Resource[P, S, R, A, T, I]) String() string {
	return ResourcePrefix + strings.Join([]string{
		renderField(r.Partition),
		renderField(r.Service),
		renderField(r.Region),
		renderField(r.AccountID),
		renderField(r.ResourceType),
		renderField(r.ResourceID),
	}, ":")
}

// Equal reports whether two resource addresses specify the same fields
// with equal values.
func (r Resource[P, S, R, A, T, I]) Equal(other Resource[P, S, R, A, T, I]) bool {
	return equalField(r.Partition, other.Partition) &&
		equalField(r.Service, other.Service) &&
		equalField(r.Region, other.Region) &&
		equalField(r.AccountID, other.AccountID) &&
		equalField(r.ResourceType, other.ResourceType) &&
		equalField(r.ResourceID, other.ResourceID)
}

// Matches reports whether the receiver, treated as the declared side,
// matches the candidate address. Each field delegates to the identifier
// type's match predicate when both sides are present; an absent field
// on either side matches trivially. The result is the AND of all six
// fields, short-circuiting on the first mismatch or error.
func (r Resource[P, S, R, A, T, I]) Matches(candidate Resource[P, S, R, A, T, I]) (bool, error) {
	if ok, err := matchField(r.Partition, candidate.Partition); err != nil || !ok {
		return false, err
	}
	if ok, err := matchField(r.Service, candidate.Service); err != nil || !ok {
		return false, err
	}
	if ok, err := matchField(r.Region, candidate.Region); err != nil || !ok {
		return false, err
	}
	if ok, err := matchField(r.AccountID, candidate.AccountID); err != nil || !ok {
		return false, err
	}
	if ok, err := matchField(r.ResourceType, candidate.ResourceType); err != nil || !ok {
		return false, err
	}
	return matchField(r.ResourceID, candidate.ResourceID)
}

// MarshalJSON flattens the address to its canonical string form.
// External representations of a resource address are always the
// ARN-style string, never a nested object.
func (r Resource[P, S, R, A, T, I]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// renderField renders a present field via its type's String and an
// absent field as an empty segment.
func renderField[T Value[T]](field *T) string {
	if field == nil {
		return ""
	}
	return (*field).String()
}

// equalField compares two optional fields.
func equalField[T Value[T]](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return (*a).Equal(*b)
}

// matchField applies the field type's match predicate when both sides
// are present; an absent side is unconstrained.
func matchField[T Value[T]](declared, candidate *T) (bool, error) {
	if declared == nil || candidate == nil {
		return true, nil
	}
	return (*declared).Matches(*candidate)
}
