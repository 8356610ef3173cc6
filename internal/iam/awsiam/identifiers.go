package awsiam

import (
	"errors"
	"fmt"

	"github.com/vyrodovalexey/aviam/internal/iam"
)

// Action is an operation identifier in "service:Operation" form, e.g.
// "s3:GetObject". Declared actions may carry wildcards ("s3:*").
type Action string

// ParseAction parses an action identifier.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return "", errors.New("action must not be empty")
	}
	return Action(s), nil
}

// String returns the textual form of the action.
func (a Action) String() string { return string(a) }

// Equal reports whether two actions are textually identical.
func (a Action) Equal(other Action) bool { return a == other }

// Matches treats the receiver as a wildcard pattern and the candidate
// as literal text.
func (a Action) Matches(candidate Action) (bool, error) {
	return iam.MatchWildcard(a.String(), candidate.String())
}

// Service is a service namespace, e.g. "s3". Declared services may
// carry wildcards.
type Service string

// ParseService parses a service namespace.
func ParseService(s string) (Service, error) {
	if s == "" {
		return "", errors.New("service must not be empty")
	}
	return Service(s), nil
}

// String returns the textual form of the service.
func (s Service) String() string { return string(s) }

// Equal reports whether two services are textually identical.
func (s Service) Equal(other Service) bool { return s == other }

// Matches treats the receiver as a wildcard pattern and the candidate
// as literal text.
func (s Service) Matches(candidate Service) (bool, error) {
	return iam.MatchWildcard(s.String(), candidate.String())
}

// AccountID is the numeric identifier of the account that owns a
// resource. Account ids match exactly, never by wildcard.
type AccountID string

// ParseAccountID parses an account id, requiring a non-empty run of
// digits.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return "", errors.New("account id must not be empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("account id %q must be numeric", s)
		}
	}
	return AccountID(s), nil
}

// String returns the textual form of the account id.
func (a AccountID) String() string { return string(a) }

// Equal reports whether two account ids are identical.
func (a AccountID) Equal(other AccountID) bool { return a == other }

// Matches compares account ids exactly.
func (a AccountID) Matches(candidate AccountID) (bool, error) {
	return iam.MatchExact(a, candidate)
}

// ResourceType is the type of resource, e.g. "bucket". Declared types
// may carry wildcards.
type ResourceType string

// ParseResourceType parses a resource type.
func ParseResourceType(s string) (ResourceType, error) {
	if s == "" {
		return "", errors.New("resource type must not be empty")
	}
	return ResourceType(s), nil
}

// String returns the textual form of the resource type.
func (t ResourceType) String() string { return string(t) }

// Equal reports whether two resource types are textually identical.
func (t ResourceType) Equal(other ResourceType) bool { return t == other }

// Matches treats the receiver as a wildcard pattern and the candidate
// as literal text.
func (t ResourceType) Matches(candidate ResourceType) (bool, error) {
	return iam.MatchWildcard(t.String(), candidate.String())
}

// ResourceID is the resource identifier, name, or path. Declared ids
// may carry wildcards ("mybucket/*").
type ResourceID string

// ParseResourceID parses a resource id.
func ParseResourceID(s string) (ResourceID, error) {
	if s == "" {
		return "", errors.New("resource id must not be empty")
	}
	return ResourceID(s), nil
}

// String returns the textual form of the resource id.
func (i ResourceID) String() string { return string(i) }

// Equal reports whether two resource ids are textually identical.
func (i ResourceID) Equal(other ResourceID) bool { return i == other }

// Matches treats the receiver as a wildcard pattern and the candidate
// as literal text.
func (i ResourceID) Matches(candidate ResourceID) (bool, error) {
	return iam.MatchWildcard(i.String(), candidate.String())
}
