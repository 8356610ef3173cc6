// Package iam implements an attribute-based access-control evaluation
// engine in the style of cloud IAM policy languages. Policies are built
// from statements carrying an effect (allow or deny), a list of action
// patterns, and a list of resource address patterns; a collection of
// policies is folded into a single allow/deny decision with explicit
// deny overriding any allow and default deny when nothing matches.
//
// The engine is generic over the seven identifier slots (action plus
// the six resource address fields). Any identifier type satisfying the
// Value constraint can participate; parsing is bound through a Scheme
// value carrying one parse function per slot. The awsiam subpackage
// provides the AWS-flavored reference identifier set.
//
// All evaluation operations are pure functions over immutable inputs
// and are safe for concurrent use without locking.
package iam
