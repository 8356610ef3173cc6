package iam

import "fmt"

// Effect is the declared effect of a statement.
type Effect string

// Statement effects.
const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Valid reports whether the effect is one of the declared effects.
func (e Effect) Valid() bool {
	return e == EffectAllow || e == EffectDeny
}

// MaybeEffect is the three-valued intermediate result of evaluating a
// statement or policy against a request. It is collapsed to a boolean
// only at the collection level.
type MaybeEffect int

// Evaluation results.
const (
	// NotSpecified means no statement matched the request.
	NotSpecified MaybeEffect = iota

	// Allowed means at least one allow statement matched and no deny did.
	Allowed

	// Denied means a deny statement matched the request.
	Denied
)

// String returns a human-readable form of the evaluation result.
func (m MaybeEffect) String() string {
	switch m {
	case NotSpecified:
		return "not specified"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return fmt.Sprintf("MaybeEffect(%d)", int(m))
	}
}

// foldEffects folds the three-valued results of n evaluations into one.
// Denied short-circuits immediately; Allowed is sticky but overridable
// by a later deny. Statement, policy, and collection evaluation all
// share this fold shape.
func foldEffects(n int, eval func(int) MaybeEffect) MaybeEffect {
	allowed := false
	for i := 0; i < n; i++ {
		switch eval(i) {
		case Denied:
			return Denied
		case Allowed:
			allowed = true
		}
	}
	if allowed {
		return Allowed
	}
	return NotSpecified
}
