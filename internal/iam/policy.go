package iam

import "encoding/json"

// Policy is an ordered list of statements, optionally named. A policy
// is evaluated by folding its statements: the first deny short-circuits
// and any allow is sticky.
type Policy[AC Value[AC], P Value[P], S Value[S], R Value[R], A Value[A], T Value[T], I Value[I]] struct {
	// Name is an optional human-readable name for the policy.
	Name string

	// Statements is the ordered list of access-control rules.
	Statements []Statement[AC, P, S, R, A, T, I]
}

// Eval folds the policy's statements into one three-valued result for
// the given (action, resource) pair. Ordering does not affect the
// outcome because deny always wins, but the fold still exits on the
// first deny encountered.
func (p Policy[AC, P, S, R, A, T, I]) Eval(action AC, resource Resource[P, S, R, A, T, I]) MaybeEffect {
	return foldEffects(len(p.Statements), func(i int) MaybeEffect {
		return p.Statements[i].Eval(action, resource)
	})
}

// policyDoc is the wire form of a policy.
type policyDoc struct {
	Name       string            `json:"name,omitempty"`
	Statements []json.RawMessage `json:"statements"`
}

// MarshalJSON encodes the policy in its wire form.
func (p Policy[AC, P, S, R, A, T, I]) MarshalJSON() ([]byte, error) {
	doc := policyDoc{
		Name:       p.Name,
		Statements: make([]json.RawMessage, 0, len(p.Statements)),
	}
	for _, s := range p.Statements {
		raw, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		doc.Statements = append(doc.Statements, raw)
	}
	return json.Marshal(doc)
}
