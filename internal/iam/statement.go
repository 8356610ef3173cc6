package iam

import "encoding/json"

// Statement is a single allow/deny rule pairing action patterns with
// resource address patterns. The action and resource lists are
// disjunctive: the statement applies when any declared resource matches
// and any declared action matches. Statements are immutable once
// loaded.
type Statement[AC Value[AC], P Value[P], S Value[S], R Value[R], A Value[A], T Value[T], I Value[I]] struct {
	// Effect declares whether matching requests are allowed or denied.
	Effect Effect

	// Actions is the list of declared action patterns.
	Actions []AC

	// Resources is the list of declared resource address patterns.
	Resources []Resource[P, S, R, A, T, I]
}

// Eval decides the effect of the statement for one (action, resource)
// pair. A deny returns immediately; an allow is recorded and the
// remaining declared values are still scanned so a later deny in the
// same statement wins. Match errors are treated as non-matches: one
// malformed pattern among many declared values must not poison the
// whole decision.
func (s Statement[AC, P, S, R, A, T, I]) Eval(action AC, resource Resource[P, S, R, A, T, I]) MaybeEffect {
	allowed := false
	for _, declared := range s.Resources {
		if ok, err := declared.Matches(resource); err != nil || !ok {
			continue
		}
		for _, declaredAction := range s.Actions {
			if ok, err := declaredAction.Matches(action); err != nil || !ok {
				continue
			}
			if s.Effect == EffectDeny {
				return Denied
			}
			allowed = true
		}
	}
	if allowed {
		return Allowed
	}
	return NotSpecified
}

// statementDoc is the wire form of a statement.
type statementDoc struct {
	Effect    string   `json:"effect"`
	Actions   []string `json:"actions"`
	Resources []string `json:"resources"`
}

// MarshalJSON encodes the statement in its wire form, with resource
// addresses flattened to canonical strings.
func (s Statement[AC, P, S, R, A, T, I]) MarshalJSON() ([]byte, error) {
	doc := statementDoc{
		Effect:    string(s.Effect),
		Actions:   make([]string, 0, len(s.Actions)),
		Resources: make([]string, 0, len(s.Resources)),
	}
	for _, a := range s.Actions {
		doc.Actions = append(doc.Actions, a.String())
	}
	for _, r := range s.Resources {
		doc.Resources = append(doc.Resources, r.String())
	}
	return json.Marshal(doc)
}
