package iam

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Scheme binds the parse functions for the seven identifier slots of an
// engine: the action plus the six resource address fields. It is the
// configuration type a domain plug-in supplies to make its identifier
// set usable for address parsing and policy decoding; the rest of the
// capability contract (match, equality, render) travels on the
// identifier types themselves.
type Scheme[AC Value[AC], P Value[P], S Value[S], R Value[R], A Value[A], T Value[T], I Value[I]] struct {
	ParseAction       func(string) (AC, error)
	ParsePartition    func(string) (P, error)
	ParseService      func(string) (S, error)
	ParseRegion       func(string) (R, error)
	ParseAccountID    func(string) (A, error)
	ParseResourceType func(string) (T, error)
	ParseResourceID   func(string) (I, error)
}

// ParseResource parses the canonical textual form of a resource
// address. The text must start with the "arn:" prefix; the remainder is
// split on ':' into at most six positional fields. An empty field
// yields an unconstrained (nil) slot without invoking the field's
// parser, and fewer than six fields leave the remaining slots nil. A
// field that fails its type-specific parse surfaces a *ParseError.
func (s Scheme[AC, P, S, R, A, T, I]) ParseResource(text string) (Resource[P, S, R, A, T, I], error) {
	var r Resource[P, S, R, A, T, I]

	if !strings.HasPrefix(text, ResourcePrefix) {
		return r, &ParseError{Input: text, Err: ErrInvalidFormat}
	}

	segments := strings.Split(strings.TrimPrefix(text, ResourcePrefix), ":")
	if len(segments) > 6 {
		return r, &ParseError{Input: text, Err: ErrTooManySegments}
	}

	var err error
	if r.Partition, err = parseField("partition", segment(segments, 0), s.ParsePartition); err != nil {
		return Resource[P, S, R, A, T, I]{}, err
	}
	if r.Service, err = parseField("service", segment(segments, 1), s.ParseService); err != nil {
		return Resource[P, S, R, A, T, I]{}, err
	}
	if r.Region, err = parseField("region", segment(segments, 2), s.ParseRegion); err != nil {
		return Resource[P, S, R, A, T, I]{}, err
	}
	if r.AccountID, err = parseField("account id", segment(segments, 3), s.ParseAccountID); err != nil {
		return Resource[P, S, R, A, T, I]{}, err
	}
	if r.ResourceType, err = parseField("resource type", segment(segments, 4), s.ParseResourceType); err != nil {
		return Resource[P, S, R, A, T, I]{}, err
	}
	if r.ResourceID, err = parseField("resource id", segment(segments, 5), s.ParseResourceID); err != nil {
		return Resource[P, S, R, A, T, I]{}, err
	}

	return r, nil
}

// DecodeStatement decodes the strict wire form of a statement. Unknown
// fields and missing required fields yield a *SchemaError; malformed
// action or resource text yields a *ParseError.
func (s Scheme[AC, P, S, R, A, T, I]) DecodeStatement(data []byte) (Statement[AC, P, S, R, A, T, I], error) {
	var doc statementWire
	if err := decodeStrict(data, &doc); err != nil {
		return Statement[AC, P, S, R, A, T, I]{}, err
	}
	return s.statementFromWire(doc)
}

// DecodePolicy decodes the strict wire form of a policy.
func (s Scheme[AC, P, S, R, A, T, I]) DecodePolicy(data []byte) (Policy[AC, P, S, R, A, T, I], error) {
	var doc policyWire
	if err := decodeStrict(data, &doc); err != nil {
		return Policy[AC, P, S, R, A, T, I]{}, err
	}
	return s.policyFromDoc(doc)
}

// DecodePolicies decodes a JSON array of policies into a collection.
func (s Scheme[AC, P, S, R, A, T, I]) DecodePolicies(data []byte) (Collection[AC, P, S, R, A, T, I], error) {
	var docs []policyWire
	if err := decodeStrict(data, &docs); err != nil {
		return nil, err
	}
	collection := make(Collection[AC, P, S, R, A, T, I], 0, len(docs))
	for _, doc := range docs {
		policy, err := s.policyFromDoc(doc)
		if err != nil {
			return nil, err
		}
		collection = append(collection, policy)
	}
	return collection, nil
}

// policyWire mirrors policyDoc with statements kept in their raw wire
// form so missing fields are distinguishable from empty ones.
type policyWire struct {
	Name       string          `json:"name"`
	Statements []statementWire `json:"statements"`
}

// statementWire mirrors statementDoc with pointer slices so missing
// fields are distinguishable from empty ones.
type statementWire struct {
	Effect    *string   `json:"effect"`
	Actions   *[]string `json:"actions"`
	Resources *[]string `json:"resources"`
}

func (s Scheme[AC, P, S, R, A, T, I]) policyFromDoc(doc policyWire) (Policy[AC, P, S, R, A, T, I], error) {
	if doc.Statements == nil {
		return Policy[AC, P, S, R, A, T, I]{}, &SchemaError{Err: errors.New(`policy is missing required field "statements"`)}
	}
	policy := Policy[AC, P, S, R, A, T, I]{
		Name:       doc.Name,
		Statements: make([]Statement[AC, P, S, R, A, T, I], 0, len(doc.Statements)),
	}
	for _, sd := range doc.Statements {
		statement, err := s.statementFromWire(sd)
		if err != nil {
			return Policy[AC, P, S, R, A, T, I]{}, err
		}
		policy.Statements = append(policy.Statements, statement)
	}
	return policy, nil
}

func (s Scheme[AC, P, S, R, A, T, I]) statementFromWire(doc statementWire) (Statement[AC, P, S, R, A, T, I], error) {
	var statement Statement[AC, P, S, R, A, T, I]

	if doc.Effect == nil {
		return statement, &SchemaError{Err: errors.New(`statement is missing required field "effect"`)}
	}
	effect := Effect(*doc.Effect)
	if !effect.Valid() {
		return statement, &SchemaError{Err: fmt.Errorf(`invalid effect %q (must be "allow" or "deny")`, *doc.Effect)}
	}
	if doc.Actions == nil {
		return statement, &SchemaError{Err: errors.New(`statement is missing required field "actions"`)}
	}
	if doc.Resources == nil {
		return statement, &SchemaError{Err: errors.New(`statement is missing required field "resources"`)}
	}

	statement.Effect = effect
	statement.Actions = make([]AC, 0, len(*doc.Actions))
	for _, text := range *doc.Actions {
		action, err := s.ParseAction(text)
		if err != nil {
			return Statement[AC, P, S, R, A, T, I]{}, &ParseError{Field: "action", Input: text, Err: err}
		}
		statement.Actions = append(statement.Actions, action)
	}
	statement.Resources = make([]Resource[P, S, R, A, T, I], 0, len(*doc.Resources))
	for _, text := range *doc.Resources {
		resource, err := s.ParseResource(text)
		if err != nil {
			return Statement[AC, P, S, R, A, T, I]{}, err
		}
		statement.Resources = append(statement.Resources, resource)
	}

	return statement, nil
}

// decodeStrict decodes JSON rejecting unknown fields.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// segment returns the i-th address segment, or "" when the address has
// fewer segments.
func segment(segments []string, i int) string {
	if i >= len(segments) {
		return ""
	}
	return segments[i]
}

// parseField parses one optional address field. Empty segments yield an
// unconstrained field without invoking the parser, since identifier
// parsers are not required to accept empty input.
func parseField[T any](field, text string, parse func(string) (T, error)) (*T, error) {
	if text == "" {
		return nil, nil
	}
	v, err := parse(text)
	if err != nil {
		return nil, &ParseError{Field: field, Input: text, Err: err}
	}
	return &v, nil
}
