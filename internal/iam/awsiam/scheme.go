package awsiam

import (
	"fmt"

	"github.com/vyrodovalexey/aviam/internal/iam"
)

// Instantiations of the engine types over the AWS identifier set.
type (
	// Resource is an AWS resource address.
	Resource = iam.Resource[Partition, Service, Region, AccountID, ResourceType, ResourceID]

	// Statement is an AWS policy statement.
	Statement = iam.Statement[Action, Partition, Service, Region, AccountID, ResourceType, ResourceID]

	// Policy is an AWS policy.
	Policy = iam.Policy[Action, Partition, Service, Region, AccountID, ResourceType, ResourceID]

	// Collection is an AWS policy collection.
	Collection = iam.Collection[Action, Partition, Service, Region, AccountID, ResourceType, ResourceID]
)

// Scheme returns the engine scheme binding the AWS identifier set.
func Scheme() iam.Scheme[Action, Partition, Service, Region, AccountID, ResourceType, ResourceID] {
	return iam.Scheme[Action, Partition, Service, Region, AccountID, ResourceType, ResourceID]{
		ParseAction:       ParseAction,
		ParsePartition:    ParsePartition,
		ParseService:      ParseService,
		ParseRegion:       ParseRegion,
		ParseAccountID:    ParseAccountID,
		ParseResourceType: ParseResourceType,
		ParseResourceID:   ParseResourceID,
	}
}

// ParseResource parses the canonical textual form of an AWS resource
// address.
func ParseResource(text string) (Resource, error) {
	return Scheme().ParseResource(text)
}

// MustParseResource parses a resource address and panics on failure.
// Intended for tests and static initialization.
func MustParseResource(text string) Resource {
	r, err := ParseResource(text)
	if err != nil {
		panic(err)
	}
	return r
}

// DecodePolicy decodes the strict wire form of a policy.
func DecodePolicy(data []byte) (Policy, error) {
	return Scheme().DecodePolicy(data)
}

// DecodePolicies decodes a JSON array of policies into a collection.
func DecodePolicies(data []byte) (Collection, error) {
	return Scheme().DecodePolicies(data)
}

// ValidateCollection compile-checks every wildcard-capable value in
// the collection so broken patterns are rejected at load time, before
// any request is evaluated. Match-time error swallowing in statement
// evaluation then only guards against values this check never saw.
func ValidateCollection(c Collection) error {
	for pi, policy := range c {
		for si, statement := range policy.Statements {
			if err := validateStatement(statement); err != nil {
				name := policy.Name
				if name == "" {
					name = fmt.Sprintf("#%d", pi)
				}
				return fmt.Errorf("policy %s statement %d: %w", name, si, err)
			}
		}
	}
	return nil
}

func validateStatement(s Statement) error {
	for _, action := range s.Actions {
		if err := iam.ValidatePattern(action.String()); err != nil {
			return err
		}
	}
	for _, resource := range s.Resources {
		if err := validateResourcePatterns(resource); err != nil {
			return err
		}
	}
	return nil
}

// validateResourcePatterns checks the wildcard-typed fields of a
// declared resource address. Partition, region, and account id match
// exactly and need no compile check.
func validateResourcePatterns(r Resource) error {
	if r.Service != nil {
		if err := iam.ValidatePattern(r.Service.String()); err != nil {
			return err
		}
	}
	if r.ResourceType != nil {
		if err := iam.ValidatePattern(r.ResourceType.String()); err != nil {
			return err
		}
	}
	if r.ResourceID != nil {
		if err := iam.ValidatePattern(r.ResourceID.String()); err != nil {
			return err
		}
	}
	return nil
}
