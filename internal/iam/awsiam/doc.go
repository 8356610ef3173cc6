// Package awsiam provides the AWS-flavored identifier set for the iam
// engine: a closed partition catalog, a region catalog with
// human-friendly alias lookup, a numeric account id, and wildcard
// string types for actions, services, resource types, and resource
// ids. Scheme binds the set into an engine scheme; Resource, Policy,
// and Collection are the instantiated engine types.
package awsiam
