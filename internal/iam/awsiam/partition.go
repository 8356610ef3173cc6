package awsiam

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/aviam/internal/iam"
)

// Partition is an AWS partition: a group of regions to which an
// account is scoped. Partitions are a closed catalog and match
// exactly, never by wildcard.
type Partition string

// The AWS partitions.
const (
	PartitionAWS   Partition = "aws"
	PartitionChina Partition = "aws-cn"
	PartitionUSGov Partition = "aws-us-gov"
)

// partitionAliases maps normalized human-friendly spellings to
// partition codes. Lookup is by explicit alias table rather than
// substring heuristics, which are order-sensitive and ambiguous.
var partitionAliases = map[string]Partition{
	"aws":               PartitionAWS,
	"aws-cn":            PartitionChina,
	"aws china":         PartitionChina,
	"china":             PartitionChina,
	"cn":                PartitionChina,
	"aws-us-gov":        PartitionUSGov,
	"aws govcloud":      PartitionUSGov,
	"aws govcloud (us)": PartitionUSGov,
	"govcloud":          PartitionUSGov,
	"us-gov":            PartitionUSGov,
}

// ParsePartition parses a partition code or one of its human-friendly
// aliases. Input is trimmed and lowercased before lookup.
func ParsePartition(s string) (Partition, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if p, ok := partitionAliases[normalized]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown partition %q", s)
}

// String returns the canonical partition code.
func (p Partition) String() string { return string(p) }

// Equal reports whether two partitions are the same.
func (p Partition) Equal(other Partition) bool { return p == other }

// Matches compares partitions exactly.
func (p Partition) Matches(candidate Partition) (bool, error) {
	return iam.MatchExact(p, candidate)
}
