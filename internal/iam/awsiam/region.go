package awsiam

import (
	"fmt"
	"strings"

	"github.com/vyrodovalexey/aviam/internal/iam"
)

// Region is an AWS region code, e.g. "us-east-2". Regions are a closed
// catalog and match exactly, never by wildcard.
type Region string

// regionNames maps each region code to its human-friendly name.
var regionNames = map[Region]string{
	"us-east-2":      "US East (Ohio)",
	"us-east-1":      "US East (N. Virginia)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"af-south-1":     "Africa (Cape Town)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
	"ap-south-2":     "Asia Pacific (Hyderabad)",
	"ap-southeast-3": "Asia Pacific (Jakarta)",
	"ap-southeast-5": "Asia Pacific (Malaysia)",
	"ap-southeast-4": "Asia Pacific (Melbourne)",
	"ap-south-1":     "Asia Pacific (Mumbai)",
	"ap-northeast-3": "Asia Pacific (Osaka)",
	"ap-northeast-2": "Asia Pacific (Seoul)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ca-central-1":   "Canada (Central)",
	"ca-west-1":      "Canada West (Calgary)",
	"eu-central-1":   "Europe (Frankfurt)",
	"eu-west-1":      "Europe (Ireland)",
	"eu-west-2":      "Europe (London)",
	"eu-south-1":     "Europe (Milan)",
	"eu-west-3":      "Europe (Paris)",
	"eu-south-2":     "Europe (Spain)",
	"eu-north-1":     "Europe (Stockholm)",
	"eu-central-2":   "Europe (Zurich)",
	"il-central-1":   "Israel (Tel Aviv)",
	"me-south-1":     "Middle East (Bahrain)",
	"me-central-1":   "Middle East (UAE)",
	"sa-east-1":      "South America (Sao Paulo)",
	"us-gov-east-1":  "AWS GovCloud (US-East)",
	"us-gov-west-1":  "AWS GovCloud (US-West)",
}

// regionAliases maps normalized spellings (codes, display names, and
// punctuation-stripped display names) to region codes. Built once at
// package init; lookup is an explicit alias table, not substring
// heuristics.
var regionAliases = buildRegionAliases()

func buildRegionAliases() map[string]Region {
	aliases := make(map[string]Region, 3*len(regionNames))
	for code, name := range regionNames {
		aliases[string(code)] = code
		aliases[normalizeRegion(name)] = code
		aliases[stripPunctuation(normalizeRegion(name))] = code
	}
	return aliases
}

// normalizeRegion lowercases and trims a region spelling.
func normalizeRegion(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// stripPunctuation removes the parentheses and dots that display names
// carry, so "us east n virginia" resolves as well as
// "us east (n. virginia)".
func stripPunctuation(s string) string {
	replacer := strings.NewReplacer("(", "", ")", "", ".", "", "-", " ")
	return strings.Join(strings.Fields(replacer.Replace(s)), " ")
}

// ParseRegion parses a region code or one of its human-friendly
// aliases.
func ParseRegion(s string) (Region, error) {
	normalized := normalizeRegion(s)
	if r, ok := regionAliases[normalized]; ok {
		return r, nil
	}
	if r, ok := regionAliases[stripPunctuation(normalized)]; ok {
		return r, nil
	}
	return "", fmt.Errorf("unknown region %q", s)
}

// Name returns the human-friendly display name of the region, or the
// code itself when the region is not in the catalog.
func (r Region) Name() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return string(r)
}

// String returns the canonical region code.
func (r Region) String() string { return string(r) }

// Equal reports whether two regions are the same.
func (r Region) Equal(other Region) bool { return r == other }

// Matches compares regions exactly.
func (r Region) Matches(candidate Region) (bool, error) {
	return iam.MatchExact(r, candidate)
}
