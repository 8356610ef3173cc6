package iam

import (
	"errors"
	"strconv"
)

// key is an exact-match identifier used by the engine tests.
type key string

func parseKey(s string) (key, error) {
	if s == "" {
		return "", errors.New("empty identifier")
	}
	return key(s), nil
}

func (k key) String() string { return string(k) }

func (k key) Equal(other key) bool { return k == other }

func (k key) Matches(candidate key) (bool, error) {
	return MatchExact(k, candidate)
}

// glob is a wildcard-match identifier used by the engine tests.
type glob string

func parseGlob(s string) (glob, error) {
	if s == "" {
		return "", errors.New("empty identifier")
	}
	return glob(s), nil
}

func (g glob) String() string { return string(g) }

func (g glob) Equal(other glob) bool { return g == other }

func (g glob) Matches(candidate glob) (bool, error) {
	return MatchWildcard(g.String(), candidate.String())
}

// account is a digits-only exact-match identifier used to exercise
// field-level parse failures.
type account uint64

func parseAccount(s string) (account, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("account id must be numeric")
	}
	return account(n), nil
}

func (a account) String() string { return strconv.FormatUint(uint64(a), 10) }

func (a account) Equal(other account) bool { return a == other }

func (a account) Matches(candidate account) (bool, error) {
	return MatchExact(a, candidate)
}

// Shorthand instantiations shared across the engine tests.
type (
	testResource   = Resource[key, glob, key, account, glob, glob]
	testStatement  = Statement[glob, key, glob, key, account, glob, glob]
	testPolicy     = Policy[glob, key, glob, key, account, glob, glob]
	testCollection = Collection[glob, key, glob, key, account, glob, glob]
)

// testScheme binds the test identifier set.
func testScheme() Scheme[glob, key, glob, key, account, glob, glob] {
	return Scheme[glob, key, glob, key, account, glob, glob]{
		ParseAction:       parseGlob,
		ParsePartition:    parseKey,
		ParseService:      parseGlob,
		ParseRegion:       parseKey,
		ParseAccountID:    parseAccount,
		ParseResourceType: parseGlob,
		ParseResourceID:   parseGlob,
	}
}

// mustResource parses a resource address or panics; test setup only.
func mustResource(text string) testResource {
	r, err := testScheme().ParseResource(text)
	if err != nil {
		panic(err)
	}
	return r
}
