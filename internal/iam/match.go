package iam

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

// Value is the capability contract every identifier type must satisfy
// to participate in the engine. The type parameter ties the contract to
// the concrete identifier type, so partition values are never compared
// against region values.
type Value[T any] interface {
	// Matches reports whether the receiver, treated as the declared
	// (possibly wildcarded) side, matches the candidate value. The
	// receiver is always the pattern side and the argument always the
	// literal side; the asymmetry is load-bearing.
	Matches(candidate T) (bool, error)

	// Equal reports whether two values are equal.
	Equal(other T) bool

	// String returns the canonical textual form of the value.
	String() string
}

// MatchExact is the exact-equality matching strategy. It never fails.
func MatchExact[T comparable](declared, candidate T) (bool, error) {
	return declared == candidate, nil
}

// MatchWildcard is the wildcard matching strategy. The declared side is
// compiled as a glob pattern ('*' matches any run of characters, '?'
// matches exactly one, backslash escapes the next character) and the
// candidate side is matched as literal text. Returns a *PatternError if
// the declared side is not a syntactically valid pattern.
func MatchWildcard(pattern, candidate string) (bool, error) {
	re, err := compiledPattern(pattern)
	if err != nil {
		return false, err
	}
	return re.MatchString(candidate), nil
}

// ValidatePattern checks that the text compiles as a wildcard pattern.
// Loaders use it to reject broken patterns before any request is
// evaluated, so the match-time swallowing in statement evaluation is
// defense-in-depth rather than the primary validation path.
func ValidatePattern(pattern string) error {
	_, err := compiledPattern(pattern)
	return err
}

// patternCache caches compiled wildcard patterns. Policy values repeat
// across evaluations, so compiling once per distinct pattern keeps the
// hot path allocation-free.
var patternCache = struct {
	mu       sync.RWMutex
	compiled map[string]*regexp.Regexp
}{compiled: make(map[string]*regexp.Regexp)}

// compiledPattern returns the compiled form of a wildcard pattern,
// caching it for reuse.
func compiledPattern(pattern string) (*regexp.Regexp, error) {
	patternCache.mu.RLock()
	re, ok := patternCache.compiled[pattern]
	patternCache.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := compileWildcard(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}

	patternCache.mu.Lock()
	patternCache.compiled[pattern] = re
	patternCache.mu.Unlock()

	return re, nil
}

// compileWildcard translates a glob pattern into an anchored regexp.
func compileWildcard(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '\\':
			if i+1 >= len(pattern) {
				return nil, errors.New("trailing escape character")
			}
			i++
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
