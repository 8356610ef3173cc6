package iam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchWildcard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		pattern   string
		candidate string
		want      bool
	}{
		{
			name:      "star matches any run",
			pattern:   "a*",
			candidate: "abc",
			want:      true,
		},
		{
			name:      "star matches empty run",
			pattern:   "a*",
			candidate: "a",
			want:      true,
		},
		{
			name:      "star in the middle",
			pattern:   "mybucket/*",
			candidate: "mybucket/file.txt",
			want:      true,
		},
		{
			name:      "no match outside prefix",
			pattern:   "a*",
			candidate: "bac",
			want:      false,
		},
		{
			name:      "question mark matches exactly one",
			pattern:   "a?c",
			candidate: "abc",
			want:      true,
		},
		{
			name:      "question mark does not match two",
			pattern:   "a?c",
			candidate: "abbc",
			want:      false,
		},
		{
			name:      "literal pattern is exact",
			pattern:   "abc",
			candidate: "abc",
			want:      true,
		},
		{
			name:      "candidate wildcards are literal",
			pattern:   "abc",
			candidate: "a*",
			want:      false,
		},
		{
			name:      "escaped star is literal",
			pattern:   `a\*`,
			candidate: "a*",
			want:      true,
		},
		{
			name:      "escaped star does not glob",
			pattern:   `a\*`,
			candidate: "abc",
			want:      false,
		},
		{
			name:      "regex metacharacters are literal",
			pattern:   "a.b+c",
			candidate: "a.b+c",
			want:      true,
		},
		{
			name:      "dot is not a regex any",
			pattern:   "a.c",
			candidate: "abc",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := MatchWildcard(tt.pattern, tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchWildcard_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := MatchWildcard(`broken\`, "anything")
	require.Error(t, err)
	assert.True(t, IsPatternError(err))
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidatePattern("s3:*"))
	require.NoError(t, ValidatePattern("plain"))

	err := ValidatePattern(`trailing\`)
	require.Error(t, err)
	assert.True(t, IsPatternError(err))
}

func TestMatchExact(t *testing.T) {
	t.Parallel()

	got, err := MatchExact("abc", "abc")
	require.NoError(t, err)
	assert.True(t, got)

	// The exact strategy never interprets wildcards on either side.
	got, err = MatchExact("abc", "a*")
	require.NoError(t, err)
	assert.False(t, got)

	got, err = MatchExact("a*", "abc")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestMatchWildcard_CachesCompiledPatterns(t *testing.T) {
	t.Parallel()

	// Same pattern twice must agree; exercises the read path of the
	// compiled pattern cache.
	for i := 0; i < 2; i++ {
		got, err := MatchWildcard("cache-*", "cache-hit")
		require.NoError(t, err)
		assert.True(t, got)
	}
}
