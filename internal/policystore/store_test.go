package policystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPolicies = `[
	{
		"name": "reader",
		"statements": [
			{
				"effect": "allow",
				"actions": ["s3:GetObject"],
				"resources": ["arn:aws:s3:::mybucket/*"]
			}
		]
	}
]`

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "policies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestStoreLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(writePolicyFile(t, validPolicies))
	require.NoError(t, store.Load())

	collection := store.Collection()
	require.Len(t, collection, 1)
	assert.Equal(t, "reader", collection[0].Name)
}

func TestStoreLoad_MissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, store.Load())
	assert.Empty(t, store.Collection())
}

func TestStoreLoad_InvalidJSONKeepsSnapshot(t *testing.T) {
	t.Parallel()

	path := writePolicyFile(t, validPolicies)
	store := NewStore(path)
	require.NoError(t, store.Load())

	require.NoError(t, os.WriteFile(path, []byte(`[{"bogus": true}]`), 0o600))
	require.Error(t, store.Load())

	// The previous snapshot stays in effect.
	require.Len(t, store.Collection(), 1)
}

func TestStoreLoad_BrokenPatternRejected(t *testing.T) {
	t.Parallel()

	store := NewStore(writePolicyFile(t, `[
		{
			"statements": [
				{
					"effect": "allow",
					"actions": ["s3:Get\\"],
					"resources": ["arn:aws:s3:::mybucket/*"]
				}
			]
		}
	]`))

	err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate policy file")
}

func TestStoreCollection_EmptyBeforeLoad(t *testing.T) {
	t.Parallel()

	store := NewStore("unused.json")
	assert.Empty(t, store.Collection())
}
