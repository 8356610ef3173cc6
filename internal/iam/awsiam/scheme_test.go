package awsiam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/aviam/internal/iam"
)

func TestParseResource(t *testing.T) {
	t.Parallel()

	t.Run("fully specified", func(t *testing.T) {
		t.Parallel()

		r, err := ParseResource("arn:aws:s3:us-east-1:123456789012:bucket:mybucket")
		require.NoError(t, err)
		require.NotNil(t, r.Partition)
		assert.Equal(t, PartitionAWS, *r.Partition)
		require.NotNil(t, r.Service)
		assert.Equal(t, Service("s3"), *r.Service)
		require.NotNil(t, r.Region)
		assert.Equal(t, Region("us-east-1"), *r.Region)
		require.NotNil(t, r.AccountID)
		assert.Equal(t, AccountID("123456789012"), *r.AccountID)
		require.NotNil(t, r.ResourceType)
		assert.Equal(t, ResourceType("bucket"), *r.ResourceType)
		require.NotNil(t, r.ResourceID)
		assert.Equal(t, ResourceID("mybucket"), *r.ResourceID)
	})

	t.Run("field omission", func(t *testing.T) {
		t.Parallel()

		r, err := ParseResource("arn:aws::us-east-1:::")
		require.NoError(t, err)
		require.NotNil(t, r.Partition)
		assert.Equal(t, PartitionAWS, *r.Partition)
		assert.Nil(t, r.Service)
		require.NotNil(t, r.Region)
		assert.Equal(t, Region("us-east-1"), *r.Region)
		assert.Nil(t, r.AccountID)
		assert.Nil(t, r.ResourceType)
		assert.Nil(t, r.ResourceID)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		for _, text := range []string{
			"arn:aws:s3:us-east-1:123456789012:bucket:mybucket",
			"arn:aws::us-east-1:::",
			"arn:aws:s3:::bucket:mybucket/*",
		} {
			r, err := ParseResource(text)
			require.NoError(t, err)
			assert.Equal(t, text, r.String())
		}
	})

	t.Run("missing prefix", func(t *testing.T) {
		t.Parallel()

		_, err := ParseResource("notanarn")
		require.Error(t, err)
		assert.True(t, iam.IsInvalidFormat(err))
	})

	t.Run("shortfall leaves trailing fields unset", func(t *testing.T) {
		t.Parallel()

		r, err := ParseResource("arn:aws")
		require.NoError(t, err)
		require.NotNil(t, r.Partition)
		assert.Equal(t, PartitionAWS, *r.Partition)
		assert.Nil(t, r.Service)
		assert.Nil(t, r.Region)
	})

	t.Run("unparseable segment", func(t *testing.T) {
		t.Parallel()

		_, err := ParseResource("arn:mars:s3:::")
		require.Error(t, err)
		assert.True(t, iam.IsParseError(err))
	})
}

// decisionPolicies builds the collection used by the decision tests: a
// broad allow on reads of mybucket plus a carve-out deny for its
// secret/ prefix.
func decisionPolicies(t *testing.T) Collection {
	t.Helper()

	collection, err := DecodePolicies([]byte(`[
		{
			"name": "mybucket-read",
			"statements": [
				{
					"effect": "allow",
					"actions": ["s3:GetObject"],
					"resources": ["arn:aws:s3:::mybucket/*"]
				}
			]
		},
		{
			"name": "mybucket-secrets",
			"statements": [
				{
					"effect": "deny",
					"actions": ["s3:*"],
					"resources": ["arn:aws:s3:::mybucket/secret/*"]
				}
			]
		}
	]`))
	require.NoError(t, err)
	require.NoError(t, ValidateCollection(collection))
	return collection
}

func TestCollectionAllows(t *testing.T) {
	t.Parallel()

	collection := decisionPolicies(t)
	getObject, err := ParseAction("s3:GetObject")
	require.NoError(t, err)

	tests := []struct {
		name     string
		action   Action
		resource string
		want     bool
	}{
		{
			name:     "allowed object",
			action:   getObject,
			resource: "arn:aws:s3:::mybucket/file.txt",
			want:     true,
		},
		{
			name:     "other bucket not specified",
			action:   getObject,
			resource: "arn:aws:s3:::otherbucket/file.txt",
			want:     false,
		},
		{
			name:     "deny overrides allow",
			action:   getObject,
			resource: "arn:aws:s3:::mybucket/secret/key.pem",
			want:     false,
		},
		{
			name:     "unmatched action",
			action:   Action("s3:PutObject"),
			resource: "arn:aws:s3:::mybucket/file.txt",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resource := MustParseResource(tt.resource)
			assert.Equal(t, tt.want, collection.Allows(tt.action, resource))
		})
	}
}

func TestCollectionEval(t *testing.T) {
	t.Parallel()

	collection := decisionPolicies(t)

	got, err := ParseAction("s3:GetObject")
	require.NoError(t, err)

	assert.Equal(t, iam.Allowed,
		collection.Eval(got, MustParseResource("arn:aws:s3:::mybucket/file.txt")))
	assert.Equal(t, iam.Denied,
		collection.Eval(got, MustParseResource("arn:aws:s3:::mybucket/secret/key.pem")))
	assert.Equal(t, iam.NotSpecified,
		collection.Eval(got, MustParseResource("arn:aws:s3:::otherbucket/file.txt")))
}

func TestDecodePolicy_Strict(t *testing.T) {
	t.Parallel()

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := DecodePolicy([]byte(`{
			"name": "p",
			"statements": [],
			"extra": true
		}`))
		require.Error(t, err)
		assert.True(t, iam.IsSchemaError(err))
	})

	t.Run("malformed resource", func(t *testing.T) {
		t.Parallel()

		_, err := DecodePolicy([]byte(`{
			"statements": [
				{
					"effect": "allow",
					"actions": ["s3:GetObject"],
					"resources": ["notanarn"]
				}
			]
		}`))
		require.Error(t, err)
		assert.True(t, iam.IsParseError(err))
	})
}

func TestValidateCollection(t *testing.T) {
	t.Parallel()

	t.Run("valid patterns", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateCollection(decisionPolicies(t)))
	})

	t.Run("broken action pattern", func(t *testing.T) {
		t.Parallel()

		collection, err := DecodePolicies([]byte(`[
			{
				"name": "broken",
				"statements": [
					{
						"effect": "allow",
						"actions": ["s3:Get\\"],
						"resources": ["arn:aws:s3:::mybucket/*"]
					}
				]
			}
		]`))
		require.NoError(t, err)

		err = ValidateCollection(collection)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "policy broken statement 0")
		assert.True(t, iam.IsPatternError(err))
	})

	t.Run("broken resource pattern in unnamed policy", func(t *testing.T) {
		t.Parallel()

		collection, err := DecodePolicies([]byte(`[
			{
				"statements": [
					{
						"effect": "allow",
						"actions": ["s3:GetObject"],
						"resources": ["arn:aws:s3:::mybucket\\"]
					}
				]
			}
		]`))
		require.NoError(t, err)

		err = ValidateCollection(collection)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "policy #0 statement 0")
	})
}
