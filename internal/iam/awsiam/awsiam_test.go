package awsiam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Partition
		wantErr bool
	}{
		{input: "aws", want: PartitionAWS},
		{input: "AWS", want: PartitionAWS},
		{input: " aws ", want: PartitionAWS},
		{input: "aws-cn", want: PartitionChina},
		{input: "china", want: PartitionChina},
		{input: "aws-us-gov", want: PartitionUSGov},
		{input: "govcloud", want: PartitionUSGov},
		{input: "azure", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePartition(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRegion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Region
		wantErr bool
	}{
		{input: "us-east-2", want: "us-east-2"},
		{input: "US East (Ohio)", want: "us-east-2"},
		{input: "us east ohio", want: "us-east-2"},
		{input: "us east (n. virginia)", want: "us-east-1"},
		{input: "us east n virginia", want: "us-east-1"},
		{input: "Europe (Frankfurt)", want: "eu-central-1"},
		{input: "aws govcloud us east", want: "us-gov-east-1"},
		{input: "ap-southeast-1", want: "ap-southeast-1"},
		{input: "atlantis-north-1", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRegion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegionName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "US East (Ohio)", Region("us-east-2").Name())
	assert.Equal(t, "nowhere-1", Region("nowhere-1").Name())
}

func TestParseAccountID(t *testing.T) {
	t.Parallel()

	got, err := ParseAccountID("123456789012")
	require.NoError(t, err)
	assert.Equal(t, AccountID("123456789012"), got)

	_, err = ParseAccountID("12ab")
	require.Error(t, err)

	_, err = ParseAccountID("")
	require.Error(t, err)
}

func TestActionMatches(t *testing.T) {
	t.Parallel()

	// The declared side carries the wildcard; the candidate side is
	// always literal.
	got, err := Action("s3:*").Matches(Action("s3:GetObject"))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Action("s3:GetObject").Matches(Action("s3:*"))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestAccountIDMatches_NoWildcard(t *testing.T) {
	t.Parallel()

	got, err := AccountID("123").Matches(AccountID("123"))
	require.NoError(t, err)
	assert.True(t, got)

	// Account ids never glob; a '*' would not even parse, and a
	// constructed one compares literally.
	got, err = AccountID("*").Matches(AccountID("123"))
	require.NoError(t, err)
	assert.False(t, got)
}
