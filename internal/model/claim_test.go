package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaimID(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"123", 123},
		{"123.0", 123},
		{`"123.0"`, 123},
		{" 42 ", 42},
		{"7.9", 7},
		{"1e3", 1000},
	}
	for _, tc := range cases {
		got, err := ParseClaimID(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseClaimID_Invalid(t *testing.T) {
	for _, in := range []string{"", `""`, "abc", "12x", "NaN", "Inf", "-Infinity", "1e30", "-1e30", "9223372036854775808"} {
		_, err := ParseClaimID(in)
		assert.Error(t, err, in)
	}
}

func TestClaimableConstructors(t *testing.T) {
	assert.True(t, FoundClaim(5).Found())
	assert.Equal(t, int64(5), FoundClaim(5).ID)
	assert.Equal(t, ClaimableNone, NoClaim().Kind)
	assert.False(t, NoClaim().Found())
	assert.Equal(t, ClaimableError, FailedClaim(assert.AnError).Kind)
	assert.Equal(t, "error", Claimable{}.Kind.String())
}

func TestRunReport_Tally(t *testing.T) {
	var r RunReport
	r.AddClaims([]ClaimOutcome{
		{Status: ClaimStatusClaimed},
		{Status: ClaimStatusNoClaim},
		{Status: ClaimStatusResolveFailed},
		{Status: ClaimStatusSubmitFailed},
	})
	r.AddDashboards([]DashboardOutcome{{OK: true}, {OK: false}, {OK: true}})

	assert.Equal(t, 1, r.Claimed)
	assert.Equal(t, 1, r.NoClaim)
	assert.Equal(t, 2, r.ClaimFailed)
	assert.Equal(t, 2, r.DashboardOK)
	assert.Equal(t, 1, r.DashboardFailed)
}
