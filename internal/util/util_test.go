package util

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMSISDN(t *testing.T) {
	assert.Equal(t, "+959123456789", NormalizeMSISDN("%2B959123456789"))
	assert.Equal(t, "+959123456789", NormalizeMSISDN(" +959123456789 "))
	assert.Equal(t, "09123456789", NormalizeMSISDN("09123456789"))
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)

	_, err := ulid.Parse(a)
	require.NoError(t, err)
}
