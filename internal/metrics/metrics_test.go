package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { MustRegister(reg) })

	ClaimsTotal.WithLabelValues("claimed").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(ClaimsTotal.WithLabelValues("claimed")), 1.0)
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(true))
	assert.Equal(t, "failed", Result(false))
}
