package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DashboardTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimer_dashboard_refresh_total",
			Help: "Dashboard refresh calls by result",
		},
		[]string{"result"}, // ok|failed
	)

	ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimer_claims_total",
			Help: "Claim flow terminal outcomes by status",
		},
		[]string{"status"}, // claimed|no_claim|resolve_failed|submit_failed
	)

	PhoneRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claimer_phone_refresh_total",
			Help: "Phone refresh calls by result",
		},
		[]string{"result"}, // ok|failed
	)

	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "claimer_run_duration_seconds",
			Help:    "Wall time of a full pipeline run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		DashboardTotal,
		ClaimsTotal,
		PhoneRefreshTotal,
		RunDuration,
	)
}

func Result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
