package auth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginAttempts   *prometheus.CounterVec //nolint:gochecknoglobals
	identityResolve *prometheus.CounterVec //nolint:gochecknoglobals
	metricsOnce     sync.Once              //nolint:gochecknoglobals
)

// registerMetrics registers the auth collectors with the default registry once.
func registerMetrics() {
	metricsOnce.Do(func() {
		loginAttempts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passgate_login_attempts_total",
				Help: "Number of credential verifications, by strategy and outcome.",
			},
			[]string{"strategy", "outcome"},
		)
		identityResolve = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "passgate_identity_resolve_total",
				Help: "Number of identity token resolutions, by result.",
			},
			[]string{"result"},
		)
		prometheus.MustRegister(loginAttempts, identityResolve)
	})
}

// ObserveLogin counts a verification outcome.
func ObserveLogin(strategy string, o Outcome) {
	registerMetrics()
	loginAttempts.WithLabelValues(strategy, o.label()).Inc()
}

func observeResolve(result string) {
	registerMetrics()
	identityResolve.WithLabelValues(result).Inc()
}
