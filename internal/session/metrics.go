package session

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	createdCounter prometheus.Counter //nolint:gochecknoglobals
	createdOnce    sync.Once          //nolint:gochecknoglobals
)

func observeCreated() {
	createdOnce.Do(func() {
		createdCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "passgate_sessions_created_total",
			Help: "Number of sessions created.",
		})
		prometheus.MustRegister(createdCounter)
	})

	createdCounter.Inc()
}
