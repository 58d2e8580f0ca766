package gateway

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reelbox",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Remote calls by method, route and outcome.",
		}, []string{"method", "route", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reelbox",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Remote call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		m.requests = registerOrExisting(reg, m.requests)
		m.duration = registerOrExisting(reg, m.duration)
	}
	return m
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *clientMetrics) observe(method, route string, err error, d time.Duration) {
	m.requests.WithLabelValues(method, route, outcome(err)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	case IsReconciliation(err):
		return "invalid"
	default:
		return "network"
	}
}
