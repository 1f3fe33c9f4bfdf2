// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sleep_social"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SleepToggles counts successful clock toggles by resulting state (open, idle).
	SleepToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sleep_toggles_total",
		Help:      "Clock toggles by resulting state.",
	}, []string{"state"})

	FollowChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follow_changes_total",
		Help:      "Follow edges created or removed.",
	}, []string{"op"})
)

// CacheStats is satisfied by cache.Memo.
type CacheStats interface {
	Counts() (hits, misses, loads int64)
}

// RegisterCache exposes hit/miss/load counters of a memo under the given name.
func RegisterCache(reg prometheus.Registerer, name string, stats CacheStats) error {
	counters := []struct {
		kind string
		pick func() float64
	}{
		{"hits", func() float64 { h, _, _ := stats.Counts(); return float64(h) }},
		{"misses", func() float64 { _, m, _ := stats.Counts(); return float64(m) }},
		{"loads", func() float64 { _, _, l := stats.Counts(); return float64(l) }},
	}
	for _, c := range counters {
		if err := reg.Register(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cache_" + c.kind + "_total",
			Help:        "Memoized cache " + c.kind + ".",
			ConstLabels: prometheus.Labels{"cache": name},
		}, c.pick)); err != nil {
			return err
		}
	}
	return nil
}
