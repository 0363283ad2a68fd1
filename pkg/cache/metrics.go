package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "drawdex",
		Name:      "cache_refresh_total",
		Help:      "Snapshot refresh attempts by cache and outcome.",
	}, []string{"cache", "outcome"})

	metricRefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "drawdex",
		Name:      "cache_refresh_duration_seconds",
		Help:      "Snapshot refresh duration by cache.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"cache"})
)
