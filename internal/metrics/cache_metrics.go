package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache lookups that returned a value, by namespace.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "The total number of cache hits",
	}, []string{"namespace"})

	// CacheMisses counts cache lookups that found nothing, by namespace.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "The total number of cache misses",
	}, []string{"namespace"})

	// CacheErrors counts cache backend failures, by namespace and operation.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_errors_total",
		Help: "The total number of cache backend errors",
	}, []string{"namespace", "operation"})
)
