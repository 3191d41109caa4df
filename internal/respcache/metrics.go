package respcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_response_cache_hits_total",
		Help: "Responses served from the response cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_response_cache_misses_total",
		Help: "Cacheable requests that reached the handler",
	})

	notModified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_response_cache_304_total",
		Help: "Conditional GET requests answered with 304",
	})

	invalidatedKeys = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_response_cache_invalidated_keys_total",
		Help: "Cache keys deleted by entity invalidation",
	}, []string{"entity"})

	storeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_response_cache_store_errors_total",
		Help: "Cache store operation errors, by operation",
	}, []string{"operation"})
)
