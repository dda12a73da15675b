package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameCacheHits   = "cache_hits_total"
	NameCacheMisses = "cache_misses_total"
)

var CacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameCacheHits,
		Help:      "Read-through cache hits",
		Namespace: Namespace,
	},
	[]string{LabelCache},
)

var CacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameCacheMisses,
		Help:      "Read-through cache misses",
		Namespace: Namespace,
	},
	[]string{LabelCache},
)
