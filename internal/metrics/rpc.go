package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameRPCRequests  = "rpc_requests_total"
	NameRPCDuration  = "rpc_duration_seconds"
	NameRateLimited  = "rpc_rate_limited_total"
	NameBackfillRuns = "backfill_campgrounds_total"
)

var RPCRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameRPCRequests,
		Help:      "Unary RPCs handled, by method and status code",
		Namespace: Namespace,
	},
	[]string{LabelMethod, LabelCode},
)

var RPCDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameRPCDuration,
		Help:      "Unary RPC latency",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelMethod},
)

var RateLimited = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameRateLimited,
		Help:      "RPCs refused by the per-peer rate limiter",
		Namespace: Namespace,
	},
)

var BackfillCampgrounds = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameBackfillRuns,
		Help:      "Campgrounds processed by the coordinate backfill, by result",
		Namespace: Namespace,
	},
	[]string{LabelResult},
)
