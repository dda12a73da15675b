package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameSharesTotal    = "shares_total"
	NameDraftsAccepted = "drafts_accepted_total"
	NameDraftsRejected = "drafts_rejected_total"
)

var SharesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameSharesTotal,
		Help:      "Journal entries shared as drafts",
		Namespace: Namespace,
	},
)

var DraftsAccepted = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameDraftsAccepted,
		Help:      "Shared drafts accepted by their recipient",
		Namespace: Namespace,
	},
)

var DraftsRejected = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameDraftsRejected,
		Help:      "Shared drafts rejected by their recipient",
		Namespace: Namespace,
	},
)
