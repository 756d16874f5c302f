package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts gateway actions by record kind, action and outcome.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemseek",
		Name:      "mutations_total",
		Help:      "Record mutations handled by the gateway.",
	}, []string{"kind", "action", "result"})

	// VersionConflicts counts optimistic-lock retries per record kind.
	VersionConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemseek",
		Name:      "version_conflicts_total",
		Help:      "Writes retried because the record version changed underneath them.",
	}, []string{"kind"})

	// StockMovements sums the units moved in and out of inventory.
	StockMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemseek",
		Name:      "stock_movement_units_total",
		Help:      "Units recorded by stock transactions.",
	}, []string{"type"})

	// AlertsDispatched counts alerts handed to the notification pool.
	AlertsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemseek",
		Name:      "alerts_dispatched_total",
		Help:      "Push alerts queued for delivery.",
	}, []string{"kind"})

	// CacheLookups counts GET cache outcomes: hit, miss or flush.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itemseek",
		Name:      "response_cache_total",
		Help:      "GET response cache lookups and flushes.",
	}, []string{"result"})
)
