package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scope-filter collectors. StaleSearchDiscards in particular backs the
// last-request-wins guarantee: tests and dashboards can observe that
// superseded search responses were dropped rather than rendered.
var (
	ScopeChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atlas_scope_changes_total",
		Help: "Number of successful global scope transitions.",
	}, []string{"transition"})

	ScopeDenied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atlas_scope_denied_total",
		Help: "Number of scope changes rejected by area authorization.",
	})

	StaleSearchDiscards = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atlas_search_stale_discarded_total",
		Help: "Number of area search responses discarded because a newer search superseded them.",
	})
)
