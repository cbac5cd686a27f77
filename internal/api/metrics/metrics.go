// Package metrics defines and registers all custom Prometheus metrics for the
// canine care API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "caninecare"

// FallbackActivationsTotal counts mutations that could not be confirmed by
// the remote backend and were applied locally instead.
// Labels:
//   - kind: entity family ("nutrition", "canine", …)
//   - op: "create", "update", or "delete"
var FallbackActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_activations_total",
		Help:      "Total number of mutations applied locally after a remote failure.",
	},
	[]string{"kind", "op"},
)

// RetryAttemptsTotal counts retry dispatcher outcomes.
// Label:
//   - result: "ok", "error", or "dropped"
var RetryAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retry_attempts_total",
		Help:      "Total number of remote reconciliation attempts, by outcome.",
	},
	[]string{"kind", "result"},
)

// RetryQueueDepth tracks the number of tasks waiting in each retry worker.
var RetryQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "retry_queue_depth",
		Help:      "Current number of tasks pending in each retry worker channel.",
	},
	[]string{"worker_id"},
)

// CascadeRemovalsTotal counts dependent records removed by cascade deletes.
var CascadeRemovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_removals_total",
		Help:      "Total number of dependent records removed by canine deletions.",
	},
	[]string{"kind"},
)

// StoreLoadsTotal counts scoped loader runs.
// Label:
//   - mode: "remote", "seed", or "cleared"
var StoreLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_loads_total",
		Help:      "Total number of entity store loads, by source mode.",
	},
	[]string{"mode"},
)
