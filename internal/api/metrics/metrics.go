// Package metrics defines and registers all custom Prometheus metrics for the
// task tracker API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package
// init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "task_tracker"

// AuthDecisionsTotal counts authorization guard outcomes.
// Label:
//   - result: "ok", "unauthenticated", "deactivated", or "error"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization guard decisions, by result.",
	},
	[]string{"result"},
)

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - priority: "low", "medium", or "high"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by priority.",
	},
	[]string{"priority"},
)

// TaskMutationsTotal counts successful task mutations.
// Label:
//   - action: "update" or "delete"
var TaskMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_mutations_total",
		Help:      "Total number of successful task updates and deletes.",
	},
	[]string{"action"},
)

// AuditEntriesDroppedTotal counts audit entries discarded because a worker's
// queue was full. Any nonzero rate means audit coverage has gaps.
var AuditEntriesDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_dropped_total",
		Help:      "Total number of audit entries dropped due to a full queue.",
	},
)

// UserAdminActionsTotal counts successful administrative user operations.
// Label:
//   - action: "role_change", "status_toggle", or "delete"
var UserAdminActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_admin_actions_total",
		Help:      "Total number of successful administrative user operations.",
	},
	[]string{"action"},
)
