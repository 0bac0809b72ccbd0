// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// through promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Result label values shared by the counters below.
const (
	ResultSuccess   = "success"
	ResultRejected  = "rejected"
	ResultThrottled = "throttled"
	ResultError     = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad input or credentials), "throttled" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "rejected" or "error"
var AuthRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// AuthTokenVerificationsTotal counts explicit token verification calls.
var AuthTokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_verifications_total",
		Help:      "Total number of token verification requests, by result.",
	},
	[]string{"result"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogMutationsTotal counts product writes.
// Labels:
//   - operation: "add", "update" or "delete"
//   - result: "success", "rejected" or "error"
var CatalogMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_mutations_total",
		Help:      "Total number of catalog mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ResultOf buckets an operation error into a result label value. Errors the
// client caused count as rejected.
func ResultOf(err error, clientErr func(error) bool) string {
	switch {
	case err == nil:
		return ResultSuccess
	case clientErr(err):
		return ResultRejected
	default:
		return ResultError
	}
}
