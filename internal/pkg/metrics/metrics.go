// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init via promauto; /metrics exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - resource: first API path segment ("products", "auth", ...) or the echo route path
//   - method:   HTTP verb
//   - code:     response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by resource, method and status code.",
	},
	[]string{"resource", "method", "code"},
)

// HTTPRequestDuration measures end-to-end handling time.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "method"},
)

// ── User store metrics ───────────────────────────────────────────────────────

// UserStoreOperationsTotal counts user store calls by the backend that answered.
// Labels:
//   - backend:   "database" or "file"
//   - operation: "list", "find", "create", "update"
//   - result:    "ok", "not_found", "exists", "error"
var UserStoreOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_store_operations_total",
		Help:      "Total number of user store operations, by backend, operation and result.",
	},
	[]string{"backend", "operation", "result"},
)

// UserStoreFallbacksTotal counts database failures that were retried on the file store.
var UserStoreFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_store_fallbacks_total",
		Help:      "Total number of database operations that fell back to the file store.",
	},
	[]string{"operation"},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// AuthEventsTotal counts account events.
// Labels:
//   - event:  "register", "login", "update"
//   - result: "ok" or a short failure reason ("exists", "invalid_credentials", ...)
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of account events, by event and result.",
	},
	[]string{"event", "result"},
)

// LoginRateLimitedTotal counts login attempts rejected by the limiter.
var LoginRateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_rate_limited_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)

// ── Catalog metrics ──────────────────────────────────────────────────────────

// CatalogProducts reports how many products the catalog holds, by source file.
var CatalogProducts = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_products",
		Help:      "Number of products loaded into the catalog, by source.",
	},
	[]string{"source"},
)
