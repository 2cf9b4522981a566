// Package metrics defines and registers the custom Prometheus metrics of the
// storefront services. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/storefront/platform/internal/core/ports"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionRejectionsTotal counts requests rejected by the session middleware.
// The reason is recorded here and in debug logs only; clients always see a
// plain 401.
// Label:
//   - reason: "missing", "invalid_signature", "expired" or "malformed"
var SessionRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_rejections_total",
		Help:      "Total number of requests rejected for a missing or invalid session token.",
	},
	[]string{"reason"},
)

// PasswordHashDuration measures bcrypt hashing and verification, including
// time spent waiting for a hashing worker.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hash and verify operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// HashQueueDepth tracks the number of password jobs waiting for a worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of password hashing jobs waiting for a worker.",
	},
)

// ── Address metrics ───────────────────────────────────────────────────────────

// AddressMutationsTotal counts successful address list changes.
// Label:
//   - op: "add", "add_default" or "delete"
var AddressMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "address_mutations_total",
		Help:      "Total number of address additions and deletions.",
	},
	[]string{"op"},
)

// ── Product metrics ───────────────────────────────────────────────────────────

// ProductsCreatedTotal counts newly created products.
// Label:
//   - currency: price currency of the product
var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created, by currency.",
	},
	[]string{"currency"},
)

// ProductCacheTotal counts product cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var ProductCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_cache_total",
		Help:      "Total number of product cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Recorder ──────────────────────────────────────────────────────────────────

// Recorder feeds the core services' outcomes into the metrics above.
// It implements ports.Metrics.
type Recorder struct{}

var _ ports.Metrics = Recorder{}

func (Recorder) Registration(result string) {
	RegistrationsTotal.WithLabelValues(result).Inc()
}

func (Recorder) Login(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

func (Recorder) PasswordOp(op string, d time.Duration) {
	PasswordHashDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (Recorder) AddressMutation(op string) {
	AddressMutationsTotal.WithLabelValues(op).Inc()
}

func (Recorder) ProductCreated(currency string) {
	ProductsCreatedTotal.WithLabelValues(currency).Inc()
}

func (Recorder) ProductCache(result string) {
	ProductCacheTotal.WithLabelValues(result).Inc()
}
