// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Package suggestions
	PackageCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "package_suggestion_cache_total",
			Help: "Package suggestion cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// Commerce
	CartMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart mutations by operation",
		},
		[]string{"operation"},
	)

	CreditsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visualizer_credits_consumed_total",
			Help: "Visualizer credits consumed",
		},
	)

	CreditsGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visualizer_credits_granted_total",
			Help: "Visualizer credits granted by completed purchases",
		},
	)

	CheckoutSessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_sessions_created_total",
			Help: "Checkout sessions created by kind",
		},
		[]string{"kind"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Payment webhook events by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	LeadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Leads captured by source",
		},
		[]string{"source"},
	)

	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_panics_recovered_total",
			Help: "Handler panics turned into 500 responses, by route",
		},
		[]string{"route"},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordCacheLookup counts a suggestion cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		PackageCacheResults.WithLabelValues("hit").Inc()
		return
	}
	PackageCacheResults.WithLabelValues("miss").Inc()
}
