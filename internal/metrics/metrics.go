// Package metrics holds the prometheus collectors for the API and the store.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
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

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op", "table"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of failed store calls",
		},
		[]string{"op", "table"},
	)

	CheckoutRecommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_recommendations_total",
			Help: "Checkout recommendations computed, by merchant website",
		},
		[]string{"website"},
	)
)

// RecordHTTPRequest records one served request. route is the matched
// pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordStoreQuery(op, table string, d time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(op, table).Observe(d.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(op, table).Inc()
	}
}

func RecordRecommendation(website string) {
	CheckoutRecommendations.WithLabelValues(website).Inc()
}
