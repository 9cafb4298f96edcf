// Package metrics defines the prometheus collectors for provider calls and
// served HTTP requests.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "options-dashboard/internal/errors"
)

var (
	// Provider metrics
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionsdash_provider_calls_total",
			Help: "Total number of quote provider calls",
		},
		[]string{"provider", "operation", "status"}, // status: success|not_found|unavailable|error
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optionsdash_provider_latency_seconds",
			Help:    "Quote provider call latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optionsdash_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "code"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optionsdash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

var once sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(ProviderCalls)
		prometheus.MustRegister(ProviderLatency)
		prometheus.MustRegister(HTTPRequests)
		prometheus.MustRegister(HTTPDuration)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Status classifies an error into a provider status label.
func Status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrDataUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// RecordProviderCall records a quote provider call
func RecordProviderCall(provider, operation string, latency time.Duration, err error) {
	ProviderCalls.WithLabelValues(provider, operation, Status(err)).Inc()
	ProviderLatency.WithLabelValues(provider, operation).Observe(latency.Seconds())
}

// RecordHTTPRequest records a served request
func RecordHTTPRequest(route, method string, code int, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}
