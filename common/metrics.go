package common

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exkit_http_requests_total",
			Help: "Total number of exchange REST requests by status code",
		}, []string{"exchange", "method", "status_code"},
	)

	httpRequestLatencyMetrics = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exkit_http_request_duration_milliseconds",
			Help:    "Exchange REST request duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~5s
		}, []string{"exchange", "method"},
	)

	httpRequestErrorMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exkit_http_request_errors_total",
			Help: "Total number of exchange REST requests that failed before a response was received",
		}, []string{"exchange", "method"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestTotalMetrics,
		httpRequestLatencyMetrics,
		httpRequestErrorMetrics,
	)
}

func observeRequest(exchange, method string, statusCode int, elapsed time.Duration) {
	httpRequestTotalMetrics.WithLabelValues(exchange, method, strconv.Itoa(statusCode)).Inc()
	httpRequestLatencyMetrics.WithLabelValues(exchange, method).Observe(float64(elapsed.Milliseconds()))
}

func observeRequestError(exchange, method string) {
	httpRequestErrorMetrics.WithLabelValues(exchange, method).Inc()
}
