// Package metrics provides Prometheus instrumentation for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CartActionsTotal counts cart mutations, partitioned by action.
	CartActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_actions_total",
		Help: "Total number of cart mutations",
	}, []string{"action"})

	// CartItems tracks the total units currently in the cart.
	CartItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_cart_items",
		Help: "Total units currently in the cart",
	})

	// CartValue tracks the current cart subtotal.
	CartValue = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_cart_value",
		Help: "Current cart subtotal",
	})

	// SnapshotWriteFailures counts durable snapshot writes that failed.
	SnapshotWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_snapshot_write_failures_total",
		Help: "Cart snapshot writes that failed",
	})

	// CatalogFetchDuration tracks remote catalog fetch latency.
	CatalogFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_catalog_fetch_duration_seconds",
		Help:    "Catalog fetch latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// CatalogFetchErrors counts failed catalog fetches.
	CatalogFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_fetch_errors_total",
		Help: "Failed catalog fetches",
	})

	// CatalogProducts tracks the size of the current catalog snapshot.
	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Products in the current catalog snapshot",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the raw path for the label; the route surface is small
		// enough that cardinality stays bounded.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
