// Package metrics exposes Prometheus collectors for the HTTP API and route
// queries.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests can build as many as they need.
type Recorder struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	routeQueries    *prometheus.CounterVec
	routeDuration   prometheus.Histogram
	routeStops      prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "georoute_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "georoute_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		routeQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "georoute_route_queries_total",
			Help: "Shortest path queries by result",
		}, []string{"result"}),
		routeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "georoute_route_query_duration_seconds",
			Help:    "Shortest path query duration in seconds, store reads included",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}),
		routeStops: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "georoute_route_query_stops",
			Help:    "Origin, waypoints and destination per query",
			Buckets: []float64{2, 3, 4, 6, 10, 20},
		}),
	}
}

// ObserveRoute records the outcome of a route query.
func (r *Recorder) ObserveRoute(result string, stops int, elapsed time.Duration) {
	r.routeQueries.WithLabelValues(result).Inc()
	r.routeDuration.Observe(elapsed.Seconds())
	r.routeStops.Observe(float64(stops))
}

// ObserveRequest records a served HTTP request. route is the matched route
// template, never the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
