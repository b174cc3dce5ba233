// Package metrics owns the Prometheus registry and the collectors shared by
// the HTTP layer, the resource service and the cleanup worker.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP request latency by method, route pattern and status code
	RequestDuration *prometheus.HistogramVec

	// Service operation outcomes by operation and outcome
	Operations *prometheus.CounterVec

	// Service operation latency by operation
	OperationDuration *prometheus.HistogramVec

	// Cleanup queue outcomes: deleted, retried, dropped
	Cleanup *prometheus.CounterVec
}

// New creates a private registry with runtime collectors and registers every
// service metric on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sgas_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sgas_service_operations_total",
			Help: "Resource service operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sgas_service_operation_duration_seconds",
			Help:    "Duration of resource service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		Cleanup: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sgas_cleanup_jobs_total",
			Help: "Attachment cleanup jobs by outcome",
		}, []string{"outcome"}),
	}
}

// Observe records a service operation outcome.
func (m *Metrics) Observe(_ context.Context, operation string, success bool, d time.Duration) {
	if m == nil || operation == "" {
		return
	}
	outcome := "error"
	if success {
		outcome = "success"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
