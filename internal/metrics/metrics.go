// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the services. Recorders are no-ops until Init is called.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpResponseSize    *prometheus.HistogramVec

	// Version ledger metrics
	CommitsTotal       *prometheus.CounterVec
	RollbacksTotal     *prometheus.CounterVec
	CellsRestoredTotal prometheus.Counter

	// Code generation metrics
	CodegenTotal    *prometheus.CounterVec
	CodegenDuration *prometheus.HistogramVec
	ExportBytes     *prometheus.CounterVec
}

var (
	metrics *PrometheusMetrics
	mu      sync.RWMutex
)

// Init registers every collector with reg and enables the recorders.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics handler.
func Init(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	m := &PrometheusMetrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gdh_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gdh_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HttpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gdh_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		CommitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gdh_commits_total",
				Help: "Total number of versions committed",
			},
			[]string{"scope"},
		),
		RollbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gdh_rollbacks_total",
				Help: "Total number of rollback attempts",
			},
			[]string{"result"},
		),
		CellsRestoredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gdh_cells_restored_total",
				Help: "Total number of cells written back by rollbacks",
			},
		),

		CodegenTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gdh_codegen_total",
				Help: "Total number of code generation runs",
			},
			[]string{"format", "status"},
		),
		CodegenDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gdh_codegen_duration_seconds",
				Help:    "Code generation time in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		ExportBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gdh_export_bytes_total",
				Help: "Total bytes written to the export store",
			},
			[]string{"driver"},
		),
	}

	mu.Lock()
	metrics = m
	mu.Unlock()
	return m
}

// GetMetrics returns the initialized metrics
func GetMetrics() *PrometheusMetrics {
	mu.RLock()
	defer mu.RUnlock()
	return metrics
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, endpoint, status string, duration time.Duration, size int) {
	m := GetMetrics()
	if m == nil {
		return
	}

	m.HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if size > 0 {
		m.HttpResponseSize.WithLabelValues(method, endpoint).Observe(float64(size))
	}
}

// RecordCommit counts a persisted version. Scope is "table" or "project".
func RecordCommit(scope string) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.CommitsTotal.WithLabelValues(scope).Inc()
}

// RecordRollback counts a rollback attempt and the cells it restored
func RecordRollback(result string, restored int) {
	m := GetMetrics()
	if m == nil {
		return
	}

	m.RollbacksTotal.WithLabelValues(result).Inc()
	if restored > 0 {
		m.CellsRestoredTotal.Add(float64(restored))
	}
}

// RecordCodegen records a generator run
func RecordCodegen(format string, success bool, duration time.Duration) {
	m := GetMetrics()
	if m == nil {
		return
	}

	status := "success"
	if !success {
		status = "error"
	}
	m.CodegenTotal.WithLabelValues(format, status).Inc()
	m.CodegenDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordExport adds the size of a stored artifact
func RecordExport(driver string, size int) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.ExportBytes.WithLabelValues(driver).Add(float64(size))
}
