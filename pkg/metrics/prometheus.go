// Package metrics provides Prometheus metrics for the skillmerge service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the skillmerge service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Batch Metrics
	batches          *prometheus.CounterVec
	batchLatency     prometheus.Histogram
	reconcileLatency prometheus.Histogram
	tableRows        *prometheus.GaugeVec

	// File Metrics
	filesReceived    prometheus.Counter
	filesDuplicate   prometheus.Counter
	filesParsed      *prometheus.CounterVec
	filesUnparseable *prometheus.CounterVec
	parseLatency     prometheus.Histogram
	recordsExtracted prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillmerge",
		subsystem:        "merge",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.batches = auto.NewCounterVec(
		m.counterOpts("batches_total", "Total number of merge batches by outcome"),
		[]string{"outcome"},
	)
	m.batchLatency = auto.NewHistogram(
		m.histogramOpts("batch_latency_milliseconds", "End-to-end merge batch latency in milliseconds"),
	)
	m.reconcileLatency = auto.NewHistogram(
		m.histogramOpts("reconcile_latency_milliseconds", "Reconciliation latency in milliseconds"),
	)
	m.tableRows = auto.NewGaugeVec(
		m.gaugeOpts("table_rows", "Row count of the last reconciled table"),
		[]string{"table"},
	)

	m.filesReceived = auto.NewCounter(
		m.counterOpts("files_received_total", "Total number of spreadsheet files received, after archive expansion"),
	)
	m.filesDuplicate = auto.NewCounter(
		m.counterOpts("files_duplicate_total", "Total number of byte-identical files skipped within a batch"),
	)
	m.filesParsed = auto.NewCounterVec(
		m.counterOpts("files_parsed_total", "Total number of files that produced records, by heuristic"),
		[]string{"heuristic"},
	)
	m.filesUnparseable = auto.NewCounterVec(
		m.counterOpts("files_unparseable_total", "Total number of files excluded from a merge, by reason"),
		[]string{"reason"},
	)
	m.parseLatency = auto.NewHistogram(
		m.histogramOpts("parse_latency_milliseconds", "Per-file read and inference latency in milliseconds"),
	)
	m.recordsExtracted = auto.NewCounter(
		m.counterOpts("records_extracted_total", "Total number of skill records extracted from files"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
}

// Batch outcomes.
const (
	OutcomeMerged = "merged"
	OutcomeEmpty  = "empty"
	OutcomeNoData = "no_data"
	OutcomeFailed = "failed"
)

// Table names for UpdateTableRows.
const (
	TableCycle1 = "cycle1"
	TableCycle2 = "cycle2"
	TableMaster = "master"
)

// RecordBatch increments the batch counter for an outcome.
func RecordBatch(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.batches.WithLabelValues(outcome).Inc()
}

// RecordBatchLatency records end-to-end batch latency in milliseconds.
func RecordBatchLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.batchLatency.Observe(latencyMs)
}

// RecordReconcileLatency records reconciliation latency in milliseconds.
func RecordReconcileLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.reconcileLatency.Observe(latencyMs)
}

// UpdateTableRows sets the row count of a reconciled table.
func UpdateTableRows(table string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.tableRows.WithLabelValues(table).Set(float64(rows))
}

// RecordFileReceived increments the received files counter.
func RecordFileReceived() {
	if !globalManager.enabled {
		return
	}
	globalManager.filesReceived.Inc()
}

// RecordFileDuplicate increments the duplicate files counter.
func RecordFileDuplicate() {
	if !globalManager.enabled {
		return
	}
	globalManager.filesDuplicate.Inc()
}

// RecordFileParsed counts a file that produced records with the given heuristic.
func RecordFileParsed(heuristic string) {
	if !globalManager.enabled {
		return
	}
	globalManager.filesParsed.WithLabelValues(heuristic).Inc()
}

// RecordFileUnparseable counts a file excluded from a merge.
func RecordFileUnparseable(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.filesUnparseable.WithLabelValues(reason).Inc()
}

// RecordParseLatency records per-file parse latency in milliseconds.
func RecordParseLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.parseLatency.Observe(latencyMs)
}

// RecordRecordsExtracted adds n to the extracted records counter.
func RecordRecordsExtracted(n int) {
	if !globalManager.enabled || n <= 0 {
		return
	}
	globalManager.recordsExtracted.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// Init replaces the global manager with one built from opts on a fresh
// registry. Call it at start-up, before handlers read GetRegistry.
func Init(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
