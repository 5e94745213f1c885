// Package metrics provides Prometheus metrics for the rondo rotation service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the rondo service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         *prometheus.Registry

	// Core Business Metrics - what matters for a rotation planner
	ticksProcessed        prometheus.Counter
	planRecomputes        prometheus.Counter
	planningShortfalls    prometheus.Counter
	substitutionsMatched  prometheus.Counter
	substitutionsDiverged prometheus.Counter
	substitutionsDup      prometheus.Counter
	assignmentsPlanned    prometheus.Counter

	// Match State Gauges
	rosterAvailable   prometheus.Gauge
	rosterUnavailable prometheus.Gauge
	planLength        prometheus.Gauge
	executedBoundary  prometheus.Gauge
	shiftSeconds      prometheus.Gauge
	gameClockSeconds  prometheus.Gauge

	// Snapshot Metrics - persistence round-trips
	snapshotSaves           prometheus.Counter
	snapshotRestores        prometheus.Counter
	snapshotRestoreFailures prometheus.Counter
	snapshotLastSaveUnix    prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue Metrics - match event queue
	queueCapacity          prometheus.Gauge
	queueSize              prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Director Metrics - serialized event application
	directorActive            prometheus.Gauge
	directorProcessingLatency prometheus.Histogram
	directorErrors            prometheus.Counter

	// Enhanced Error Metrics - detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var manager *Manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	manager = NewManager()
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rondo",
		subsystem:        "planner",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	factory := promauto.With(m.registry)

	m.ticksProcessed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ticks_total",
		Help: "Total number of game-clock ticks applied",
	})
	m.planRecomputes = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plan_recomputes_total",
		Help: "Total number of projected-plan recomputations",
	})
	m.planningShortfalls = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "planning_shortfalls_total",
		Help: "Times planning halted early for lack of bench players",
	})
	m.substitutionsMatched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "substitutions_matched_total",
		Help: "Executed substitutions that matched the projection",
	})
	m.substitutionsDiverged = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "substitutions_diverged_total",
		Help: "Executed substitutions that diverged from the projection",
	})
	m.substitutionsDup = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "substitution_batches_duplicate_total",
		Help: "Substitution batches dropped as duplicates",
	})
	m.assignmentsPlanned = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "assignments_planned_total",
		Help: "Projected assignments appended by the planner",
	})

	m.rosterAvailable = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "roster_available",
		Help: "Players currently available to play",
	})
	m.rosterUnavailable = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "roster_unavailable",
		Help: "Players currently marked unavailable",
	})
	m.planLength = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plan_length",
		Help: "Total assignments in the plan (executed plus projected)",
	})
	m.executedBoundary = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "plan_executed_boundary",
		Help: "Index separating executed history from projections",
	})
	m.shiftSeconds = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "shift_seconds",
		Help: "Current per-shift duration in seconds",
	})
	m.gameClockSeconds = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "game_clock_seconds",
		Help: "Last game-clock value supplied by the caller",
	})

	m.snapshotSaves = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "snapshot",
		Name: "saves_total",
		Help: "Successful state snapshot saves",
	})
	m.snapshotRestores = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "snapshot",
		Name: "restores_total",
		Help: "Successful state snapshot restores",
	})
	m.snapshotRestoreFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "snapshot",
		Name: "restore_failures_total",
		Help: "Snapshot restores rejected as invalid",
	})
	m.snapshotLastSaveUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "snapshot",
		Name: "last_save_timestamp_unix",
		Help: "Unix time of the last successful snapshot save",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name: "requests_total",
		Help: "Total HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http",
		Name:    "request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "capacity",
		Help: "Configured match event queue capacity",
	})
	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "size",
		Help: "Match events currently queued",
	})
	m.queueUtilization = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "utilization",
		Help: "Queue fill ratio between 0 and 1",
	})
	m.queueEnqueueRate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "enqueues_total",
		Help: "Total successful enqueues",
	})
	m.queueDequeueRate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "dequeues_total",
		Help: "Total dequeues",
	})
	m.queueEnqueueErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name: "enqueue_errors_total",
		Help: "Enqueues rejected by backpressure or closure",
	})
	m.queueProcessingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "queue",
		Name:    "processing_latency_ms",
		Help:    "Enqueue handling latency in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.directorActive = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "director",
		Name: "active",
		Help: "Whether the match director loop is running",
	})
	m.directorProcessingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "director",
		Name:    "processing_latency_ms",
		Help:    "Per-event application latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.directorErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "director",
		Name: "errors_total",
		Help: "Events the director failed to apply",
	})

	m.errorRateByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors",
		Name: "by_component_total",
		Help: "Errors by component and type",
	}, []string{"component", "error_type"})
	m.errorRateByType = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors",
		Name: "by_type_total",
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})
	m.errorRateByEndpoint = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors",
		Name: "by_endpoint_total",
		Help: "Errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name: "memory_bytes",
		Help: "Allocated heap bytes",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name: "goroutines",
		Help: "Number of goroutines",
	})
	m.systemGCPauseTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system",
		Name:    "gc_pause_ms",
		Help:    "Average GC pause time in milliseconds",
		Buckets: m.histogramBuckets,
	})
}

// Business metric helpers.

func RecordTick()                 { manager.ticksProcessed.Inc() }
func RecordPlanRecompute()        { manager.planRecomputes.Inc() }
func RecordPlanningShortfall()    { manager.planningShortfalls.Inc() }
func RecordSubstitutionMatched()  { manager.substitutionsMatched.Inc() }
func RecordSubstitutionDiverged() { manager.substitutionsDiverged.Inc() }
func RecordDuplicateBatch()       { manager.substitutionsDup.Inc() }
func RecordAssignmentPlanned()    { manager.assignmentsPlanned.Inc() }

// Match state gauges.

func UpdateRosterAvailable(count int)    { manager.rosterAvailable.Set(float64(count)) }
func UpdateRosterUnavailable(count int)  { manager.rosterUnavailable.Set(float64(count)) }
func UpdatePlanLength(count int)         { manager.planLength.Set(float64(count)) }
func UpdateExecutedBoundary(index int)   { manager.executedBoundary.Set(float64(index)) }
func UpdateShiftSeconds(sec float64)     { manager.shiftSeconds.Set(sec) }
func UpdateGameClockSeconds(sec float64) { manager.gameClockSeconds.Set(sec) }

// Snapshot metrics.

func RecordSnapshotSave() {
	manager.snapshotSaves.Inc()
	manager.snapshotLastSaveUnix.Set(float64(time.Now().Unix()))
}
func RecordSnapshotRestore()        { manager.snapshotRestores.Inc() }
func RecordSnapshotRestoreFailure() { manager.snapshotRestoreFailures.Inc() }

// HTTP metrics.

func RecordHTTPRequest(endpoint, method, statusCode string) {
	manager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	manager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Queue metrics.

func UpdateQueueCapacity(capacity int)               { manager.queueCapacity.Set(float64(capacity)) }
func UpdateQueueSize(size int)                       { manager.queueSize.Set(float64(size)) }
func UpdateQueueUtilization(utilization float64)     { manager.queueUtilization.Set(utilization) }
func RecordQueueEnqueue()                            { manager.queueEnqueueRate.Inc() }
func RecordQueueDequeue()                            { manager.queueDequeueRate.Inc() }
func RecordQueueEnqueueError()                       { manager.queueEnqueueErrors.Inc() }
func RecordQueueProcessingLatency(latencyMs float64) { manager.queueProcessingLatency.Observe(latencyMs) }

// Director metrics.

func UpdateDirectorActive(active bool) {
	if active {
		manager.directorActive.Set(1)
	} else {
		manager.directorActive.Set(0)
	}
}
func RecordDirectorProcessingLatency(latencyMs float64) {
	manager.directorProcessingLatency.Observe(latencyMs)
}
func RecordDirectorError() { manager.directorErrors.Inc() }

// Error metrics.

func RecordErrorByComponent(component, errorType string) {
	manager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

func RecordErrorByType(errorType, severity string) {
	manager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	manager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

func UpdateSystemMemoryUsage(bytes uint64)    { manager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(count int)    { manager.systemGoroutineCount.Set(float64(count)) }
func RecordSystemGCPauseTime(pauseMs float64) { manager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry exposes the custom registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return manager.registry
}
