// Package metrics provides Prometheus metrics for the focusfork issue scout.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Histogram buckets for latencies in milliseconds and for heuristic scores.
var (
	defaultLatencyBuckets = []float64{5, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}
	scoreBuckets          = []float64{-10, -5, 0, 5, 10, 15, 20, 25, 30}
	candidateBuckets      = []float64{0, 1, 5, 10, 15, 20}
)

// Manager owns every metric exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Scouting
	scoutRequests    *prometheus.CounterVec
	candidatesScored prometheus.Histogram
	selectedScore    prometheus.Histogram
	sessionsStarted  *prometheus.CounterVec
	searchRequests   *prometheus.CounterVec
	searchLatency    prometheus.Histogram
	chatToolCalls    *prometheus.CounterVec

	// Plan synthesis
	planOutcomes      *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "focusfork",
		subsystem:        "scout",
		histogramBuckets: defaultLatencyBuckets,
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

func (m *Manager) name(n string) string { return m.metricPrefix + n }

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.scoutRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("requests_total"),
		Help: "Scout requests by outcome (selected, empty, error)",
	}, []string{"outcome"})

	m.candidatesScored = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("candidates_scored"),
		Help:    "Number of candidates scored per scout request",
		Buckets: candidateBuckets,
	})

	m.selectedScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("selected_score"),
		Help:    "Heuristic score of the selected candidate",
		Buckets: scoreBuckets,
	})

	m.sessionsStarted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("sessions_started_total"),
		Help: "Focus sessions started by issue source (scouted, direct)",
	}, []string{"source"})

	m.searchRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("search_requests_total"),
		Help: "Calls to the issue search endpoint by outcome",
	}, []string{"outcome"})

	m.searchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("search_latency_milliseconds"),
		Help:    "Issue search latency in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.chatToolCalls = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("chat_tool_calls_total"),
		Help: "searchIssues tool invocations made by the chat assistant",
	}, []string{"outcome"})

	m.planOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("plan_outcomes_total"),
		Help: "Focus plans returned by source (model, fallback)",
	}, []string{"source"})

	m.generationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("generation_latency_milliseconds"),
		Help:    "Plan generation latency in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"provider", "outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("http_requests_total"),
		Help: "Total HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("http_request_duration_milliseconds"),
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("errors_by_type_total"),
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name: m.name("errors_by_endpoint_total"),
		Help: "Errors by HTTP endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: constLabels,
		Name:    m.name("error_latency_milliseconds"),
		Help:    "Latency of failed requests in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: constLabels,
		Name: m.name("memory_usage_bytes"),
		Help: "Allocated heap bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: constLabels,
		Name: m.name("goroutines"),
		Help: "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: constLabels,
		Name:    m.name("gc_pause_milliseconds"),
		Help:    "Average GC pause time in milliseconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
}

// Manager recorders. Each is a no-op when metrics are disabled.

func (m *Manager) RecordScout(outcome string) {
	if m.enabled {
		m.scoutRequests.WithLabelValues(outcome).Inc()
	}
}

func (m *Manager) RecordCandidatesScored(n int) {
	if m.enabled {
		m.candidatesScored.Observe(float64(n))
	}
}

func (m *Manager) RecordSelectedScore(score int) {
	if m.enabled {
		m.selectedScore.Observe(float64(score))
	}
}

func (m *Manager) RecordSessionStarted(source string) {
	if m.enabled {
		m.sessionsStarted.WithLabelValues(source).Inc()
	}
}

func (m *Manager) RecordSearch(outcome string, latencyMs float64) {
	if m.enabled {
		m.searchRequests.WithLabelValues(outcome).Inc()
		m.searchLatency.Observe(latencyMs)
	}
}

func (m *Manager) RecordChatToolCall(outcome string) {
	if m.enabled {
		m.chatToolCalls.WithLabelValues(outcome).Inc()
	}
}

func (m *Manager) RecordPlanOutcome(source string) {
	if m.enabled {
		m.planOutcomes.WithLabelValues(source).Inc()
	}
}

func (m *Manager) RecordGeneration(provider, outcome string, latencyMs float64) {
	if m.enabled {
		m.generationLatency.WithLabelValues(provider, outcome).Observe(latencyMs)
	}
}

func (m *Manager) RecordHTTPRequest(endpoint, method string, statusCode int, durationMs float64) {
	if !m.enabled {
		return
	}
	code := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(durationMs)
}

func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorLatency.WithLabelValues("http", errorType).Observe(latencyMs)
}

func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level recorders backed by the global manager.

// RecordScout counts a scout request outcome.
func RecordScout(outcome string) { globalManager.RecordScout(outcome) }

// RecordCandidatesScored observes the size of a scored candidate pool.
func RecordCandidatesScored(n int) { globalManager.RecordCandidatesScored(n) }

// RecordSelectedScore observes the score of a selected candidate.
func RecordSelectedScore(score int) { globalManager.RecordSelectedScore(score) }

// RecordSessionStarted counts a started focus session.
func RecordSessionStarted(source string) { globalManager.RecordSessionStarted(source) }

// RecordSearch counts a search call and observes its latency.
func RecordSearch(outcome string, latencyMs float64) { globalManager.RecordSearch(outcome, latencyMs) }

// RecordChatToolCall counts a chat tool invocation.
func RecordChatToolCall(outcome string) { globalManager.RecordChatToolCall(outcome) }

// RecordPlanOutcome counts a returned plan by source.
func RecordPlanOutcome(source string) { globalManager.RecordPlanOutcome(source) }

// RecordGeneration observes a generation call.
func RecordGeneration(provider, outcome string, latencyMs float64) {
	globalManager.RecordGeneration(provider, outcome, latencyMs)
}

// RecordHTTPRequest counts a request and observes its duration.
func RecordHTTPRequest(endpoint, method string, statusCode int, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records a failed request.
func RecordHTTPError(endpoint, method, errorType, severity string, latencyMs float64) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity, latencyMs)
}

// UpdateSystem refreshes the process gauges.
func UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, avgGCPauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
