// Package metrics provides Prometheus metrics for the huddle play feed service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider outcomes recorded per orchestrator attempt.
const (
	OutcomePlays      = "plays"
	OutcomeEmpty      = "empty"
	OutcomeError      = "error"
	OutcomeIneligible = "ineligible"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Provider and orchestrator metrics
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	upstreamRetries  *prometheus.CounterVec
	loads            *prometheus.CounterVec
	playsNormalized  prometheus.Counter

	// Cache metrics
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cacheEntries   *prometheus.GaugeVec

	// Refresh pipeline metrics
	refreshJobs     *prometheus.CounterVec
	refreshSkipped  prometheus.Counter
	refreshLatency  prometheus.Histogram
	trackedGames    prometheus.Gauge
	snapshotCount   prometheus.Gauge
	snapshotUpdates prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerJobsPerSecond     prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Live feed and stream metrics
	liveSubscribers  prometheus.Gauge
	liveMessages     prometheus.Counter
	liveDropped      prometheus.Counter
	streamPublished  prometheus.Counter
	streamPublishErr prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "huddle",
		subsystem:        "plays",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.providerRequests = auto.NewCounterVec(
		m.counterOpts("provider_requests_total", "Provider attempts made by the orchestrator by outcome"),
		[]string{"provider", "outcome"},
	)
	m.providerLatency = auto.NewHistogramVec(
		m.histogramOpts("provider_latency_milliseconds", "Time spent in a provider's eligibility check and fetch", m.histogramBuckets),
		[]string{"provider"},
	)
	m.upstreamRetries = auto.NewCounterVec(
		m.counterOpts("upstream_retries_total", "Upstream HTTP requests retried after a transient failure"),
		[]string{"provider"},
	)
	m.loads = auto.NewCounterVec(
		m.counterOpts("loads_total", "Orchestrator loads by result"),
		[]string{"result"},
	)
	m.playsNormalized = auto.NewCounter(m.counterOpts("normalized_total", "Plays returned after normalization"))

	m.cacheHits = auto.NewCounterVec(m.counterOpts("cache_hits_total", "Payload cache hits"), []string{"cache"})
	m.cacheMisses = auto.NewCounterVec(m.counterOpts("cache_misses_total", "Payload cache misses"), []string{"cache"})
	m.cacheEvictions = auto.NewCounterVec(m.counterOpts("cache_evictions_total", "Payload cache evictions"), []string{"cache"})
	m.cacheEntries = auto.NewGaugeVec(m.gaugeOpts("cache_entries", "Entries currently held in a payload cache"), []string{"cache"})

	m.refreshJobs = auto.NewCounterVec(
		m.counterOpts("refresh_jobs_total", "Refresh jobs processed by trigger and result"),
		[]string{"trigger", "result"},
	)
	m.refreshSkipped = auto.NewCounter(m.counterOpts("refresh_skipped_total", "Refreshes skipped because one was already in flight"))
	m.refreshLatency = auto.NewHistogram(m.histogramOpts("refresh_latency_milliseconds", "End to end refresh latency", m.histogramBuckets))
	m.trackedGames = auto.NewGauge(m.gaugeOpts("tracked_games", "Games currently polled on an interval"))
	m.snapshotCount = auto.NewGauge(m.gaugeOpts("snapshots", "Games with a stored play snapshot"))
	m.snapshotUpdates = auto.NewCounter(m.counterOpts("snapshot_updates_total", "Play snapshots replaced"))

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the refresh queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum capacity of the refresh queue"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Refresh queue utilization (0-1)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Refresh jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Refresh jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Refresh jobs rejected by the queue"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Refresh workers running"))
	m.workerJobsPerSecond = auto.NewGauge(m.gaugeOpts("worker_jobs_per_second", "Refresh jobs processed per second"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds", "Refresh job processing latency", m.histogramBuckets))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Refresh jobs that failed"))

	m.liveSubscribers = auto.NewGauge(m.gaugeOpts("live_subscribers", "Connected live feed subscribers"))
	m.liveMessages = auto.NewCounter(m.counterOpts("live_messages_total", "Messages delivered to live feed subscribers"))
	m.liveDropped = auto.NewCounter(m.counterOpts("live_dropped_total", "Messages dropped for slow live feed subscribers"))
	m.streamPublished = auto.NewCounter(m.counterOpts("stream_published_total", "Snapshots published to the redis stream"))
	m.streamPublishErr = auto.NewCounter(m.counterOpts("stream_publish_errors_total", "Failed redis stream publishes"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}))
}

// RecordProviderRequest counts one orchestrator attempt against a provider.
func RecordProviderRequest(provider, outcome string) {
	globalManager.providerRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordProviderLatency records the time spent on a provider in milliseconds.
func RecordProviderLatency(provider string, latencyMs float64) {
	globalManager.providerLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordUpstreamRetry counts a retried upstream request.
func RecordUpstreamRetry(provider string) {
	globalManager.upstreamRetries.WithLabelValues(provider).Inc()
}

// RecordLoad counts an orchestrator load by result ("served" or "exhausted").
func RecordLoad(result string) {
	globalManager.loads.WithLabelValues(result).Inc()
}

// RecordPlaysNormalized adds the number of plays returned by a load.
func RecordPlaysNormalized(count int) {
	globalManager.playsNormalized.Add(float64(count))
}

// RecordCacheHit counts a cache hit.
func RecordCacheHit(cache string) {
	globalManager.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss(cache string) {
	globalManager.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordCacheEviction counts an evicted or expired entry.
func RecordCacheEviction(cache string) {
	globalManager.cacheEvictions.WithLabelValues(cache).Inc()
}

// UpdateCacheEntries sets the number of live entries in a cache.
func UpdateCacheEntries(cache string, count int) {
	globalManager.cacheEntries.WithLabelValues(cache).Set(float64(count))
}

// RecordRefreshJob counts a processed refresh job.
func RecordRefreshJob(trigger, result string) {
	globalManager.refreshJobs.WithLabelValues(trigger, result).Inc()
}

// RecordRefreshSkipped counts a refresh dropped by the in-flight guard.
func RecordRefreshSkipped() {
	globalManager.refreshSkipped.Inc()
}

// RecordRefreshLatency records end to end refresh latency in milliseconds.
func RecordRefreshLatency(latencyMs float64) {
	globalManager.refreshLatency.Observe(latencyMs)
}

// UpdateTrackedGames sets the number of polled games.
func UpdateTrackedGames(count int) {
	globalManager.trackedGames.Set(float64(count))
}

// UpdateSnapshotCount sets the number of stored snapshots.
func UpdateSnapshotCount(count int) {
	globalManager.snapshotCount.Set(float64(count))
}

// RecordSnapshotUpdate counts a replaced snapshot.
func RecordSnapshotUpdate() {
	globalManager.snapshotUpdates.Inc()
}

// UpdateQueueSize updates the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity updates the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization updates the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueued job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue counts a dequeued job.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerJobsPerSecond sets the observed processing rate.
func UpdateWorkerJobsPerSecond(rate float64) {
	globalManager.workerJobsPerSecond.Set(rate)
}

// RecordWorkerProcessingLatency records worker processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateLiveSubscribers sets the number of connected live subscribers.
func UpdateLiveSubscribers(count int) {
	globalManager.liveSubscribers.Set(float64(count))
}

// RecordLiveMessage counts a delivered live message.
func RecordLiveMessage() {
	globalManager.liveMessages.Inc()
}

// RecordLiveDropped counts a message dropped for a slow subscriber.
func RecordLiveDropped() {
	globalManager.liveDropped.Inc()
}

// RecordStreamPublished counts a stream publish.
func RecordStreamPublished() {
	globalManager.streamPublished.Inc()
}

// RecordStreamPublishError counts a failed stream publish.
func RecordStreamPublishError() {
	globalManager.streamPublishErr.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage updates allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
