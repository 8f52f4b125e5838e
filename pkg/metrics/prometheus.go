// Package metrics provides Prometheus metrics for the crease scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the collectors of one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Scoring
	deliveries        *prometheus.CounterVec
	wickets           *prometheus.CounterVec
	suppressedWickets prometheus.Counter
	ruleViolations    *prometheus.CounterVec
	matchesCreated    prometheus.Counter
	matchesFinished   *prometheus.CounterVec
	superOvers        prometheus.Counter
	activeMatches     prometheus.Gauge
	ratingsAdjusted   prometheus.Counter
	duplicateCommands prometheus.Counter
	undoTotal         prometheus.Counter
	replayDuration    prometheus.Histogram
	replayLength      prometheus.Histogram
	commandLatency    *prometheus.HistogramVec
	commandErrors     *prometheus.CounterVec

	// Storage
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// Queue and workers
	queueSize          *prometheus.GaugeVec
	queueEnqueueErrors prometheus.Counter
	workerCount        prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crease",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.deliveries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "deliveries_total",
		Help:      "Deliveries applied, by event kind",
	}, []string{"kind"})

	m.wickets = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "wickets_total",
		Help:      "Dismissals recorded, by wicket type",
	}, []string{"type"})

	m.suppressedWickets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "free_hit_dismissals_suppressed_total",
		Help:      "Dismissals voided because they came off a free hit",
	})

	m.ruleViolations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rule_violations_total",
		Help:      "Actions rejected by the rules engine, by rule",
	}, []string{"rule"})

	m.matchesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_created_total",
		Help:      "Matches created",
	})

	m.matchesFinished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_finished_total",
		Help:      "Matches finished, by outcome",
	}, []string{"outcome"})

	m.superOvers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "super_overs_total",
		Help:      "Tied matches that went to a super over",
	})

	m.activeMatches = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_matches",
		Help:      "Matches created and not yet finished",
	})

	m.ratingsAdjusted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ratings_adjusted_total",
		Help:      "Player ratings updated after a finished match",
	})

	m.duplicateCommands = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "commands_duplicate_total",
		Help:      "Commands ignored because their id was already applied",
	})

	m.undoTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "undo_total",
		Help:      "Deliveries undone",
	})

	m.replayDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_duration_milliseconds",
		Help:      "Time spent replaying history for an undo",
		Buckets:   m.histogramBuckets,
	})

	m.replayLength = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_length_balls",
		Help:      "Deliveries replayed per undo",
		Buckets:   prometheus.ExponentialBuckets(6, 2, 8),
	})

	m.commandLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_latency_milliseconds",
		Help:      "Service command latency, by command",
		Buckets:   m.histogramBuckets,
	}, []string{"command"})

	m.commandErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "command_errors_total",
		Help:      "Service commands that returned an error, by command",
	}, []string{"command"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "latency_milliseconds",
		Help:      "Store operation latency, by backend and operation",
		Buckets:   m.histogramBuckets,
	}, []string{"backend", "operation"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "errors_total",
		Help:      "Store operations that failed, by backend and operation",
	}, []string{"backend", "operation"})

	m.queueSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "size",
		Help:      "Commands waiting, by queue",
	}, []string{"queue"})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueue_errors_total",
		Help:      "Commands rejected by a full or closed queue",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "count",
		Help:      "Running command workers",
	})
}

// RecordDelivery counts one applied delivery.
func RecordDelivery(kind string) {
	globalManager.deliveries.WithLabelValues(kind).Inc()
}

// RecordWicket counts one dismissal.
func RecordWicket(wicketType string) {
	globalManager.wickets.WithLabelValues(wicketType).Inc()
}

// RecordSuppressedWicket counts a dismissal voided by a free hit.
func RecordSuppressedWicket() {
	globalManager.suppressedWickets.Inc()
}

// RecordRuleViolation counts one rejected rule.
func RecordRuleViolation(rule string) {
	globalManager.ruleViolations.WithLabelValues(rule).Inc()
}

// RecordMatchCreated counts a new match and marks it active.
func RecordMatchCreated() {
	globalManager.matchesCreated.Inc()
	globalManager.activeMatches.Inc()
}

// RecordMatchFinished counts a finished match and marks it inactive.
func RecordMatchFinished(outcome string) {
	globalManager.matchesFinished.WithLabelValues(outcome).Inc()
	globalManager.activeMatches.Dec()
}

// RecordSuperOver counts a tie that went to a super over.
func RecordSuperOver() {
	globalManager.superOvers.Inc()
}

// RecordRatingsAdjusted counts rated players.
func RecordRatingsAdjusted(players int) {
	globalManager.ratingsAdjusted.Add(float64(players))
}

// RecordDuplicateCommand counts a command skipped by idempotency.
func RecordDuplicateCommand() {
	globalManager.duplicateCommands.Inc()
}

// RecordUndo records one undo and the replay behind it.
func RecordUndo(durationMs float64, balls int) {
	globalManager.undoTotal.Inc()
	globalManager.replayDuration.Observe(durationMs)
	globalManager.replayLength.Observe(float64(balls))
}

// RecordCommandLatency records how long a service command took.
func RecordCommandLatency(command string, latencyMs float64) {
	globalManager.commandLatency.WithLabelValues(command).Observe(latencyMs)
}

// RecordCommandError counts a failed service command.
func RecordCommandError(command string) {
	globalManager.commandErrors.WithLabelValues(command).Inc()
}

// RecordStoreLatency records one store operation.
func RecordStoreLatency(backend, operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(backend, operation string) {
	globalManager.storeErrors.WithLabelValues(backend, operation).Inc()
}

// UpdateQueueSize sets the number of commands waiting in a queue.
func UpdateQueueSize(queue string, size int) {
	globalManager.queueSize.WithLabelValues(queue).Set(float64(size))
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
