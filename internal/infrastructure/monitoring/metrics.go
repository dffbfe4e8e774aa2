package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. All record methods are safe on a
// nil receiver, so engine components accept an optional *Metrics without
// branching at call sites.
type Metrics struct {
	// Morph metrics
	MorphRuns     *prometheus.CounterVec
	MorphSteps    prometheus.Histogram
	MorphDuration prometheus.Histogram

	// Restore metrics
	RestoreDuration      prometheus.Histogram
	RestoreErrors        prometheus.Counter
	ContentSubstitutions prometheus.Counter

	// History metrics
	SnapshotsCaptured prometheus.Counter
	UndoOps           prometheus.Counter
	RedoOps           prometheus.Counter

	// Registry metrics
	RegistryWorkgroups prometheus.Gauge

	// Session metrics
	SessionsActive prometheus.Gauge
	Switches       prometheus.Counter

	// Store metrics
	StoreSaves *prometheus.CounterVec
	StoreLoads *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for in-process inspection - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for in-process inspection
type MetricsSnapshot struct {
	Switches          int64
	MorphTimeouts     int64
	Substitutions     int64
	ActiveWorkgroups  int64
	ActiveSessions    int64
	SnapshotsCaptured int64
}

// NewMetrics creates a new metrics collector. Call once per process: metrics
// register on the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// Morph metrics
		MorphRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workgrid_morph_runs_total",
				Help: "Total number of morph runs by outcome",
			},
			[]string{"outcome"},
		),
		MorphSteps: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "workgrid_morph_steps",
				Help:    "Iterations per morph run",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
			},
		),
		MorphDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "workgrid_morph_duration_seconds",
				Help:    "Morph run duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),

		// Restore metrics
		RestoreDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "workgrid_restore_duration_seconds",
				Help:    "Snapshot restore duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
		),
		RestoreErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "workgrid_restore_errors_total",
				Help: "Total number of failed restores",
			},
		),
		ContentSubstitutions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "workgrid_content_substitutions_total",
				Help: "Total number of panes restored with default content",
			},
		),

		// History metrics
		SnapshotsCaptured: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "workgrid_snapshots_captured_total",
				Help: "Total number of layout snapshots captured",
			},
		),
		UndoOps: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "workgrid_undo_total",
				Help: "Total number of undo operations",
			},
		),
		RedoOps: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "workgrid_redo_total",
				Help: "Total number of redo operations",
			},
		),

		// Registry metrics
		RegistryWorkgroups: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "workgrid_registry_workgroups",
				Help: "Number of workgroups in the registry",
			},
		),

		// Session metrics
		SessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "workgrid_sessions_active",
				Help: "Number of attached display-surface sessions",
			},
		),
		Switches: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "workgrid_switches_total",
				Help: "Total number of workgroup switches",
			},
		),

		// Store metrics
		StoreSaves: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workgrid_store_saves_total",
				Help: "Total number of store saves by status",
			},
			[]string{"status"},
		),
		StoreLoads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workgrid_store_loads_total",
				Help: "Total number of store loads by status",
			},
			[]string{"status"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "workgrid_uptime_seconds",
				Help: "Engine uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordMorph records a completed morph run
func (m *Metrics) RecordMorph(outcome string, steps int, duration time.Duration) {
	if m == nil {
		return
	}
	m.MorphRuns.WithLabelValues(outcome).Inc()
	m.MorphSteps.Observe(float64(steps))
	m.MorphDuration.Observe(duration.Seconds())

	if outcome == "timeout" {
		m.mu.Lock()
		m.snapshot.MorphTimeouts++
		m.mu.Unlock()
	}
}

// RecordRestore records a snapshot restore
func (m *Metrics) RecordRestore(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.RestoreDuration.Observe(duration.Seconds())
	if err != nil {
		m.RestoreErrors.Inc()
	}
}

// IncContentSubstitutions counts a pane restored with default content
func (m *Metrics) IncContentSubstitutions() {
	if m == nil {
		return
	}
	m.ContentSubstitutions.Inc()
	m.mu.Lock()
	m.snapshot.Substitutions++
	m.mu.Unlock()
}

// IncSnapshotsCaptured counts a captured layout snapshot
func (m *Metrics) IncSnapshotsCaptured() {
	if m == nil {
		return
	}
	m.SnapshotsCaptured.Inc()
	m.mu.Lock()
	m.snapshot.SnapshotsCaptured++
	m.mu.Unlock()
}

// IncUndo counts an undo operation
func (m *Metrics) IncUndo() {
	if m == nil {
		return
	}
	m.UndoOps.Inc()
}

// IncRedo counts a redo operation
func (m *Metrics) IncRedo() {
	if m == nil {
		return
	}
	m.RedoOps.Inc()
}

// SetRegistryWorkgroups sets the number of workgroups in the registry
func (m *Metrics) SetRegistryWorkgroups(count int) {
	if m == nil {
		return
	}
	m.RegistryWorkgroups.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveWorkgroups = int64(count)
	m.mu.Unlock()
}

// SetSessionsActive sets the number of attached sessions
func (m *Metrics) SetSessionsActive(count int) {
	if m == nil {
		return
	}
	m.SessionsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveSessions = int64(count)
	m.mu.Unlock()
}

// IncSwitches counts a workgroup switch
func (m *Metrics) IncSwitches() {
	if m == nil {
		return
	}
	m.Switches.Inc()
	m.mu.Lock()
	m.snapshot.Switches++
	m.mu.Unlock()
}

// RecordStoreSave records a store save by status
func (m *Metrics) RecordStoreSave(status string) {
	if m == nil {
		return
	}
	m.StoreSaves.WithLabelValues(status).Inc()
}

// RecordStoreLoad records a store load by status
func (m *Metrics) RecordStoreLoad(status string) {
	if m == nil {
		return
	}
	m.StoreLoads.WithLabelValues(status).Inc()
}

// Snapshot returns current metric values for in-process inspection
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
