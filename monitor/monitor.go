// Package monitor instruments comparison runs with wall-clock stage timings
// and throughput, exposed both on the run result and as Prometheus metrics.
package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	comparisonsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recon",
		Subsystem: "compare",
		Name:      "runs_running",
		Help:      "Number of comparison runs currently in progress.",
	})
	comparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recon",
		Subsystem: "compare",
		Name:      "runs_total",
		Help:      "Total number of comparison runs started.",
	})
	recordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "recon",
		Subsystem: "compare",
		Name:      "records_total",
		Help:      "Total number of records fed into comparison runs.",
	})
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "recon",
		Subsystem: "compare",
		Name:      "stage_duration_seconds",
		Help:      "Wall-clock duration of each comparison stage.",
	}, []string{"stage"})
)

// StageTiming is the recorded duration of one named stage of a run.
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
}

// RunStats summarizes the instrumentation of one comparison run. It is
// reported alongside the comparison result but never influences it.
type RunStats struct {
	StartedAt        time.Time     `json:"started_at"`
	TotalDuration    time.Duration `json:"total_duration"`
	Stages           []StageTiming `json:"stages"`
	Records          int           `json:"records"`
	RecordsPerSecond float64       `json:"records_per_second"`
}

// Monitor tracks a single run. A nil Monitor is valid and records nothing,
// so instrumentation stays optional for library callers.
type Monitor struct {
	start   time.Time
	stages  []StageTiming
	records int
}

func Start() *Monitor {
	comparisonsRunning.Inc()
	comparisonsTotal.Inc()
	return &Monitor{start: time.Now()}
}

// StartStage begins timing a named stage; the returned func stops it.
func (m *Monitor) StartStage(name string) func() {
	if m == nil {
		return func() {}
	}
	begin := time.Now()
	return func() {
		elapsed := time.Since(begin)
		m.stages = append(m.stages, StageTiming{Stage: name, Duration: elapsed})
		stageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	}
}

// Cancel abandons a run that failed before any work happened, releasing the
// running gauge without recording stats. Finish must not be called afterwards.
func (m *Monitor) Cancel() {
	if m == nil {
		return
	}
	comparisonsRunning.Dec()
}

func (m *Monitor) AddRecords(n int) {
	if m == nil {
		return
	}
	m.records += n
	recordsTotal.Add(float64(n))
}

func (m *Monitor) Finish() RunStats {
	if m == nil {
		return RunStats{}
	}
	comparisonsRunning.Dec()
	total := time.Since(m.start)
	stats := RunStats{
		StartedAt:     m.start,
		TotalDuration: total,
		Stages:        m.stages,
		Records:       m.records,
	}
	if secs := total.Seconds(); secs > 0 {
		stats.RecordsPerSecond = float64(m.records) / secs
	}
	return stats
}
