// Package metrics exposes Prometheus collectors for stage executions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder receives execution events from the executor.
type Recorder interface {
	StageStarted(mode string)
	StageFinished(mode, status string, d time.Duration)
	LaunchFinished(mode string, d time.Duration)
}

// Nop is a Recorder that discards every event.
type Nop struct{}

func (Nop) StageStarted(string)                         {}
func (Nop) StageFinished(string, string, time.Duration) {}
func (Nop) LaunchFinished(string, time.Duration)        {}

// Collector records stage executions into Prometheus metrics.
type Collector struct {
	stagesTotal    *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	stagesInFlight *prometheus.GaugeVec
	launchDuration *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		stagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stages_total",
				Help:      "Total number of stages that reached a terminal state",
			},
			[]string{"mode", "status"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Wall time of a stage's work unit in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
			},
			[]string{"mode", "status"},
		),
		stagesInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stages_in_flight",
				Help:      "Number of stages currently running",
			},
			[]string{"mode"},
		),
		launchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "launch_duration_seconds",
				Help:      "Wall time of a whole graph execution in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"mode"},
		),
	}
}

// StageStarted marks a stage as running.
func (c *Collector) StageStarted(mode string) {
	c.stagesInFlight.WithLabelValues(mode).Inc()
}

// StageFinished records a terminal stage. Skipped stages never ran, so they
// are counted without touching the in-flight gauge or the duration histogram.
func (c *Collector) StageFinished(mode, status string, d time.Duration) {
	c.stagesTotal.WithLabelValues(mode, status).Inc()
	if status == "skipped" {
		return
	}
	c.stagesInFlight.WithLabelValues(mode).Dec()
	c.stageDuration.WithLabelValues(mode, status).Observe(d.Seconds())
}

// LaunchFinished records the duration of a whole launch.
func (c *Collector) LaunchFinished(mode string, d time.Duration) {
	c.launchDuration.WithLabelValues(mode).Observe(d.Seconds())
}
