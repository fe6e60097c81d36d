// Package metrics exposes loop counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "pixel_overlay"

// Metrics groups the collectors updated by the loop.
type Metrics struct {
	Registry *prometheus.Registry

	Ticks         prometheus.Counter
	TickDuration  prometheus.Histogram
	StageDuration *prometheus.HistogramVec
	Errors        *prometheus.CounterVec
	Actions       *prometheus.CounterVec
	Entities      prometheus.Gauge
	SettingsVer   prometheus.Gauge
	ProcessRSS    prometheus.Gauge
	ProcessCPU    prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "ticks_total",
			Help: "Loop ticks executed.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tick_duration_seconds",
			Help:    "Wall time of one loop tick.",
			Buckets: []float64{.002, .005, .01, .02, .03, .05, .1, .25, .5, 1},
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help:    "Wall time per loop stage.",
			Buckets: []float64{.001, .002, .005, .01, .02, .05, .1, .25},
		}, []string{"stage"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "errors_total",
			Help: "Per tick errors by kind (capture, detection, action, present).",
		}, []string{"kind"}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "actions_total",
			Help: "Pointer moves fired by trigger.",
		}, []string{"trigger"}),
		Entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "entities",
			Help: "Entities detected on the last tick.",
		}),
		SettingsVer: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "settings_version",
			Help: "Settings snapshot version seen by the last tick.",
		}),
		ProcessRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "process_rss_megabytes",
			Help: "Resident set size sampled by the debug logger.",
		}),
		ProcessCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "process_cpu_percent",
			Help: "CPU usage sampled by the debug logger.",
		}),
	}
	m.Registry.MustRegister(
		m.Ticks, m.TickDuration, m.StageDuration, m.Errors, m.Actions,
		m.Entities, m.SettingsVer, m.ProcessRSS, m.ProcessCPU,
		collectors.NewGoCollector(),
	)
	return m
}
