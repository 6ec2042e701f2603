package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reel"

// Jobs tracks job lifecycle counters on a private registry so several
// instances can coexist in one process.
type Jobs struct {
	registry  *prometheus.Registry
	started   *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	completed *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	running   prometheus.Gauge
}

// New registers the job collectors plus the Go and process collectors.
func New() *Jobs {
	m := &Jobs{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_started_total",
				Help:      "Muxing jobs accepted, by codec",
			},
			[]string{"codec"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_rejected_total",
				Help:      "Job requests refused before starting, by reason",
			},
			[]string{"reason"},
		),
		completed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_completed_total",
				Help:      "Muxing jobs finished, by codec and result",
			},
			[]string{"codec", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Wall time from job start to completion",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300}, // 0.5s to 5min
			},
			[]string{"codec"},
		),
		running: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "job_running",
				Help:      "Job active status (1=muxing, 0=idle)",
			},
		),
	}

	m.registry.MustRegister(
		m.started,
		m.rejected,
		m.completed,
		m.duration,
		m.running,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Jobs) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Jobs) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Jobs) JobStarted(codec string) {
	m.started.WithLabelValues(codec).Inc()
}

func (m *Jobs) JobRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Jobs) JobCompleted(codec string, succeeded bool, elapsed time.Duration) {
	result := "failure"
	if succeeded {
		result = "success"
	}
	m.completed.WithLabelValues(codec, result).Inc()
	m.duration.WithLabelValues(codec).Observe(elapsed.Seconds())
}

func (m *Jobs) SetRunning(running bool) {
	if running {
		m.running.Set(1)
		return
	}
	m.running.Set(0)
}
