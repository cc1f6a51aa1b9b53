package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics observes the rename pipeline: per-file outcomes, batch
// shapes and heuristic fallback usage.
type PipelineMetrics struct {
	fileTotal     *prometheus.CounterVec
	fileDuration  *prometheus.HistogramVec
	fileInFlight  prometheus.Gauge
	fallbackTotal *prometheus.CounterVec
	batchFiles    *prometheus.HistogramVec
	batchDuration *prometheus.HistogramVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	return &PipelineMetrics{
		fileTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dcr",
				Subsystem: "pipeline",
				Name:      "files_total",
				Help:      "Total processed files by status.",
			},
			[]string{"service", "status"},
		),
		fileDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dcr",
				Subsystem: "pipeline",
				Name:      "file_duration_seconds",
				Help:      "Per-file processing duration in seconds by status.",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 45, 60},
			},
			[]string{"service", "status"},
		),
		fileInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "dcr",
				Subsystem: "pipeline",
				Name:      "files_in_flight",
				Help:      "Number of files currently being processed.",
				ConstLabels: prometheus.Labels{
					"service": service,
				},
			},
		),
		fallbackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dcr",
				Subsystem: "pipeline",
				Name:      "fallback_total",
				Help:      "Total files classified heuristically after a remote failure.",
			},
			[]string{"service"},
		),
		batchFiles: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dcr",
				Subsystem: "pipeline",
				Name:      "batch_files",
				Help:      "Distribution of files per batch request.",
				Buckets:   []float64{1, 2, 3, 4, 5},
			},
			[]string{"service"},
		),
		batchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dcr",
				Subsystem: "pipeline",
				Name:      "batch_duration_seconds",
				Help:      "Whole-batch duration in seconds.",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 180, 280},
			},
			[]string{"service"},
		),
	}
}

// Collectors exposes every collector for registration on a shared registry.
func (m *PipelineMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.fileTotal,
		m.fileDuration,
		m.fileInFlight,
		m.fallbackTotal,
		m.batchFiles,
		m.batchDuration,
	}
}

func (m *PipelineMetrics) StartFile() {
	if m == nil {
		return
	}
	m.fileInFlight.Inc()
}

func (m *PipelineMetrics) FinishFile(service, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fileInFlight.Dec()
	m.fileTotal.WithLabelValues(service, status).Inc()
	m.fileDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) RecordFallback(service string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(service).Inc()
}

func (m *PipelineMetrics) RecordBatch(service string, files int, duration time.Duration) {
	if m == nil {
		return
	}
	m.batchFiles.WithLabelValues(service).Observe(float64(files))
	m.batchDuration.WithLabelValues(service).Observe(duration.Seconds())
}
