package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	runsInFlight   prometheus.Gauge
	documentsTotal *prometheus.CounterVec
}

func NewWorkerMetrics() *WorkerMetrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bpmn",
			Subsystem: "worker",
			Name:      "runs_total",
			Help:      "Total analysis runs processed by outcome.",
		},
		[]string{"outcome"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bpmn",
			Subsystem: "worker",
			Name:      "run_duration_seconds",
			Help:      "Analysis run duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	runsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bpmn",
			Subsystem: "worker",
			Name:      "runs_in_flight",
			Help:      "Number of runs currently being analyzed.",
		},
	)
	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bpmn",
			Subsystem: "worker",
			Name:      "documents_total",
			Help:      "Total documents handled during analysis by outcome.",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(runsTotal, runDuration, runsInFlight, documentsTotal)

	return &WorkerMetrics{
		registry:       registry,
		runsTotal:      runsTotal,
		runDuration:    runDuration,
		runsInFlight:   runsInFlight,
		documentsTotal: documentsTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) RunStarted() {
	m.runsInFlight.Inc()
}

func (m *WorkerMetrics) RunFinished(outcome string, elapsed time.Duration) {
	m.runsInFlight.Dec()
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

func (m *WorkerMetrics) ObserveDocuments(parsed, failed int) {
	if parsed > 0 {
		m.documentsTotal.WithLabelValues("parsed").Add(float64(parsed))
	}
	if failed > 0 {
		m.documentsTotal.WithLabelValues("failed").Add(float64(failed))
	}
}
