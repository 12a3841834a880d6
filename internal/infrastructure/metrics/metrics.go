package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics — метрики конвейера предсказаний.
type PipelineMetrics struct {
	requestsTotal   *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	cleanupFailures prometheus.Counter
}

// NewPipelineMetrics создаёт метрики и регистрирует их в registry.
func NewPipelineMetrics(registry prometheus.Registerer) (*PipelineMetrics, error) {
	m := &PipelineMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prediction_requests_total",
			Help: "Total number of prediction requests by outcome.",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prediction_stage_duration_seconds",
			Help:    "Duration of prediction pipeline stages in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"stage"}),
		cleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prediction_cleanup_failures_total",
			Help: "Total number of objects that could not be deleted during cleanup.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.stageDuration, m.cleanupFailures} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register prediction metrics: %w", err)
		}
	}

	return m, nil
}

func (m *PipelineMetrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *PipelineMetrics) IncRequest(outcome string) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
}

func (m *PipelineMetrics) IncCleanupFailure() {
	m.cleanupFailures.Inc()
}
