package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewPipelineMetrics(registry)
	require.NoError(t, err)

	m.IncRequest("success")
	m.IncRequest("success")
	m.IncRequest("failed")
	m.IncCleanupFailure()
	m.ObserveStage("uploading", 20*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cleanupFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration, "prediction_stage_duration_seconds"))
}

func TestNewPipelineMetrics_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewPipelineMetrics(registry)
	require.NoError(t, err)

	_, err = NewPipelineMetrics(registry)
	require.Error(t, err)
}
