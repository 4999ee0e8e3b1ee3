package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestNewRuntimeMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	defer mp.Shutdown(context.Background())
	meter := mp.Meter("test")

	metrics, err := NewRuntimeMetrics(meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	// Recording against live instruments does not panic
	assert.NotPanics(t, func() {
		metrics.RecordSnapshot(context.Background(), time.Now().Add(-time.Second))
	})
}

func TestRuntimeMetrics_NilReceiver(t *testing.T) {
	var metrics *RuntimeMetrics
	assert.NotPanics(t, func() {
		metrics.RecordSnapshot(context.Background(), time.Now())
	})
}
