package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"twxcli/internal/config"
)

func TestDefaultOTelConfig(t *testing.T) {
	cfg := DefaultOTelConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, config.AppName, cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "stdout", cfg.MetricExporter)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestOTelConfigFromTelemetry(t *testing.T) {
	t.Run("disabled telemetry turns exporters off", func(t *testing.T) {
		cfg := OTelConfigFromTelemetry(config.TelemetryConfig{
			Enabled:        false,
			ServiceName:    "twxcli",
			ServiceVersion: "test",
		})

		assert.False(t, cfg.EnableTracing)
		assert.False(t, cfg.EnableMetrics)
		assert.Equal(t, "none", cfg.TraceExporter)
		assert.Equal(t, "none", cfg.MetricExporter)
	})

	t.Run("enabled telemetry keeps stdout exporters", func(t *testing.T) {
		cfg := OTelConfigFromTelemetry(config.TelemetryConfig{
			Enabled:        true,
			ServiceName:    "twxcli",
			ServiceVersion: "test",
		})

		assert.True(t, cfg.EnableTracing)
		assert.True(t, cfg.EnableMetrics)
		assert.Equal(t, "stdout", cfg.TraceExporter)
		assert.Equal(t, "twxcli", cfg.ServiceName)
	})
}

func TestInitializeOTel_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := DefaultOTelConfig()
	cfg.EnableTracing = false
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)

	// Shutdown with nothing initialized is a no-op
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "otlp"

	_, err := InitializeOTel(cfg, logger)
	assert.Error(t, err)
}

func TestCreatePipelineMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	defer mp.Shutdown(context.Background())
	meter := mp.Meter("test")

	metrics, err := CreatePipelineMetrics(meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.NotNil(t, metrics.ConversionsTotal)
	assert.NotNil(t, metrics.ConversionDuration)
	assert.NotNil(t, metrics.ConversionErrors)
	assert.NotNil(t, metrics.RecordsUnpivoted)
	assert.NotNil(t, metrics.SentinelRowsRemoved)
	assert.NotNil(t, metrics.CoercionsCommitted)
	assert.NotNil(t, metrics.CoercionsAbandoned)
	assert.NotNil(t, metrics.RowsWritten)

	// Recording against live instruments does not panic
	ctx := context.Background()
	RecordConversionMetrics(ctx, metrics, "tv.xlsx", "Volume", 125*time.Millisecond, true, nil)
	RecordConversionMetrics(ctx, metrics, "tv.xlsx", "Volume", time.Millisecond, false, assert.AnError)

	// Nil metrics are tolerated
	RecordConversionMetrics(ctx, nil, "tv.xlsx", "Volume", time.Millisecond, true, nil)
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
