package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"svcpulse/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	// Tracing is off by default, metrics are on
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Registry)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelConfigFrom(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.MetricsConfig
		wantMetrics bool
		wantTracing bool
	}{
		{name: "disabled", cfg: config.MetricsConfig{Enabled: false, TraceExporter: "stdout"}},
		{name: "metrics only", cfg: config.MetricsConfig{Enabled: true, TraceExporter: "none"}, wantMetrics: true},
		{name: "metrics and stdout traces", cfg: config.MetricsConfig{Enabled: true, TraceExporter: "stdout"}, wantMetrics: true, wantTracing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OTelConfigFrom(tt.cfg)
			assert.Equal(t, tt.wantMetrics, got.EnableMetrics)
			assert.Equal(t, tt.wantTracing, got.EnableTracing)
			assert.Equal(t, ServiceName, got.ServiceName)
		})
	}
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "jaeger"

	_, err := InitializeOTel(cfg, quietLogger())
	assert.ErrorContains(t, err, "unsupported trace exporter")
}

func TestWriteMetricsTextfile(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	m, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)
	m.RecordSource(context.Background(), "service_calls", SourceProcessed, 10, 2, 500, 20*time.Millisecond)

	path := filepath.Join(t.TempDir(), "svcpulse.prom")
	require.NoError(t, providers.WriteMetricsTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "svcpulse_rows_admitted_total")
	assert.Contains(t, string(data), "svcpulse_source_duration_seconds")
}

func TestWriteMetricsTextfile_Disabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableMetrics = false
	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)

	assert.Error(t, providers.WriteMetricsTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestPipelineMetrics_RecordSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSource(ctx, "service_calls", SourceProcessed, 3, 1, 42, time.Second)
	m.RecordSource(ctx, "service_calls", SourceSkipped, 0, 0, 0, 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if s, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(2), sums["svcpulse_sources_total"])
	assert.Equal(t, int64(3), sums["svcpulse_rows_admitted_total"])
	assert.Equal(t, int64(1), sums["svcpulse_rows_filtered_total"])
	assert.Equal(t, int64(42), sums["svcpulse_calls_total"])
}

func TestPipelineMetrics_RecordSource_NegativeCalls(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSource(ctx, "service_calls", SourceProcessed, 2, 0, 10, time.Second)
	m.RecordSource(ctx, "service_calls", SourceProcessed, 1, 0, -9, time.Second)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if s, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range s.DataPoints {
					sums[md.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(10), sums["svcpulse_calls_total"])
	assert.Equal(t, int64(3), sums["svcpulse_rows_admitted_total"])
	assert.Equal(t, int64(2), sums["svcpulse_sources_total"])
}

func TestPipelineMetrics_NilSafe(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.RecordSource(context.Background(), "klasse", SourceFailed, 0, 0, 0, 0)
	})
}

func TestTraceCorrelation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.Len(t, traceID, 32)
	assert.Empty(t, TraceIDFromContext(context.Background()))

	assert.NotPanics(t, func() {
		AddSpanEvent(ctx, "source.processed", map[string]interface{}{
			"rows":   10,
			"calls":  int64(5),
			"source": "KOSDY-PROD.20240115.csv",
		})
		RecordError(ctx, assert.AnError)
	})
}
