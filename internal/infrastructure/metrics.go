package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Source outcome labels.
const (
	SourceProcessed = "processed"
	SourceSkipped   = "skipped"
	SourceFailed    = "failed"
)

// PipelineMetrics groups the instruments recorded while a run ingests sources.
type PipelineMetrics struct {
	sources        metric.Int64Counter
	rowsAdmitted   metric.Int64Counter
	rowsFiltered   metric.Int64Counter
	callsTotal     metric.Int64Counter
	sourceDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter. A nil meter
// uses the global provider, which is a no-op until InitializeOTel runs.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	if meter == nil {
		meter = otel.Meter(MeterName)
	}

	sources, err := meter.Int64Counter(
		"svcpulse_sources_total",
		metric.WithDescription("Input sources handled, by kind and outcome"),
		metric.WithUnit("{source}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sources counter: %w", err)
	}

	rowsAdmitted, err := meter.Int64Counter(
		"svcpulse_rows_admitted_total",
		metric.WithDescription("Rows that passed admission and were aggregated"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rows admitted counter: %w", err)
	}

	rowsFiltered, err := meter.Int64Counter(
		"svcpulse_rows_filtered_total",
		metric.WithDescription("Rows rejected by the admission filter"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rows filtered counter: %w", err)
	}

	callsTotal, err := meter.Int64Counter(
		"svcpulse_calls_total",
		metric.WithDescription("Sum of call counts over admitted rows"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calls counter: %w", err)
	}

	sourceDuration, err := meter.Float64Histogram(
		"svcpulse_source_duration_seconds",
		metric.WithDescription("Time spent processing a single source"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source duration histogram: %w", err)
	}

	return &PipelineMetrics{
		sources:        sources,
		rowsAdmitted:   rowsAdmitted,
		rowsFiltered:   rowsFiltered,
		callsTotal:     callsTotal,
		sourceDuration: sourceDuration,
	}, nil
}

// RecordSource records the outcome of one source. admitted, filtered and
// calls are only meaningful for processed sources. Counters are monotonic,
// so a negative calls total is not added.
func (m *PipelineMetrics) RecordSource(ctx context.Context, kind, outcome string, admitted, filtered int, calls int64, elapsed time.Duration) {
	if m == nil {
		return
	}

	kindAttr := metric.WithAttributes(attribute.String("kind", kind))
	m.sources.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", outcome),
	))

	if outcome != SourceProcessed {
		return
	}

	m.rowsAdmitted.Add(ctx, int64(admitted), kindAttr)
	m.rowsFiltered.Add(ctx, int64(filtered), kindAttr)
	if calls > 0 {
		m.callsTotal.Add(ctx, calls, kindAttr)
	}
	m.sourceDuration.Record(ctx, elapsed.Seconds(), kindAttr)
}
