package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"svcpulse/internal/config"
	apperrors "svcpulse/internal/errors"
	"svcpulse/internal/exporter"
	"svcpulse/internal/files"
	"svcpulse/internal/infrastructure"
	"svcpulse/internal/validation"
	"svcpulse/pkg/contracts/domain"
)

// Source kinds used as the "kind" metric label.
const (
	KindServiceCalls = "service_calls"
	KindKlasse       = "klasse"
)

// Orchestrator drives a full run: discovery, per-source processing, merge
// and artifact output.
type Orchestrator struct {
	cfg       *config.Config
	paths     *config.Paths
	discovery *files.Discovery
	manager   *files.Manager
	writer    *exporter.JSONWriter
	files     *validation.FileValidator
	artifacts *validation.ArtifactValidator
	service   *ServiceProcessor
	klasse    *KlasseProcessor
	metrics   *infrastructure.PipelineMetrics
	tracer    trace.Tracer
	printer   *message.Printer
	now       func() time.Time
	logger    *slog.Logger
}

// NewOrchestrator wires the pipeline from cfg and the resolved paths.
func NewOrchestrator(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "orchestrator")

	service, err := NewServiceProcessor(ServiceProcessorConfig{
		Layout:           DefaultServiceLayout(),
		Delimiter:        cfg.Delimiter(),
		NullMarker:       cfg.Ingest.NullMarker,
		Limits:           RankLimitsFrom(cfg.Ranking),
		ProgressInterval: DefaultProgressInterval,
	}, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid service processor configuration", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(nil)
	if err != nil {
		return nil, err
	}

	manager := files.NewManager(paths, logger)

	o := &Orchestrator{
		cfg:       cfg,
		paths:     paths,
		discovery: files.NewDiscovery(paths.BaseDir),
		manager:   manager,
		writer:    exporter.NewJSONWriter(manager, logger),
		files:     validation.NewFileValidator(logger),
		artifacts: validation.NewArtifactValidator(),
		service:   service,
		klasse:    NewKlasseProcessor(DefaultKlasseColumns(), cfg.Ranking.KlasseFlat, logger),
		metrics:   metrics,
		tracer:    otel.Tracer(infrastructure.TracerName),
		printer:   message.NewPrinter(language.English),
		now:       time.Now,
		logger:    logger,
	}
	o.klasse.now = func() time.Time { return o.now() }
	return o, nil
}

// RunServiceData builds the multi-day service dataset and writes it to the
// configured output. A missing data directory or zero sources still produce
// a well-formed, empty artifact.
func (o *Orchestrator) RunServiceData(ctx context.Context) (*domain.ServiceDataset, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := o.tracer.Start(ctx, "svcpulse.run_service_data")
	defer span.End()

	ds, err := o.BuildServiceDataset(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := o.writeArtifact(ctx, o.paths.ServiceDataJSON, ds); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return ds, nil
}

// BuildServiceDataset processes every dated source without writing anything.
func (o *Orchestrator) BuildServiceDataset(ctx context.Context) (*domain.ServiceDataset, error) {
	exists, err := o.files.ValidateInputDirectory(o.paths.DataDir)
	if err != nil {
		return nil, err
	}
	if !exists {
		o.logger.WarnContext(ctx, "Data directory not found, producing empty dataset",
			slog.String("directory", o.paths.DataDir))
		return MergeDataset(nil, 0, 0, o.now()), nil
	}

	sources, err := o.discovery.FindSourceFiles(o.paths.DataDir, o.cfg.Ingest.FilePrefix, o.cfg.Ingest.FileSuffix)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list sources", err)
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	o.logger.InfoContext(ctx, "Sources discovered",
		slog.Int("count", len(sources)),
		slog.Int64("total_bytes", files.TotalSize(sources)),
		slog.Any("files", names))

	if len(sources) == 0 {
		o.logger.WarnContext(ctx, "No sources found, producing empty dataset",
			slog.String("directory", o.paths.DataDir))
		return MergeDataset(nil, 0, 0, o.now()), nil
	}

	// Each goroutine writes only its own slot; the merge runs after Wait.
	results := make([]DatedResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Run.Parallelism)

	for i, src := range sources {
		date, err := ParseSourceDate(src.Name, o.cfg.Ingest.FilePrefix, o.cfg.Ingest.FileSuffix)
		if err != nil {
			o.logger.WarnContext(ctx, "Could not extract date from source, skipping",
				slog.String("source", src.Name))
			o.metrics.RecordSource(ctx, KindServiceCalls, infrastructure.SourceSkipped, 0, 0, 0, 0)
			continue
		}
		results[i] = DatedResult{Date: date, Source: src.Name}

		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := o.processServiceSource(gctx, src, date)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				o.logger.ErrorContext(gctx, "Source failed, skipping",
					slog.String("source", src.Name),
					slog.String("error", err.Error()))
				return nil
			}
			results[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skipped := 0
	var totalCalls int64
	for _, r := range results {
		if r.Result == nil {
			skipped++
			continue
		}
		totalCalls += r.Result.TotalCalls
	}

	ds := MergeDataset(results, len(sources), skipped, o.now())

	o.logger.InfoContext(ctx, "Service data summary",
		slog.Any("dates", ds.Dates),
		slog.Int("files_processed", len(sources)),
		slog.Int("files_skipped", skipped),
		slog.String("total_calls", o.printer.Sprintf("%d", totalCalls)))

	return ds, nil
}

func (o *Orchestrator) processServiceSource(ctx context.Context, src files.FileInfo, date string) (*domain.ServiceDayResult, error) {
	ctx, span := o.tracer.Start(ctx, "svcpulse.process_source",
		trace.WithAttributes(
			attribute.String("source.name", src.Name),
			attribute.String("source.date", date),
			attribute.Int64("source.bytes", src.Size),
		))
	defer span.End()

	start := time.Now()
	o.logger.InfoContext(ctx, "Processing source",
		slog.String("source", src.Name),
		slog.String("date", date))

	lines, err := o.manager.ReadLines(src.Path)
	if err != nil {
		err = apperrors.NewParsingError(fmt.Sprintf("failed to read source %s", src.Name), err)
		infrastructure.RecordError(ctx, err)
		o.metrics.RecordSource(ctx, KindServiceCalls, infrastructure.SourceFailed, 0, 0, 0, 0)
		return nil, err
	}

	res, err := o.service.ProcessLines(ctx, lines)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		o.metrics.RecordSource(ctx, KindServiceCalls, infrastructure.SourceFailed, 0, 0, 0, 0)
		return nil, err
	}

	elapsed := time.Since(start)
	o.metrics.RecordSource(ctx, KindServiceCalls, infrastructure.SourceProcessed,
		res.ProcessedRows, res.FilteredRows, res.TotalCalls, elapsed)
	infrastructure.AddSpanEvent(ctx, "source.processed", map[string]interface{}{
		"processed_rows": res.ProcessedRows,
		"filtered_rows":  res.FilteredRows,
		"total_calls":    res.TotalCalls,
	})

	o.logger.InfoContext(ctx, "Source processed",
		slog.String("source", src.Name),
		slog.String("date", date),
		slog.Int("processed_rows", res.ProcessedRows),
		slog.Int("filtered_rows", res.FilteredRows),
		slog.String("total_calls", o.printer.Sprintf("%d", res.TotalCalls)),
		slog.Duration("duration", elapsed))

	return res, nil
}

// RunKlasseData builds the case classification report and writes it. A
// missing workbook is a fatal MISSING_SOURCE error.
func (o *Orchestrator) RunKlasseData(ctx context.Context) (*domain.KlasseReport, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	ctx, span := o.tracer.Start(ctx, "svcpulse.run_klasse_data",
		trace.WithAttributes(attribute.String("source.path", o.paths.KlasseWorkbook)))
	defer span.End()

	start := time.Now()
	report, err := o.BuildKlasseReport(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		o.metrics.RecordSource(ctx, KindKlasse, infrastructure.SourceFailed, 0, 0, 0, 0)
		return nil, err
	}
	o.metrics.RecordSource(ctx, KindKlasse, infrastructure.SourceProcessed,
		report.Metadata.TotalRecords, 0, 0, time.Since(start))

	if err := o.writeArtifact(ctx, o.paths.KlasseDataJSON, report); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return report, nil
}

// BuildKlasseReport reads and aggregates the workbook without writing anything.
func (o *Orchestrator) BuildKlasseReport(ctx context.Context) (*domain.KlasseReport, error) {
	path := o.paths.KlasseWorkbook
	if err := o.files.ValidateExcelFile(path); err != nil {
		return nil, err
	}

	grid, err := ReadGrid(ctx, path, o.logger)
	if err != nil {
		return nil, err
	}

	report, err := o.klasse.ProcessGrid(ctx, grid, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "Case report summary",
		slog.String("source", report.Metadata.SourceFile),
		slog.String("total_records", o.printer.Sprintf("%d", report.Metadata.TotalRecords)),
		slog.Int("unique_authorities", len(report.EjendeMyndighed)),
		slog.Int("unique_it_systems", len(report.MasterITSystemNavn)),
		slog.Int("unique_progress", len(report.Fremdrift)))

	return report, nil
}

func (o *Orchestrator) writeArtifact(ctx context.Context, path string, artifact any) error {
	if err := o.artifacts.Validate(artifact); err != nil {
		return err
	}
	if err := o.files.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := o.writer.Write(path, artifact); err != nil {
		return err
	}
	o.logger.InfoContext(ctx, "Data written",
		slog.String("path", path))
	return nil
}
