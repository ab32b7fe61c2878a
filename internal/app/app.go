package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"svcpulse/internal/config"
	"svcpulse/internal/dataprocessing"
	"svcpulse/internal/infrastructure"
	"svcpulse/pkg/contracts"
)

// Job selects which artifact a run produces.
type Job string

const (
	JobServiceData Job = "service-data"
	JobKlasseData  Job = "klasse-data"
)

const shutdownTimeout = 10 * time.Second

// Options carries command-line overrides. Empty fields keep the configured
// value.
type Options struct {
	ConfigFile string
	// InputPath is the data directory for JobServiceData and the workbook
	// for JobKlasseData.
	InputPath  string
	OutputFile string
	Workers    int
}

// Application represents a single pipeline run and the infrastructure it needs
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Orchestrator  *dataprocessing.Orchestrator
}

// NewApplication loads configuration, applies opts for job and wires logging,
// telemetry and the orchestrator.
func NewApplication(job Job, opts Options) (*Application, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.LoadFrom(opts.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := applyOptions(cfg, job, opts); err != nil {
		return nil, err
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if cfg.Logging.Output != "console" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.BaseDir, cfg.Logging.FilePath)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("job", string(job)))

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Metrics), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	orch, err := dataprocessing.NewOrchestrator(cfg, paths, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	return &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
		Orchestrator:  orch,
	}, nil
}

// applyOptions overlays command-line values onto cfg. Relative paths are
// taken relative to the working directory, as a shell user expects.
func applyOptions(cfg *config.Config, job Job, opts Options) error {
	abs := func(p string) (string, error) {
		a, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		return a, nil
	}

	if opts.InputPath != "" {
		in, err := abs(opts.InputPath)
		if err != nil {
			return err
		}
		switch job {
		case JobServiceData:
			cfg.Paths.DataDir = in
		case JobKlasseData:
			cfg.Paths.KlasseWorkbook = in
		}
	}

	if opts.OutputFile != "" {
		out, err := abs(opts.OutputFile)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = filepath.Dir(out)
		switch job {
		case JobServiceData:
			cfg.Paths.ServiceDataFile = out
		case JobKlasseData:
			cfg.Paths.KlasseDataFile = out
		}
	}

	if opts.Workers > 0 {
		cfg.Run.Parallelism = opts.Workers
	}

	return cfg.Validate()
}

// Execute runs job once under ctx, tagging the context with a fresh run id.
func (a *Application) Execute(ctx context.Context, job Job) error {
	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())
	start := time.Now()

	a.Logger.InfoContext(ctx, "Run started", slog.String("job", string(job)))

	var err error
	switch job {
	case JobServiceData:
		_, err = a.Orchestrator.RunServiceData(ctx)
	case JobKlasseData:
		_, err = a.Orchestrator.RunKlasseData(ctx)
	default:
		err = fmt.Errorf("unknown job %q", job)
	}

	if err != nil {
		a.Logger.ErrorContext(ctx, "Run failed",
			slog.String("job", string(job)),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return err
	}

	a.Logger.InfoContext(ctx, "Run complete",
		slog.String("job", string(job)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Run executes job and stops the application, cancelling on SIGINT or SIGTERM.
func (a *Application) Run(job Job) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := a.Execute(ctx, job)
	if err := a.Stop(context.Background()); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// Stop flushes telemetry, writes the metrics textfile when configured and
// closes the log file.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var firstErr error
	if a.OTelProviders != nil {
		if path := a.Config.Metrics.TextfilePath; path != "" && a.OTelProviders.Registry != nil {
			if err := a.OTelProviders.WriteMetricsTextfile(path); err != nil {
				a.Logger.ErrorContext(ctx, "Failed to write metrics textfile", slog.String("error", err.Error()))
				firstErr = err
			}
		}
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
