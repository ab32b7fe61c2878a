package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the resolved application paths.
// This is the single source of truth for file locations during a run.
type Paths struct {
	BaseDir   string
	DataDir   string
	OutputDir string
	LogsDir   string

	// Inputs
	KlasseWorkbook string

	// Output artifacts
	ServiceDataJSON string
	KlasseDataJSON  string
}

// ResolvePaths resolves cfg against its base directory. An empty BaseDir
// means the current working directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	dataDir := resolve(base, cfg.DataDir)
	outputDir := resolve(base, cfg.OutputDir)

	return &Paths{
		BaseDir:         base,
		DataDir:         dataDir,
		OutputDir:       outputDir,
		LogsDir:         resolve(base, cfg.LogsDir),
		KlasseWorkbook:  resolve(dataDir, cfg.KlasseWorkbook),
		ServiceDataJSON: resolve(outputDir, cfg.ServiceDataFile),
		KlasseDataJSON:  resolve(outputDir, cfg.KlasseDataFile),
	}, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the output and log directories if they don't exist.
// The data directory is input only and is never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved locations
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("output", p.OutputDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("files",
			slog.String("klasse_workbook", p.KlasseWorkbook),
			slog.Bool("klasse_workbook_exists", FileExists(p.KlasseWorkbook)),
			slog.String("service_data_json", p.ServiceDataJSON),
			slog.String("klasse_data_json", p.KlasseDataJSON),
		))
}
