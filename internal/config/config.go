package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SVCPULSE"

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Ingest  IngestConfig  `yaml:"ingest" envconfig:"INGEST"`
	Ranking RankingConfig `yaml:"ranking" envconfig:"RANKING"`
	Run     RunConfig     `yaml:"run" envconfig:"RUN"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system locations. Relative entries are resolved
// against BaseDir (or the working directory when BaseDir is empty).
type PathsConfig struct {
	BaseDir         string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir         string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	OutputDir       string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir         string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	ServiceDataFile string `yaml:"service_data_file" envconfig:"SERVICE_DATA_FILE" validate:"required"`
	KlasseWorkbook  string `yaml:"klasse_workbook" envconfig:"KLASSE_WORKBOOK" validate:"required"`
	KlasseDataFile  string `yaml:"klasse_data_file" envconfig:"KLASSE_DATA_FILE" validate:"required"`
}

// IngestConfig describes how raw service-call extracts are recognised and read.
type IngestConfig struct {
	FilePrefix string `yaml:"file_prefix" envconfig:"FILE_PREFIX" validate:"required"`
	FileSuffix string `yaml:"file_suffix" envconfig:"FILE_SUFFIX" validate:"required"`
	Delimiter  string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	NullMarker string `yaml:"null_marker" envconfig:"NULL_MARKER" validate:"required"`
}

// RankingConfig holds the top-N truncation per dimension. Zero means unlimited.
type RankingConfig struct {
	TopITSystems    int `yaml:"top_it_systems" envconfig:"TOP_IT_SYSTEMS" validate:"min=0"`
	TopServices     int `yaml:"top_services" envconfig:"TOP_SERVICES" validate:"min=0"`
	TopOperations   int `yaml:"top_operations" envconfig:"TOP_OPERATIONS" validate:"min=0"`
	SupportSystems  int `yaml:"support_systems" envconfig:"SUPPORT_SYSTEMS" validate:"min=0"`
	ServiceVersions int `yaml:"service_versions" envconfig:"SERVICE_VERSIONS" validate:"min=0"`
	Matrix          int `yaml:"matrix" envconfig:"MATRIX" validate:"min=0"`
	KlasseFlat      int `yaml:"klasse_flat" envconfig:"KLASSE_FLAT" validate:"min=0"`
}

// RunConfig controls per-run execution.
type RunConfig struct {
	// Parallelism bounds how many sources are processed at once.
	Parallelism int `yaml:"parallelism" envconfig:"PARALLELISM" validate:"min=1,max=64"`
}

// MetricsConfig controls tracing and metric export for a run.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" envconfig:"ENABLED"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	TextfilePath  string `yaml:"textfile_path" envconfig:"TEXTFILE_PATH"`
}

// Load builds the configuration from defaults, an optional YAML file and
// SVCPULSE_* environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable are left untouched, so file and
	// default values survive.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalises the logging section.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	return nil
}

// Delimiter returns the configured field separator as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.Ingest.Delimiter)[0]
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"svcpulse.yaml",
		"configs/svcpulse.yaml",
		"../configs/svcpulse.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:         DefaultDataDir,
			OutputDir:       DefaultOutputDir,
			LogsDir:         DefaultLogsDir,
			ServiceDataFile: ServiceDataFileName,
			KlasseWorkbook:  KlasseWorkbookName,
			KlasseDataFile:  KlasseDataFileName,
		},
		Ingest: IngestConfig{
			FilePrefix: ServiceFilePrefix,
			FileSuffix: ServiceFileSuffix,
			Delimiter:  ",",
			NullMarker: NullMarker,
		},
		Ranking: RankingConfig{
			TopITSystems:    15,
			TopServices:     15,
			TopOperations:   15,
			SupportSystems:  0,
			ServiceVersions: 10,
			Matrix:          50,
			KlasseFlat:      20,
		},
		Run: RunConfig{
			Parallelism: 1,
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			TraceExporter: "none",
		},
	}
}
