package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcpulse/internal/config"
	apperrors "svcpulse/internal/errors"
	"svcpulse/internal/infrastructure"
)

func writeConfig(t *testing.T, base string, extra string) string {
	t.Helper()
	content := fmt.Sprintf(`logging:
  level: warn
  output: console
paths:
  base_dir: %s
metrics:
  enabled: true
  trace_exporter: none
  textfile_path: %s
%s`, base, filepath.Join(base, "svcpulse.prom"), extra)

	path := filepath.Join(base, "svcpulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestApplication(t *testing.T, job Job, opts Options) *Application {
	t.Helper()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	a, err := NewApplication(job, opts)
	require.NoError(t, err)
	return a
}

func TestApplyOptions(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name  string
		job   Job
		opts  Options
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no overrides keep defaults",
			job:  JobServiceData,
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.DefaultDataDir, cfg.Paths.DataDir)
				assert.Equal(t, 1, cfg.Run.Parallelism)
			},
		},
		{
			name: "service input is the data directory",
			job:  JobServiceData,
			opts: Options{InputPath: "extracts", OutputFile: "out/service.json", Workers: 4},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, filepath.Join(wd, "extracts"), cfg.Paths.DataDir)
				assert.Equal(t, filepath.Join(wd, "out", "service.json"), cfg.Paths.ServiceDataFile)
				assert.Equal(t, filepath.Join(wd, "out"), cfg.Paths.OutputDir)
				assert.Equal(t, 4, cfg.Run.Parallelism)
			},
		},
		{
			name: "klasse input is the workbook",
			job:  JobKlasseData,
			opts: Options{InputPath: "/srv/in/report.xlsx", OutputFile: "/srv/out/klasse.json"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "/srv/in/report.xlsx", cfg.Paths.KlasseWorkbook)
				assert.Equal(t, "/srv/out/klasse.json", cfg.Paths.KlasseDataFile)
				assert.Equal(t, config.DefaultDataDir, cfg.Paths.DataDir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			require.NoError(t, applyOptions(cfg, tt.job, tt.opts))
			tt.check(t, cfg)
		})
	}
}

func TestApplyOptions_TooManyWorkers(t *testing.T) {
	err := applyOptions(config.Default(), JobServiceData, Options{Workers: 1000})
	assert.Error(t, err)
}

func TestApplication_ServiceDataRun(t *testing.T) {
	base := t.TempDir()
	cfgFile := writeConfig(t, base, "")

	dataDir := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	csv := "h\n12,x,SAP,,,,2025-11-30T10:00:00,Person,get,v1,Sup\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "KOSDY-PROD.20251130.csv"), []byte(csv), 0644))

	a := newTestApplication(t, JobServiceData, Options{ConfigFile: cfgFile})
	require.NoError(t, a.Execute(context.Background(), JobServiceData))
	require.NoError(t, a.Stop(context.Background()))

	data, err := os.ReadFile(filepath.Join(base, "public", "serviceData.json"))
	require.NoError(t, err)

	var out struct {
		Dates []string `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, []string{"2025-11-30"}, out.Dates)

	prom, err := os.ReadFile(filepath.Join(base, "svcpulse.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "svcpulse_sources_total")
}

func TestApplication_KlasseMissingWorkbook(t *testing.T) {
	base := t.TempDir()
	cfgFile := writeConfig(t, base, "")

	a := newTestApplication(t, JobKlasseData, Options{ConfigFile: cfgFile})
	err := a.Execute(context.Background(), JobKlasseData)
	require.NoError(t, a.Stop(context.Background()))

	require.Error(t, err)
	assert.True(t, apperrors.IsFatal(err))
}

func TestApplication_UnknownJob(t *testing.T) {
	base := t.TempDir()
	a := newTestApplication(t, JobServiceData, Options{ConfigFile: writeConfig(t, base, "")})
	defer a.Stop(context.Background())

	assert.Error(t, a.Execute(context.Background(), Job("bogus")))
}

func TestNewApplication_BadConfig(t *testing.T) {
	base := t.TempDir()
	cfgFile := writeConfig(t, base, "run:\n  parallelism: 0\n")

	_, err := NewApplication(JobServiceData, Options{ConfigFile: cfgFile})
	assert.Error(t, err)
}
