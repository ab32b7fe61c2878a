package dataprocessing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svcpulse/internal/config"
	apperrors "svcpulse/internal/errors"
	"svcpulse/pkg/contracts/domain"
)

var fixedNow = time.Date(2025, 12, 1, 6, 0, 0, 0, time.UTC)

func writeText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func newTestOrchestrator(t *testing.T, mutate func(*config.Config)) (*Orchestrator, *config.Paths) {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	paths, err := config.ResolvePaths(cfg.Paths)
	require.NoError(t, err)

	o, err := NewOrchestrator(cfg, paths, quietLogger())
	require.NoError(t, err)
	o.now = func() time.Time { return fixedNow }
	return o, paths
}

func writeSource(t *testing.T, paths *config.Paths, name string, rows ...string) {
	t.Helper()
	content := serviceHeader + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, writeText(filepath.Join(paths.DataDir, name), content))
}

func readDataset(t *testing.T, path string) domain.ServiceDataset {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var ds domain.ServiceDataset
	require.NoError(t, json.Unmarshal(data, &ds))
	return ds
}

func TestOrchestrator_RunServiceData_MissingDataDir(t *testing.T) {
	o, paths := newTestOrchestrator(t, nil)

	ds, err := o.RunServiceData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Dates)

	written := readDataset(t, paths.ServiceDataJSON)
	assert.Empty(t, written.Dates)
	assert.Empty(t, written.Data)
	assert.Equal(t, "2025-12-01T06:00:00Z", written.Metadata.ProcessedAt)
	assert.Equal(t, 0, written.Metadata.FilesProcessed)

	raw, err := os.ReadFile(paths.ServiceDataJSON)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"dates": []`)
	assert.Contains(t, string(raw), `"data": {}`)
}

func TestOrchestrator_RunServiceData_NoSources(t *testing.T) {
	o, paths := newTestOrchestrator(t, nil)
	require.NoError(t, writeText(filepath.Join(paths.DataDir, "README.txt"), "nothing here"))

	ds, err := o.RunServiceData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Dates)
	assert.FileExists(t, paths.ServiceDataJSON)
}

func TestOrchestrator_RunServiceData(t *testing.T) {
	o, paths := newTestOrchestrator(t, nil)

	writeSource(t, paths, "KOSDY-PROD.20251130.csv",
		csvLine(10, "SAP", "2025-11-30T08:00:00", "Person", "get", "v1", "Sup"),
		csvLine(5, "SAP", "2025-11-30T09:00:00", "Person", "get", "NULL", "Sup"),
	)
	writeSource(t, paths, "KOSDY-PROD.20251129.csv",
		csvLine(7, "KMD", "2025-11-29T14:22:00", "Adresse", "put", "v2", "Sup"),
	)
	writeSource(t, paths, "KOSDY-PROD.latest.csv",
		csvLine(1, "X", "", "Y", "Z", "v1", "W"),
	)
	require.NoError(t, writeText(filepath.Join(paths.DataDir, "OTHER.20251130.csv"), "ignored"))

	ds, err := o.RunServiceData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-11-29", "2025-11-30"}, ds.Dates)
	assert.Equal(t, 3, ds.Metadata.FilesProcessed)
	assert.Equal(t, 1, ds.Metadata.FilesSkipped)

	day := ds.Data["2025-11-30"]
	assert.Equal(t, int64(10), day.TotalCalls)
	assert.Equal(t, 1, day.ProcessedRows)
	assert.Equal(t, 1, day.FilteredRows)
	assert.Equal(t, "08:00", day.MostActiveHour)
	assert.Equal(t, "14:00", ds.Data["2025-11-29"].MostActiveHour)

	written := readDataset(t, paths.ServiceDataJSON)
	assert.Equal(t, ds.Dates, written.Dates)
	assert.Equal(t, ds.Data["2025-11-29"].TopITSystems, written.Data["2025-11-29"].TopITSystems)
}

func TestOrchestrator_RunServiceData_NegativeCounts(t *testing.T) {
	o, paths := newTestOrchestrator(t, nil)

	writeSource(t, paths, "KOSDY-PROD.20251130.csv",
		csvLine(-5, "SAP", "2025-11-30T08:00:00", "Person", "get", "v1", "Sup"),
		csvLine(7, "SAP", "2025-11-30T09:00:00", "Person", "get", "v1", "Sup"),
	)
	writeSource(t, paths, "KOSDY-PROD.20251201.csv",
		csvLine(-9, "KMD", "2025-12-01T10:00:00", "Adresse", "put", "v2", "Sup"),
	)

	ds, err := o.RunServiceData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ds)

	written := readDataset(t, paths.ServiceDataJSON)
	assert.Equal(t, []string{"2025-11-30", "2025-12-01"}, written.Dates)
	assert.Equal(t, int64(2), written.Data["2025-11-30"].TotalCalls)
	assert.Equal(t, int64(-9), written.Data["2025-12-01"].TotalCalls)
	assert.Equal(t, 1, written.Data["2025-12-01"].ProcessedRows)
	assert.Equal(t, "KMD", written.Data["2025-12-01"].MostActiveITSystem)
	assert.Equal(t, 0, written.Metadata.FilesSkipped)
}

func TestOrchestrator_ParallelMatchesSequential(t *testing.T) {
	build := func(parallelism int) *domain.ServiceDataset {
		o, paths := newTestOrchestrator(t, func(c *config.Config) { c.Run.Parallelism = parallelism })
		for day := 1; day <= 9; day++ {
			var rows []string
			for i := 0; i < 30; i++ {
				rows = append(rows, csvLine(i*day%11, fmt.Sprintf("sys%d", i%5), fmt.Sprintf("2025-11-%02dT%02d:00:00", day, i%24),
					"svc", fmt.Sprintf("op%d", i%3), "v1", "sup"))
			}
			writeSource(t, paths, fmt.Sprintf("KOSDY-PROD.202511%02d.csv", day), rows...)
		}
		ds, err := o.BuildServiceDataset(context.Background())
		require.NoError(t, err)
		return ds
	}

	sequential := build(1)
	parallel := build(4)

	require.Len(t, sequential.Dates, 9)
	assert.Equal(t, sequential, parallel)
}

func TestOrchestrator_BuildServiceDataset_Cancelled(t *testing.T) {
	o, paths := newTestOrchestrator(t, nil)
	writeSource(t, paths, "KOSDY-PROD.20251130.csv", csvLine(1, "a", "", "b", "c", "v1", "d"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.BuildServiceDataset(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrchestrator_RunKlasseData_MissingWorkbook(t *testing.T) {
	o, paths := newTestOrchestrator(t, nil)

	_, err := o.RunKlasseData(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsFatal(err))
	assert.NoFileExists(t, paths.KlasseDataJSON)
}

func TestOrchestrator_RunKlasseData(t *testing.T) {
	o, paths := newTestOrchestrator(t, nil)
	writeWorkbook(t, paths.DataDir, [][]any{
		{"Sag", "Ejende myndighed", "Master IT-systemNavn", "X", "KleEmne", "Y", "Fremdrift"},
		{"1", "Kommune A", "SAP", "", "01.00.05", "", "Igang"},
		{"2", "Kommune A", "SAP", "", "01.00.05", "", "Igang"},
		{"3", "Kommune B", "KMD", "", "01.00.00", "", "Afsluttet"},
	})

	report, err := o.RunKlasseData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Metadata.TotalRecords)
	assert.Equal(t, "sagKlasseReport.xlsx", report.Metadata.SourceFile)
	assert.Equal(t, "2025-12-01T06:00:00Z", report.Metadata.ProcessedAt)

	data, err := os.ReadFile(paths.KlasseDataJSON)
	require.NoError(t, err)

	var written domain.KlasseReport
	require.NoError(t, json.Unmarshal(data, &written))
	require.NotNil(t, written.KleEmne)
	assert.Equal(t, "root", written.KleEmne.Name)
	assert.Equal(t, int64(3), written.KleEmne.Value)
	require.Len(t, written.KleEmne.Children, 1)

	mid := written.KleEmne.Children[0].Children[0]
	assert.Equal(t, "01.00", mid.Name)
	require.Len(t, mid.Children, 2)
	assert.Equal(t, domain.KlasseNode{Name: "01.00.00", Value: 1, Children: []*domain.KlasseNode{}}, *mid.Children[0])
	assert.Equal(t, int64(2), mid.Children[1].Value)
}
