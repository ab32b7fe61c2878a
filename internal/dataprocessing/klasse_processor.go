package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"svcpulse/pkg/contracts/domain"
)

const klasseProgressInterval = 10000

// KlasseColumns holds the zero-based grid columns counted for the case report.
type KlasseColumns struct {
	Authority      int
	MasterITSystem int
	Classification int
	Progress       int
}

// DefaultKlasseColumns is the layout of sagKlasseReport.xlsx (B, C, E, G).
func DefaultKlasseColumns() KlasseColumns {
	return KlasseColumns{
		Authority:      1,
		MasterITSystem: 2,
		Classification: 4,
		Progress:       6,
	}
}

// KlasseProcessor counts the case classification grid and builds the
// classification rollup tree.
type KlasseProcessor struct {
	columns   KlasseColumns
	flatLimit int
	now       func() time.Time
	logger    *slog.Logger
}

// NewKlasseProcessor creates a processor. flatLimit truncates kleEmneFlat;
// zero keeps every code.
func NewKlasseProcessor(columns KlasseColumns, flatLimit int, logger *slog.Logger) *KlasseProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &KlasseProcessor{
		columns:   columns,
		flatLimit: flatLimit,
		now:       time.Now,
		logger:    logger,
	}
}

// ProcessGrid builds the report for grid, whose row 0 is the header. Every
// data row counts toward TotalRecords; each non-blank trimmed cell of a
// counted column adds one to its value.
func (p *KlasseProcessor) ProcessGrid(ctx context.Context, grid [][]string, sourceFile string) (*domain.KlasseReport, error) {
	authorities := make(Bucket)
	systems := make(Bucket)
	codes := make(Bucket)
	progress := make(Bucket)
	records := 0

	for i := 1; i < len(grid); i++ {
		row := grid[i]
		countCell(authorities, row, p.columns.Authority)
		countCell(systems, row, p.columns.MasterITSystem)
		countCell(codes, row, p.columns.Classification)
		countCell(progress, row, p.columns.Progress)
		records++

		if records%klasseProgressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p.logger.DebugContext(ctx, "Processing rows",
				slog.Int("processed_rows", records))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree := BuildTree(codes)

	p.logger.InfoContext(ctx, "Case report aggregated",
		slog.Int("total_records", records),
		slog.Int("unique_authorities", len(authorities)),
		slog.Int("unique_it_systems", len(systems)),
		slog.Int("unique_classifications", len(codes)),
		slog.Int("unique_progress", len(progress)),
		slog.Int("tree_nodes", tree.Len()))

	return &domain.KlasseReport{
		Metadata: domain.KlasseMetadata{
			TotalRecords: records,
			ProcessedAt:  p.now().UTC().Format(time.RFC3339),
			SourceFile:   sourceFile,
		},
		EjendeMyndighed:    toCounts(Rank(authorities, 0)),
		MasterITSystemNavn: toCounts(Rank(systems, 0)),
		KleEmne:            tree.ToNode(),
		KleEmneFlat:        toCounts(Rank(codes, p.flatLimit)),
		Fremdrift:          toCounts(Rank(progress, 0)),
	}, nil
}

func countCell(b Bucket, row []string, col int) {
	if col < 0 || col >= len(row) {
		return
	}
	if v := strings.TrimSpace(row[col]); v != "" {
		b.Add(v, 1)
	}
}
