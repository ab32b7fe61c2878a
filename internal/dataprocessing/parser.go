package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	apperrors "svcpulse/internal/errors"
)

// ReadGrid returns the cells of the first sheet of an xlsx workbook as raw
// strings, one slice per row. Rows keep their position, so a blank row in
// the middle of the sheet is an empty slice. A nil logger uses slog.Default.
func ReadGrid(ctx context.Context, path string, logger *slog.Logger) ([][]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewMissingSourceError(path, err)
		}
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheetName), err)
	}

	logger.InfoContext(ctx, "Read workbook sheet",
		slog.String("file", path),
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return rows, nil
}
