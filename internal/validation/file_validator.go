package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "svcpulse/internal/errors"
)

// Workbook naming rules for the case report.
const (
	workbookExt    = ".xlsx"
	lockFilePrefix = "~$"
)

// FileValidator checks the inputs and output locations of a run before any
// work is done on them.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputDirectory reports whether the extract directory exists. A
// missing directory returns (false, nil) so the run can still emit an empty
// dataset; a path that is not a directory is a validation error.
func (v *FileValidator) ValidateInputDirectory(dir string) (bool, error) {
	info, err := v.stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			v.logger.Warn("Input directory does not exist",
				slog.String("directory", dir))
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return false, apperrors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir)).
			WithContext("path", dir)
	}
	return true, nil
}

// ValidateOutputDirectory creates dir if needed and probes it with a
// throwaway file so an unwritable target fails before the artifact is
// encoded.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".svcpulse-probe-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks that a mandatory input is a readable regular file.
// A missing file is a MISSING_SOURCE error.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := v.stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			v.logger.Error("Mandatory source not found",
				slog.String("file", path))
			return apperrors.NewMissingSourceError(path, err)
		}
		return err
	}
	if info.IsDir() {
		v.logger.Error("Source path is a directory",
			slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path)).
			WithContext("path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewParsingError(fmt.Sprintf("source %s is not readable", path), err)
	}
	f.Close()

	v.logger.Debug("Source validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile validates the case report workbook: it must exist, end
// in .xlsx and not be an Office lock file.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	name := filepath.Base(path)
	switch ext := strings.ToLower(filepath.Ext(name)); {
	case ext != workbookExt:
		v.logger.Error("Source is not an xlsx workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is not an xlsx workbook", name)).
			WithContext("extension", ext)
	case strings.HasPrefix(name, lockFilePrefix):
		v.logger.Warn("Rejecting Office lock file",
			slog.String("file", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is an Office lock file", name))
	}
	return nil
}

// stat wraps unexpected stat failures; not-exist errors are returned as is
// so callers can decide whether absence is fatal.
func (v *FileValidator) stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return info, err
	}
	v.logger.Error("Failed to stat path",
		slog.String("path", path),
		slog.String("error", err.Error()))
	return nil, apperrors.NewStorageError(fmt.Sprintf("failed to stat %s", path), err)
}
