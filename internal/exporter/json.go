package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	apperrors "svcpulse/internal/errors"
	"svcpulse/internal/files"
)

// JSONWriter writes output artifacts as indented JSON.
type JSONWriter struct {
	manager *files.Manager
	indent  string
	logger  *slog.Logger
}

// NewJSONWriter creates a writer that stores artifacts through manager.
func NewJSONWriter(manager *files.Manager, logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{
		manager: manager,
		indent:  "  ",
		logger:  logger,
	}
}

// Write encodes v to path. The file is replaced atomically, so a failed
// write leaves any previous artifact intact.
func (w *JSONWriter) Write(path string, v any) error {
	err := w.manager.WriteAtomic(path, func(out io.Writer) error {
		return Encode(out, v, w.indent)
	})
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write artifact %s", path), err).
			WithContext("path", path)
	}

	w.logger.Info("Artifact written",
		slog.String("path", path))
	return nil
}

// Encode writes v as JSON with the given indent. HTML characters are not
// escaped so names such as "A&B" stay readable.
func Encode(out io.Writer, v any, indent string) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
