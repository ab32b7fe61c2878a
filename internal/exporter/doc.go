// Package exporter writes the pipeline's output artifacts.
//
// JSONWriter encodes an artifact as two-space indented JSON and stores it
// atomically through files.Manager, so consumers polling the output
// directory only ever see a complete document.
//
// Example usage:
//
//	writer := exporter.NewJSONWriter(files.NewManager(paths, logger), logger)
//	err := writer.Write(paths.ServiceDataJSON, dataset)
package exporter
