// Package files provides file system operations and discovery utilities
// for the svcpulse pipeline.
//
// Discovery finds input sources in a directory by name prefix and suffix,
// sorted by name so runs are reproducible.
//
// Manager reads source lines and writes output artifacts atomically
// through a temporary file that is renamed into place.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.BaseDir)
//	sources, err := discovery.FindSourceFiles(paths.DataDir, "KOSDY-PROD.", ".csv")
//
//	manager := files.NewManager(paths, logger)
//	lines, err := manager.ReadLines(sources[0].Path)
package files
