// Package dataprocessing implements the svcpulse analytics pipeline.
//
// Service-call extracts flow through a fixed chain of small components:
//
//	line → SplitLine → Extractor (admission gate) → Aggregator → Rank → ServiceDayResult
//
// Each source gets its own Aggregator, so sources can be processed
// independently and merged afterwards with MergeDataset.
//
// The case classification workbook is read with ReadGrid, counted by
// KlasseProcessor and rolled up with BuildTree, an arena-backed prefix tree
// over dot-delimited codes that is aggregated and pruned in two post-order
// passes.
//
// Orchestrator ties both pipelines to discovery, validation, tracing,
// metrics and atomic artifact output:
//
//	orch, err := dataprocessing.NewOrchestrator(cfg, paths, logger)
//	dataset, err := orch.RunServiceData(ctx)
//	report, err := orch.RunKlasseData(ctx)
//
// # Error Handling
//
// Row-level problems never fail a run. Malformed counts parse as zero and
// rows without a service version are counted as filtered. Undated sources
// are skipped with a warning. Only a missing mandatory workbook is fatal;
// see errors.IsFatal.
package dataprocessing
