package dataprocessing

import (
	"sort"
	"time"

	"svcpulse/pkg/contracts/domain"
)

// DatedResult is the finished result of one dated source.
type DatedResult struct {
	Date   string
	Source string
	Result *domain.ServiceDayResult
}

// MergeDataset combines finished per-source results into one dataset with
// ascending dates. When two sources share a date the later one in results
// wins. discovered and skipped are recorded in the metadata.
func MergeDataset(results []DatedResult, discovered, skipped int, processedAt time.Time) *domain.ServiceDataset {
	ds := domain.NewEmptyServiceDataset(processedAt.UTC().Format(time.RFC3339))
	ds.Metadata.FilesProcessed = discovered
	ds.Metadata.FilesSkipped = skipped

	for _, r := range results {
		if r.Result == nil {
			continue
		}
		if _, exists := ds.Data[r.Date]; !exists {
			ds.Dates = append(ds.Dates, r.Date)
		}
		ds.Data[r.Date] = *r.Result
	}

	sort.Strings(ds.Dates)
	return ds
}
