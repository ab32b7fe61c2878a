package domain

// RankedEntry is one named bucket of a top-N ranking of call volumes.
type RankedEntry struct {
	Name  string `json:"name" validate:"required"`
	Calls int64  `json:"calls"`
}

// VersionEntry is a ranked service version.
type VersionEntry struct {
	Version string `json:"version" validate:"required"`
	Calls   int64  `json:"calls"`
}

// HourlyEntry is one point of the hour-of-day call series ("HH:00").
type HourlyEntry struct {
	Hour  string `json:"hour" validate:"required,len=5"`
	Calls int64  `json:"calls"`
}

// MatrixEntry is one cell of the IT system × operation matrix.
type MatrixEntry struct {
	ITSystem  string `json:"itSystem" validate:"required"`
	Operation string `json:"operation" validate:"required"`
	Calls     int64  `json:"calls"`
}

// ServiceDayResult holds everything computed for one day's service-call extract.
// Field names follow the dashboard's JSON contract, which is camelCase.
type ServiceDayResult struct {
	// TotalCalls sums signed counts and may be negative.
	TotalCalls         int64  `json:"totalCalls"`
	ProcessedRows      int    `json:"processedRows" validate:"min=0"`
	FilteredRows       int    `json:"filteredRows" validate:"min=0"`
	UniqueITSystems    int    `json:"uniqueITSystems" validate:"min=0"`
	UniqueServices     int    `json:"uniqueServices" validate:"min=0"`
	UniqueOperations   int    `json:"uniqueOperations" validate:"min=0"`
	MostActiveHour     string `json:"mostActiveHour" validate:"required,len=5"`
	MostActiveITSystem string `json:"mostActiveITSystem" validate:"required"`

	Hourly             []HourlyEntry  `json:"hourly" validate:"dive"`
	TopITSystems       []RankedEntry  `json:"topITSystems" validate:"dive"`
	TopServices        []RankedEntry  `json:"topServices" validate:"dive"`
	TopOperations      []RankedEntry  `json:"topOperations" validate:"dive"`
	SupportSystems     []RankedEntry  `json:"supportSystems" validate:"dive"`
	ServiceVersions    []VersionEntry `json:"serviceVersions" validate:"dive"`
	ITSystemOperations []MatrixEntry  `json:"itSystemOperations" validate:"dive"`
}

// DatasetMetadata describes a single run of the service-data pipeline.
type DatasetMetadata struct {
	ProcessedAt    string `json:"processedAt" validate:"required"`
	FilesProcessed int    `json:"filesProcessed" validate:"min=0"`
	FilesSkipped   int    `json:"filesSkipped" validate:"min=0"`
}

// ServiceDataset is the merged multi-day artifact. Dates are ascending
// "YYYY-MM-DD" strings and every date has an entry in Data.
type ServiceDataset struct {
	Dates    []string                    `json:"dates"`
	Data     map[string]ServiceDayResult `json:"data" validate:"dive"`
	Metadata DatasetMetadata             `json:"metadata"`
}

// NewEmptyServiceDataset returns a well-formed dataset with no dates.
func NewEmptyServiceDataset(processedAt string) *ServiceDataset {
	return &ServiceDataset{
		Dates: []string{},
		Data:  map[string]ServiceDayResult{},
		Metadata: DatasetMetadata{
			ProcessedAt: processedAt,
		},
	}
}
