package config

// Application constants
const (
	AppName = "svcpulse"

	// File Paths (relative to the base directory)
	DefaultDataDir   = "data"
	DefaultOutputDir = "public"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "logs/svcpulse.log"

	// Well-known input and output files
	ServiceDataFileName = "serviceData.json"
	KlasseWorkbookName  = "sagKlasseReport.xlsx"
	KlasseDataFileName  = "klasseData.json"

	// Service-call extracts are named <prefix>YYYYMMDD<suffix>
	ServiceFilePrefix = "KOSDY-PROD."
	ServiceFileSuffix = ".csv"

	// NullMarker is the literal the extract uses for an absent value
	NullMarker = "NULL"

	// Log Settings
	DefaultLogLevel = "info"
)
