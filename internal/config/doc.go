// Package config provides configuration management for the svcpulse
// analytics pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file (svcpulse.yaml, or $SVCPULSE_CONFIG)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SVCPULSE_<SECTION>_<FIELD>:
//
//	SVCPULSE_LOGGING_LEVEL=debug
//	SVCPULSE_PATHS_DATA_DIR=/srv/extracts
//	SVCPULSE_INGEST_NULL_MARKER=NULL
//	SVCPULSE_RANKING_TOP_SERVICES=25
//	SVCPULSE_RUN_PARALLELISM=4
//
// # Paths
//
// ResolvePaths turns the relative entries of PathsConfig into absolute
// locations for the data directory, the output artifacts and the logs.
package config
