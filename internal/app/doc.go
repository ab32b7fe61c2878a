// Package app assembles one svcpulse run: configuration, paths, logging,
// telemetry and the orchestrator. Both command-line entry points build an
// Application and call Run.
package app
