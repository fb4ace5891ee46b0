// Package telemetry provides OpenTelemetry initialization and helpers
// for tracing, logs and metrics across the kitchen server.
//
// The package configures OTLP HTTP export for all three signals. When no
// endpoint is configured the global no-op providers stay in place.
package telemetry
