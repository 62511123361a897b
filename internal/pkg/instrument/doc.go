// Package instrument sets up structured logging and, optionally, OpenTelemetry
// tracing, metrics and log export over OTLP/gRPC.
//
// Logging always goes through log/slog. Values of sensitive keys (passwords,
// hash records, secrets) are masked before any handler sees them.
package instrument
