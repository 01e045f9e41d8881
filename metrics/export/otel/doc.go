// Package otel bridges keymint metric snapshots into OpenTelemetry
// observable instruments so any configured OTel pipeline can export them.
package otel
