// Package metrics provides a thread-safe factory for OpenTelemetry metrics
// with lazy instrument creation, plus ready-made instrumentation for the
// circuitbreaker and batch packages.
package metrics
