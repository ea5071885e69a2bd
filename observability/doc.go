// Package observability wires OpenTelemetry tracing and metrics for vlmscribe.
//
// Both exporters speak OTLP over HTTP and are off unless Config.Enabled is
// set; the global no-op providers are used otherwise, so StartSpan and the
// Metrics instruments are always safe to call.
package observability
