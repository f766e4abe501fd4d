// Package telemetry provides structured logging, distributed tracing,
// Prometheus metrics, and construction lifecycle events for VMForge.
//
// The package is configured through a single Config struct and exposes
// a Telemetry bundle that can be attached to a context and retrieved in
// any layer of the engine.
package telemetry
